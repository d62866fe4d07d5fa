package agent

import (
	"time"

	"github.com/EnZ0cez/StockAgent/pkg/llm"
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Agent     string    `json:"agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// State is threaded through the pipeline stages. Each stage records its
// output and appends a progress message; the first failure is kept so the
// caller can report it, but later stages still run with partial data.
type State struct {
	Messages      []Message      `json:"messages"`
	Symbol        string         `json:"stock_symbol"`
	Period        string         `json:"time_period"`
	NewsDays      int            `json:"news_days"`
	StockData     *StockData     `json:"stock_data"`
	NewsData      *NewsData      `json:"news_data"`
	FinancialData *FinancialData `json:"financial_data"`
	Analysis      *llm.Analysis  `json:"analysis_result"`
	Reports       *ReportPaths   `json:"reports,omitempty"`
	CurrentAgent  string         `json:"current_agent"`
	ErrorMessage  string         `json:"error,omitempty"`
}

type ReportPaths struct {
	JSONPath string `json:"json_path"`
	PDFPath  string `json:"pdf_path"`
}

func (s *State) addMessage(role, content, agent string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		Agent:     agent,
		Timestamp: time.Now(),
	})
}

func (s *State) recordError(agent string, err error) {
	if s.ErrorMessage == "" {
		s.ErrorMessage = agent + ": " + err.Error()
	}
	s.addMessage("assistant", "Error in "+agent+": "+err.Error(), agent)
}
