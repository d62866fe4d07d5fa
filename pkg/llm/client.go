package llm

import (
	"context"
	"encoding/json"

	"github.com/EnZ0cez/StockAgent/pkg/news"
)

// Analysis is the structured investment assessment produced by the model.
type Analysis struct {
	Summary             string   `json:"summary"`
	PerformanceAnalysis string   `json:"performance_analysis"`
	SentimentAnalysis   string   `json:"sentiment_analysis"`
	FinancialHealth     string   `json:"financial_health"`
	RiskFactors         []string `json:"risk_factors"`
	Recommendation      string   `json:"recommendation"`
	ConfidenceScore     float64  `json:"confidence_score"`
	Timestamp           string   `json:"timestamp"`
	ModelUsed           string   `json:"model_used,omitempty"`
}

// AnalysisInput carries the collected stage outputs as raw JSON. Sections
// that failed upstream are nil and rendered as "Not available".
type AnalysisInput struct {
	Symbol        string
	StockData     json.RawMessage
	NewsData      json.RawMessage
	FinancialData json.RawMessage
}

type NewsSummary struct {
	Summary        string   `json:"summary"`
	ImpactAnalysis string   `json:"impact_analysis"`
	KeyThemes      []string `json:"key_themes"`
	Sentiment      string   `json:"sentiment"`
	Confidence     float64  `json:"confidence"`
}

// Intent classification for the conversation manager.
const (
	IntentNewAnalysis     = "new_analysis"
	IntentFollowUp        = "follow_up"
	IntentClarification   = "clarification"
	IntentComparison      = "comparison"
	IntentGeneralQuestion = "general_question"
	IntentUnknown         = "unknown"
)

type Intent struct {
	Type                 string   `json:"type"`
	Confidence           float64  `json:"confidence"`
	Symbols              []string `json:"symbols"`
	TimePeriod           string   `json:"time_period"`
	SpecificQuestions    []string `json:"specific_questions"`
	ComparisonParameters []string `json:"comparison_parameters"`
}

type IntentContext struct {
	PreviousSymbol   string
	AnalysisComplete bool
}

type Analyzer interface {
	Analyze(ctx context.Context, input AnalysisInput) (*Analysis, error)
}

type NewsSummarizer interface {
	SummarizeNews(ctx context.Context, symbol string, articles []news.Article) (*NewsSummary, error)
}

type IntentClassifier interface {
	ClassifyIntent(ctx context.Context, message string, ictx IntentContext) (*Intent, error)
}

type Responder interface {
	Answer(ctx context.Context, prompt string) (string, error)
}
