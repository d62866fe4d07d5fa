package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/EnZ0cez/StockAgent/pkg/llm"
)

// Response is what the conversation manager hands back for each user turn.
type Response struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	IntentType        string   `json:"intent_type"`
	Symbol            string   `json:"symbol,omitempty"`
	Symbols           []string `json:"symbols,omitempty"`
	State             *State   `json:"state,omitempty"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`
}

// Conversation keeps the multi-turn session state: history, the last
// completed analysis and the symbol it was for.
type Conversation struct {
	coordinator *Coordinator
	classifier  llm.IntentClassifier
	responder   llm.Responder
	stock       *StockDataAgent

	history          []Message
	currentSymbol    string
	analysisComplete bool
	lastState        *State
}

func NewConversation(coordinator *Coordinator, classifier llm.IntentClassifier, responder llm.Responder, stock *StockDataAgent) *Conversation {
	return &Conversation{
		coordinator: coordinator,
		classifier:  classifier,
		responder:   responder,
		stock:       stock,
	}
}

// ProcessMessage classifies the user's intent and routes to the matching
// handler. Classification failures fall back to a keyword heuristic so the
// session keeps working when the model is unreachable.
func (c *Conversation) ProcessMessage(ctx context.Context, message string) *Response {
	c.history = append(c.history, Message{Role: "user", Content: message, Timestamp: time.Now()})

	intent := c.classify(ctx, message)

	var resp *Response
	switch intent.Type {
	case llm.IntentNewAnalysis:
		resp = c.handleNewAnalysis(ctx, message)
	case llm.IntentFollowUp:
		resp = c.handleFollowUp(ctx, message)
	case llm.IntentClarification:
		resp = c.handleClarification(ctx, message)
	case llm.IntentComparison:
		resp = c.handleComparison(ctx, message)
	case llm.IntentGeneralQuestion:
		resp = c.handleGeneralQuestion(ctx, message)
	default:
		resp = c.handleUnknown()
	}
	resp.IntentType = intent.Type

	c.history = append(c.history, Message{Role: "assistant", Content: resp.Message, Timestamp: time.Now()})
	return resp
}

func (c *Conversation) classify(ctx context.Context, message string) *llm.Intent {
	if c.classifier != nil {
		intent, err := c.classifier.ClassifyIntent(ctx, message, llm.IntentContext{
			PreviousSymbol:   c.currentSymbol,
			AnalysisComplete: c.analysisComplete,
		})
		if err == nil && intent.Type != "" {
			return intent
		}
		if err != nil {
			slog.Warn("intent classification failed, using heuristic", "error", err)
		}
	}
	return heuristicIntent(message, c.analysisComplete)
}

// heuristicIntent is the offline fallback classifier.
func heuristicIntent(message string, analysisComplete bool) *llm.Intent {
	lower := strings.ToLower(message)
	symbols := extractSymbols(message)

	switch {
	case strings.Contains(lower, "compare") || strings.Contains(lower, " vs ") || strings.Contains(lower, "versus"):
		return &llm.Intent{Type: llm.IntentComparison, Symbols: symbols, Confidence: 0.5}
	case strings.Contains(lower, "analyze") || strings.Contains(lower, "analysis"):
		return &llm.Intent{Type: llm.IntentNewAnalysis, Symbols: symbols, Confidence: 0.5}
	case len(symbols) > 0 && !analysisComplete:
		return &llm.Intent{Type: llm.IntentNewAnalysis, Symbols: symbols, Confidence: 0.4}
	case analysisComplete && (strings.Contains(lower, "what") || strings.Contains(lower, "how") || strings.Contains(lower, "why")):
		return &llm.Intent{Type: llm.IntentFollowUp, Confidence: 0.4}
	default:
		return &llm.Intent{Type: llm.IntentUnknown, Confidence: 0}
	}
}

func (c *Conversation) handleNewAnalysis(ctx context.Context, message string) *Response {
	params := ParseQuery(message, c.coordinator.defaults)
	c.currentSymbol = params.Symbol
	c.analysisComplete = false

	state, err := c.coordinator.AnalyzeStock(ctx, message)
	if err != nil {
		return &Response{
			Success: false,
			Symbol:  params.Symbol,
			State:   state,
			Message: fmt.Sprintf("I couldn't complete the analysis for %s: %s", params.Symbol, state.ErrorMessage),
		}
	}

	c.analysisComplete = true
	c.lastState = state

	questions := followUpQuestions()
	msg := fmt.Sprintf("I've completed the analysis for %s.\n\nRecommendation: %s\nConfidence: %.2f\n\nYou can ask follow-up questions like:\n%s",
		params.Symbol, state.Analysis.Recommendation, state.Analysis.ConfidenceScore, bulletList(questions[:5]))
	if state.Reports != nil {
		msg += fmt.Sprintf("\n\nReports written to %s and %s", state.Reports.PDFPath, state.Reports.JSONPath)
	}

	return &Response{
		Success:           true,
		Symbol:            params.Symbol,
		State:             state,
		Message:           msg,
		FollowUpQuestions: questions,
	}
}

func (c *Conversation) handleFollowUp(ctx context.Context, message string) *Response {
	if !c.analysisComplete || c.lastState == nil {
		return &Response{
			Success: false,
			Message: "I don't have a previous analysis to refer to. Please ask me to analyze a stock first.",
		}
	}

	analysis := c.lastState.Analysis
	prompt := fmt.Sprintf(`The user is asking a follow-up question about a stock analysis.

Question: %q

Previous analysis for %s:
- Recommendation: %s
- Summary: %s
- Risk factors: %s

Provide a specific, helpful answer grounded in the analysis above. State any assumptions clearly.`,
		message, c.currentSymbol, analysis.Recommendation, analysis.Summary, strings.Join(analysis.RiskFactors, "; "))

	answer, err := c.responder.Answer(ctx, prompt)
	if err != nil {
		return &Response{Success: false, Message: "I couldn't answer that follow-up question: " + err.Error()}
	}
	return &Response{Success: true, Symbol: c.currentSymbol, Message: answer}
}

func (c *Conversation) handleClarification(ctx context.Context, message string) *Response {
	if !c.analysisComplete {
		return &Response{
			Success: false,
			Message: "I don't have a previous analysis to clarify. Please ask me to analyze a stock first.",
		}
	}

	prompt := fmt.Sprintf(`The user is asking for clarification about a previous stock analysis of %s.

Question: %q

Provide a clear explanation in simple language, with context where helpful.`, c.currentSymbol, message)

	answer, err := c.responder.Answer(ctx, prompt)
	if err != nil {
		return &Response{Success: false, Message: "I couldn't provide clarification: " + err.Error()}
	}
	return &Response{Success: true, Symbol: c.currentSymbol, Message: answer}
}

func (c *Conversation) handleComparison(ctx context.Context, message string) *Response {
	symbols := extractSymbols(message)
	if len(symbols) < 2 {
		return &Response{
			Success: false,
			Message: "I need at least 2 stock symbols to compare. Try something like 'Compare AAPL and MSFT'.",
		}
	}
	if len(symbols) > 5 {
		symbols = symbols[:5]
	}

	var lines []string
	for _, sym := range symbols {
		data, err := c.stock.GetStockData(ctx, sym, "1y")
		if err != nil {
			lines = append(lines, fmt.Sprintf("%s: data unavailable (%s)", sym, err))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: $%.2f (%.2f%% today), period return %.2f%%",
			sym, data.Current.Price, data.Current.ChangePercent, data.Performance.PeriodReturn))
	}

	prompt := fmt.Sprintf(`Generate a comparison summary for these stocks: %s

Data:
%s

Highlight key differences and similarities across performance, valuation and relative strengths. Keep it concise.`,
		strings.Join(symbols, ", "), strings.Join(lines, "\n"))

	summary, err := c.responder.Answer(ctx, prompt)
	if err != nil {
		summary = "Comparison summary unavailable: " + err.Error()
	}

	msg := fmt.Sprintf("Stock comparison: %s\n\n%s\n\n%s",
		strings.Join(symbols, ", "), strings.Join(lines, "\n"), summary)
	return &Response{Success: true, Symbols: symbols, Message: msg}
}

func (c *Conversation) handleGeneralQuestion(ctx context.Context, message string) *Response {
	prompt := fmt.Sprintf(`The user is asking a general question about investing or the stock market.

Question: %q

Provide a helpful, educational answer with balanced perspectives. Keep it concise.`, message)

	answer, err := c.responder.Answer(ctx, prompt)
	if err != nil {
		return &Response{Success: false, Message: "I couldn't answer that question: " + err.Error()}
	}
	answer += "\n\nNote: this information is for educational purposes only and is not financial advice."
	return &Response{Success: true, Message: answer}
}

func (c *Conversation) handleUnknown() *Response {
	return &Response{
		Success: false,
		Message: "I'm not sure what you're asking for. You can:\n" +
			bulletList([]string{
				"Ask me to analyze a stock (e.g. 'Analyze AAPL')",
				"Ask follow-up questions about a previous analysis",
				"Compare multiple stocks",
				"Ask general investing questions",
			}),
	}
}

// Summary reports where the session stands.
func (c *Conversation) Summary() map[string]any {
	return map[string]any{
		"total_messages":    len(c.history),
		"current_symbol":    c.currentSymbol,
		"analysis_complete": c.analysisComplete,
	}
}

// Reset clears all session state.
func (c *Conversation) Reset() {
	c.history = nil
	c.currentSymbol = ""
	c.analysisComplete = false
	c.lastState = nil
}

func (c *Conversation) History() []Message {
	return c.history
}

func followUpQuestions() []string {
	return []string{
		"What are the main risk factors for this stock?",
		"How might this stock perform if interest rates rise?",
		"What are the key growth drivers?",
		"How does this compare to its industry peers?",
		"What's the long-term investment potential?",
		"Should I consider buying, holding, or selling?",
		"What catalysts could affect the stock price?",
		"How does the financial health look compared to last year?",
	}
}

func bulletList(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(item)
	}
	return sb.String()
}
