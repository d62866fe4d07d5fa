package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/EnZ0cez/StockAgent/pkg/llm"
)

type fakeClassifier struct {
	intent *llm.Intent
	err    error
}

func (f *fakeClassifier) ClassifyIntent(ctx context.Context, message string, ictx llm.IntentContext) (*llm.Intent, error) {
	return f.intent, f.err
}

type fakeResponder struct {
	answer string
	err    error
}

func (f *fakeResponder) Answer(ctx context.Context, prompt string) (string, error) {
	return f.answer, f.err
}

func newTestConversation(t *testing.T, classifier llm.IntentClassifier, responder llm.Responder) *Conversation {
	t.Helper()
	market := &fakeMarket{quote: testQuote(), bars: testBars(30)}
	analyzer := &fakeAnalyzer{analysis: &llm.Analysis{Recommendation: "Buy", ConfidenceScore: 0.8, Summary: "solid"}}
	coordinator := newTestCoordinator(t, market, &fakeSearcher{}, analyzer)
	stock := NewStockDataAgent(market, nil)
	stock.sleep = noSleep
	return NewConversation(coordinator, classifier, responder, stock)
}

func TestHeuristicIntent(t *testing.T) {
	cases := []struct {
		message          string
		analysisComplete bool
		want             string
	}{
		{"Analyze AAPL", false, llm.IntentNewAnalysis},
		{"Compare AAPL and MSFT", false, llm.IntentComparison},
		{"TSLA vs RIVN", false, llm.IntentComparison},
		{"TSLA please", false, llm.IntentNewAnalysis},
		{"What are the risks?", true, llm.IntentFollowUp},
		{"thanks!", false, llm.IntentUnknown},
	}

	for _, tc := range cases {
		got := heuristicIntent(tc.message, tc.analysisComplete)
		assert.Equal(t, got.Type, tc.want)
	}
}

func TestProcessMessageNewAnalysis(t *testing.T) {
	classifier := &fakeClassifier{intent: &llm.Intent{Type: llm.IntentNewAnalysis, Symbols: []string{"AAPL"}}}
	c := newTestConversation(t, classifier, &fakeResponder{answer: "ok"})

	resp := c.ProcessMessage(context.Background(), "Analyze AAPL")
	assert.Equal(t, resp.Success, true)
	assert.Equal(t, resp.IntentType, llm.IntentNewAnalysis)
	assert.Equal(t, resp.Symbol, "AAPL")
	assert.Equal(t, strings.Contains(resp.Message, "Buy"), true)
	assert.Equal(t, len(resp.FollowUpQuestions) > 0, true)
	assert.Equal(t, len(c.History()), 2)
}

func TestProcessMessageFollowUpWithoutAnalysis(t *testing.T) {
	classifier := &fakeClassifier{intent: &llm.Intent{Type: llm.IntentFollowUp}}
	c := newTestConversation(t, classifier, &fakeResponder{answer: "ok"})

	resp := c.ProcessMessage(context.Background(), "What are the risks?")
	assert.Equal(t, resp.Success, false)
	assert.Equal(t, strings.Contains(resp.Message, "analyze a stock first"), true)
}

func TestProcessMessageFollowUpAfterAnalysis(t *testing.T) {
	classifier := &fakeClassifier{intent: &llm.Intent{Type: llm.IntentNewAnalysis}}
	responder := &fakeResponder{answer: "The main risks are valuation and competition."}
	c := newTestConversation(t, classifier, responder)

	c.ProcessMessage(context.Background(), "Analyze AAPL")

	classifier.intent = &llm.Intent{Type: llm.IntentFollowUp}
	resp := c.ProcessMessage(context.Background(), "What are the risks?")
	assert.Equal(t, resp.Success, true)
	assert.Equal(t, resp.Message, responder.answer)
	assert.Equal(t, resp.Symbol, "AAPL")
}

func TestProcessMessageComparisonNeedsTwoSymbols(t *testing.T) {
	classifier := &fakeClassifier{intent: &llm.Intent{Type: llm.IntentComparison}}
	c := newTestConversation(t, classifier, &fakeResponder{answer: "ok"})

	resp := c.ProcessMessage(context.Background(), "Compare AAPL")
	assert.Equal(t, resp.Success, false)
}

func TestProcessMessageComparison(t *testing.T) {
	classifier := &fakeClassifier{intent: &llm.Intent{Type: llm.IntentComparison}}
	c := newTestConversation(t, classifier, &fakeResponder{answer: "Both look fine."})

	resp := c.ProcessMessage(context.Background(), "Compare AAPL and MSFT")
	assert.Equal(t, resp.Success, true)
	assert.Equal(t, resp.Symbols, []string{"AAPL", "MSFT"})
	assert.Equal(t, strings.Contains(resp.Message, "Both look fine."), true)
}

func TestProcessMessageGeneralQuestionDisclaimer(t *testing.T) {
	classifier := &fakeClassifier{intent: &llm.Intent{Type: llm.IntentGeneralQuestion}}
	c := newTestConversation(t, classifier, &fakeResponder{answer: "Diversification spreads risk."})

	resp := c.ProcessMessage(context.Background(), "What is diversification?")
	assert.Equal(t, resp.Success, true)
	assert.Equal(t, strings.Contains(resp.Message, "not financial advice"), true)
}

func TestProcessMessageClassifierFailureFallsBack(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("model unavailable")}
	c := newTestConversation(t, classifier, &fakeResponder{answer: "ok"})

	resp := c.ProcessMessage(context.Background(), "Analyze AAPL")
	assert.Equal(t, resp.IntentType, llm.IntentNewAnalysis)
	assert.Equal(t, resp.Success, true)
}

func TestConversationReset(t *testing.T) {
	classifier := &fakeClassifier{intent: &llm.Intent{Type: llm.IntentNewAnalysis}}
	c := newTestConversation(t, classifier, &fakeResponder{answer: "ok"})

	c.ProcessMessage(context.Background(), "Analyze AAPL")
	c.Reset()
	assert.Equal(t, len(c.History()), 0)
	assert.Equal(t, c.Summary()["analysis_complete"], false)
}
