package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/EnZ0cez/StockAgent/pkg/news"
)

func newFakeCompletionServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, true, strings.HasSuffix(r.URL.Path, "/chat/completions"))

		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "deepseek-chat", req["model"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   "deepseek-chat",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]interface{}{"role": "assistant", "content": reply},
				},
			},
		})
	}))
}

func TestAnalyze_ParsesFencedJSON(t *testing.T) {
	reply := "```json\n" + `{
		"summary": "AAPL looks solid",
		"performance_analysis": "Up 12% over the period",
		"sentiment_analysis": "Coverage is mildly positive",
		"financial_health": "Strong balance sheet",
		"risk_factors": ["regulatory pressure", "supply chain"],
		"recommendation": "Buy",
		"confidence_score": 0.82,
		"timestamp": "2026-08-28T00:00:00Z"
	}` + "\n```"

	srv := newFakeCompletionServer(t, reply)
	defer srv.Close()

	client := NewOpenAIClient("sk-test", srv.URL, "deepseek-chat")

	analysis, err := client.Analyze(context.Background(), AnalysisInput{
		Symbol:    "AAPL",
		StockData: json.RawMessage(`{"price": 186.75}`),
	})

	assert.Equal(t, nil, err)
	assert.Equal(t, "AAPL looks solid", analysis.Summary)
	assert.Equal(t, "Buy", analysis.Recommendation)
	assert.Equal(t, 0.82, analysis.ConfidenceScore)
	assert.Equal(t, 2, len(analysis.RiskFactors))
	assert.Equal(t, "deepseek-chat", analysis.ModelUsed)
}

func TestAnalyze_MalformedJSON(t *testing.T) {
	srv := newFakeCompletionServer(t, "I could not produce the analysis.")
	defer srv.Close()

	client := NewOpenAIClient("sk-test", srv.URL, "deepseek-chat")

	_, err := client.Analyze(context.Background(), AnalysisInput{Symbol: "AAPL"})
	assert.NotEqual(t, nil, err)
}

func TestSummarizeNews(t *testing.T) {
	reply := `{"summary": "Coverage is upbeat", "impact_analysis": "positive", "key_themes": ["earnings"], "sentiment": "positive", "confidence": 0.7}`

	srv := newFakeCompletionServer(t, reply)
	defer srv.Close()

	client := NewOpenAIClient("sk-test", srv.URL, "deepseek-chat")

	summary, err := client.SummarizeNews(context.Background(), "AAPL", []news.Article{
		{Title: "Apple beats estimates", Content: "Strong quarter.", Publisher: "Reuters"},
	})

	assert.Equal(t, nil, err)
	assert.Equal(t, "Coverage is upbeat", summary.Summary)
	assert.Equal(t, "positive", summary.Sentiment)
	assert.Equal(t, 0.7, summary.Confidence)
}

func TestClassifyIntent(t *testing.T) {
	reply := `{"type": "comparison", "confidence": 0.9, "symbols": ["AAPL", "MSFT"], "time_period": "1y", "specific_questions": [], "comparison_parameters": ["performance"]}`

	srv := newFakeCompletionServer(t, reply)
	defer srv.Close()

	client := NewOpenAIClient("sk-test", srv.URL, "deepseek-chat")

	intent, err := client.ClassifyIntent(context.Background(), "Compare AAPL with MSFT", IntentContext{})

	assert.Equal(t, nil, err)
	assert.Equal(t, IntentComparison, intent.Type)
	assert.Equal(t, []string{"AAPL", "MSFT"}, intent.Symbols)
}

func TestNewsUserPrompt_LimitsArticles(t *testing.T) {
	articles := make([]news.Article, 12)
	for i := range articles {
		articles[i] = news.Article{Title: "headline", Content: "body"}
	}

	prompt := newsUserPrompt("AAPL", articles)

	assert.Equal(t, 8, strings.Count(prompt, "Article "))
}

func TestAnalysisUserPrompt_MissingSections(t *testing.T) {
	prompt := analysisUserPrompt(AnalysisInput{Symbol: "AAPL"})

	assert.Equal(t, 3, strings.Count(prompt, "Not available"))
	assert.Equal(t, true, strings.Contains(prompt, "AAPL"))
}
