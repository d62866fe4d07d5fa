package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/EnZ0cez/StockAgent/internal/report"
	"github.com/EnZ0cez/StockAgent/pkg/llm"
	"github.com/EnZ0cez/StockAgent/pkg/marketdata"
	"github.com/EnZ0cez/StockAgent/pkg/news"
)

type fakeMarket struct {
	quote       *marketdata.Quote
	quoteErr    error
	bars        []marketdata.Bar
	barsErr     error
	overview    *marketdata.CompanyOverview
	overviewErr error
}

func (f *fakeMarket) Quote(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	return f.quote, f.quoteErr
}

func (f *fakeMarket) Daily(ctx context.Context, symbol, period string) ([]marketdata.Bar, error) {
	return f.bars, f.barsErr
}

func (f *fakeMarket) Overview(ctx context.Context, symbol string) (*marketdata.CompanyOverview, error) {
	if f.overviewErr != nil {
		return nil, f.overviewErr
	}
	if f.overview == nil {
		return &marketdata.CompanyOverview{}, nil
	}
	return f.overview, nil
}

type fakeSearcher struct {
	articles []news.Article
	err      error
}

func (f *fakeSearcher) Search(ctx context.Context, symbol string, days, maxResults int) ([]news.Article, error) {
	return f.articles, f.err
}

func (f *fakeSearcher) Name() string { return "fake" }

type fakeAnalyzer struct {
	analysis *llm.Analysis
	err      error
	gotInput llm.AnalysisInput
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, input llm.AnalysisInput) (*llm.Analysis, error) {
	f.gotInput = input
	return f.analysis, f.err
}

func testQuote() *marketdata.Quote {
	return &marketdata.Quote{
		Symbol:        "AAPL",
		Price:         190,
		Change:        2,
		ChangePercent: 1.06,
		Volume:        1000,
		PreviousClose: 188,
		High:          191,
		Low:           187,
		Open:          188.5,
	}
}

func testBars(n int) []marketdata.Bar {
	bars := make([]marketdata.Bar, n)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = marketdata.Bar{
			Date:   start.AddDate(0, 0, i),
			Close:  100 + float64(i),
			High:   101 + float64(i),
			Low:    99 + float64(i),
			Volume: 1000,
		}
	}
	return bars
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func testDefaults() Defaults {
	return Defaults{Symbol: "AAPL", Period: "1y", NewsDays: 7}
}

func TestParseQuery(t *testing.T) {
	d := testDefaults()

	cases := []struct {
		query string
		want  QueryParams
	}{
		{"Analyze TSLA over 6m with 14 days of news", QueryParams{Symbol: "TSLA", Period: "6mo", NewsDays: 14}},
		{"analyze msft", QueryParams{Symbol: "MSFT", Period: "1y", NewsDays: 7}},
		{"how is the market doing", QueryParams{Symbol: "AAPL", Period: "1y", NewsDays: 7}},
		{"NVDA 1m", QueryParams{Symbol: "NVDA", Period: "1mo", NewsDays: 7}},
		{"GOOG last 3 days", QueryParams{Symbol: "GOOG", Period: "1y", NewsDays: 3}},
	}

	for _, tc := range cases {
		got := ParseQuery(tc.query, d)
		assert.Equal(t, got, tc.want)
	}
}

func TestNormalizePeriod(t *testing.T) {
	assert.Equal(t, normalizePeriod("1w"), "5d")
	assert.Equal(t, normalizePeriod("3m"), "3mo")
	assert.Equal(t, normalizePeriod("1y"), "1y")
	assert.Equal(t, normalizePeriod("7d"), "7d")
}

func newTestCoordinator(t *testing.T, market *fakeMarket, searcher *fakeSearcher, analyzer *fakeAnalyzer) *Coordinator {
	t.Helper()
	stock := NewStockDataAgent(market, nil)
	stock.sleep = noSleep
	return NewCoordinator(
		stock,
		NewNewsAgent(nil, searcher),
		NewFinancialAgent(market, nil),
		analyzer,
		report.NewGenerator(t.TempDir()),
		testDefaults(),
	)
}

func TestAnalyzeStockFullPipeline(t *testing.T) {
	market := &fakeMarket{quote: testQuote(), bars: testBars(60)}
	searcher := &fakeSearcher{articles: []news.Article{
		{Title: "Strong earnings beat", URL: "https://a", SentimentScore: 0.6, Sentiment: "positive"},
	}}
	analyzer := &fakeAnalyzer{analysis: &llm.Analysis{
		Summary:         "solid",
		Recommendation:  "Buy",
		ConfidenceScore: 0.8,
	}}

	c := newTestCoordinator(t, market, searcher, analyzer)

	state, err := c.AnalyzeStock(context.Background(), "Analyze AAPL over 1y")
	assert.Equal(t, err, nil)
	assert.Equal(t, state.Symbol, "AAPL")
	assert.Equal(t, state.Analysis.Recommendation, "Buy")
	assert.NotEqual(t, state.StockData, nil)
	assert.NotEqual(t, state.NewsData, nil)
	assert.NotEqual(t, state.FinancialData, nil)
	assert.NotEqual(t, state.Reports, nil)
	assert.Equal(t, state.ErrorMessage, "")

	// every section was handed to the model
	assert.NotEqual(t, len(analyzer.gotInput.StockData), 0)
	assert.NotEqual(t, len(analyzer.gotInput.NewsData), 0)
	assert.NotEqual(t, len(analyzer.gotInput.FinancialData), 0)
}

func TestAnalyzeStockContinuesPastStageFailure(t *testing.T) {
	market := &fakeMarket{quoteErr: errors.New("vendor down"), overviewErr: errors.New("vendor down")}
	searcher := &fakeSearcher{}
	analyzer := &fakeAnalyzer{analysis: &llm.Analysis{Recommendation: "Hold", ConfidenceScore: 0.3}}

	c := newTestCoordinator(t, market, searcher, analyzer)

	state, err := c.AnalyzeStock(context.Background(), "Analyze AAPL")
	assert.Equal(t, err, nil)

	// stock and financial stages failed but analysis still ran
	assert.Equal(t, state.StockData == nil, true)
	assert.Equal(t, state.FinancialData == nil, true)
	assert.NotEqual(t, state.NewsData, nil)
	assert.NotEqual(t, state.Analysis, nil)
	assert.NotEqual(t, state.ErrorMessage, "")
	assert.Equal(t, len(analyzer.gotInput.StockData), 0)
}

func TestAnalyzeStockAnalysisFailure(t *testing.T) {
	market := &fakeMarket{quote: testQuote(), bars: testBars(10)}
	analyzer := &fakeAnalyzer{err: errors.New("model unavailable")}

	c := newTestCoordinator(t, market, &fakeSearcher{}, analyzer)

	state, err := c.AnalyzeStock(context.Background(), "Analyze AAPL")
	assert.NotEqual(t, err, nil)
	assert.Equal(t, state.Analysis == nil, true)
	assert.NotEqual(t, state.ErrorMessage, "")
}
