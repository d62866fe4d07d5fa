package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/EnZ0cez/StockAgent/internal/report"
	"github.com/EnZ0cez/StockAgent/pkg/llm"
)

var (
	symbolRe   = regexp.MustCompile(`\b[A-Z]{1,5}\b`)
	periodRe   = regexp.MustCompile(`\b(\d+[ymwd])\b`)
	newsDaysRe = regexp.MustCompile(`\b(\d+)\s*(?:days?|news)\b`)
)

// symbolStopwords keeps short English words out of the ticker match.
var symbolStopwords = map[string]bool{
	"A": true, "AN": true, "AND": true, "ARE": true, "AS": true, "AT": true,
	"BE": true, "BUY": true, "CAN": true, "DAY": true, "DAYS": true, "DO": true,
	"DOING": true, "FOR": true, "GIVE": true, "HAS": true, "HOLD": true,
	"HOW": true, "I": true, "IF": true, "IN": true, "IS": true, "IT": true,
	"LAST": true, "ME": true, "MY": true, "NEWS": true, "OF": true, "ON": true,
	"OR": true, "OVER": true, "SELL": true, "SHOW": true, "STOCK": true,
	"TELL": true, "THAT": true, "THE": true, "THIS": true, "TO": true,
	"US": true, "VS": true, "WEEK": true, "WHAT": true, "WHY": true,
	"WITH": true, "YEAR": true,
}

// extractSymbols returns the candidate ticker symbols in a query, in order.
func extractSymbols(query string) []string {
	var out []string
	for _, m := range symbolRe.FindAllString(strings.ToUpper(query), -1) {
		if !symbolStopwords[m] {
			out = append(out, m)
		}
	}
	return out
}

// QueryParams are the knobs extracted from a free-form user query.
type QueryParams struct {
	Symbol   string
	Period   string
	NewsDays int
}

// Defaults fill in for anything the query does not mention.
type Defaults struct {
	Symbol   string
	Period   string
	NewsDays int
}

// ParseQuery pulls a ticker symbol, a time period and a news window out of
// the query text. Symbols are matched on the uppercased query so users can
// type "analyze aapl".
func ParseQuery(query string, d Defaults) QueryParams {
	p := QueryParams{Symbol: d.Symbol, Period: d.Period, NewsDays: d.NewsDays}

	if symbols := extractSymbols(query); len(symbols) > 0 {
		p.Symbol = symbols[0]
	}
	if m := periodRe.FindStringSubmatch(strings.ToLower(query)); m != nil {
		p.Period = normalizePeriod(m[1])
	}
	if m := newsDaysRe.FindStringSubmatch(strings.ToLower(query)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			p.NewsDays = n
		}
	}
	return p
}

// normalizePeriod maps shorthand like "3m" to the period keys the market
// data layer understands.
func normalizePeriod(p string) string {
	switch p {
	case "1d", "5d":
		return p
	case "1w":
		return "5d"
	case "1m":
		return "1mo"
	case "3m":
		return "3mo"
	case "6m":
		return "6mo"
	case "1y", "2y", "5y":
		return p
	default:
		return p
	}
}

// Coordinator drives the fixed pipeline: stock data, news, fundamentals,
// model analysis, report. A failed stage is recorded on the state and the
// remaining stages run with whatever data is present.
type Coordinator struct {
	stock     *StockDataAgent
	news      *NewsAgent
	financial *FinancialAgent
	analyzer  llm.Analyzer
	reports   *report.Generator
	defaults  Defaults
}

func NewCoordinator(stock *StockDataAgent, news *NewsAgent, financial *FinancialAgent, analyzer llm.Analyzer, reports *report.Generator, defaults Defaults) *Coordinator {
	return &Coordinator{
		stock:     stock,
		news:      news,
		financial: financial,
		analyzer:  analyzer,
		reports:   reports,
		defaults:  defaults,
	}
}

// AnalyzeStock runs the whole pipeline for a user query and returns the
// final state. The returned error is non-nil only when the analysis stage
// itself produced nothing usable.
func (c *Coordinator) AnalyzeStock(ctx context.Context, query string) (*State, error) {
	params := ParseQuery(query, c.defaults)

	state := &State{
		Symbol:   params.Symbol,
		Period:   params.Period,
		NewsDays: params.NewsDays,
	}
	state.addMessage("user", query, "")
	state.CurrentAgent = "coordinator"

	slog.Info("starting analysis", "symbol", state.Symbol, "period", state.Period, "news_days", state.NewsDays)

	c.runStockData(ctx, state)
	c.runNews(ctx, state)
	c.runFinancial(ctx, state)
	c.runAnalysis(ctx, state)
	c.runReport(state)

	if state.Analysis == nil {
		return state, fmt.Errorf("analysis failed for %s: %s", state.Symbol, state.ErrorMessage)
	}
	return state, nil
}

func (c *Coordinator) runStockData(ctx context.Context, state *State) {
	state.CurrentAgent = "stock_data_agent"
	data, err := c.stock.GetStockData(ctx, state.Symbol, state.Period)
	if err != nil {
		state.recordError("stock_data_agent", err)
		return
	}
	state.StockData = data
	state.addMessage("assistant", "Retrieved stock data for "+state.Symbol, "stock_data_agent")
}

func (c *Coordinator) runNews(ctx context.Context, state *State) {
	state.CurrentAgent = "news_agent"
	data, err := c.news.GetNewsSentiment(ctx, state.Symbol, state.NewsDays)
	if err != nil {
		state.recordError("news_agent", err)
		return
	}
	state.NewsData = data
	state.addMessage("assistant", "Retrieved news sentiment for "+state.Symbol, "news_agent")
}

func (c *Coordinator) runFinancial(ctx context.Context, state *State) {
	state.CurrentAgent = "financial_agent"
	data, err := c.financial.GetFinancialData(ctx, state.Symbol)
	if err != nil {
		state.recordError("financial_agent", err)
		return
	}
	state.FinancialData = data
	state.addMessage("assistant", "Retrieved financial data for "+state.Symbol, "financial_agent")
}

func (c *Coordinator) runAnalysis(ctx context.Context, state *State) {
	state.CurrentAgent = "analysis_agent"

	input := llm.AnalysisInput{Symbol: state.Symbol}
	if state.StockData != nil {
		input.StockData = marshalSection(state.StockData)
	}
	if state.NewsData != nil {
		input.NewsData = marshalSection(state.NewsData)
	}
	if state.FinancialData != nil {
		input.FinancialData = marshalSection(state.FinancialData)
	}

	analysis, err := c.analyzer.Analyze(ctx, input)
	if err != nil {
		state.recordError("analysis_agent", err)
		return
	}
	if analysis.Timestamp == "" {
		analysis.Timestamp = time.Now().Format(time.RFC3339)
	}
	state.Analysis = analysis
	state.addMessage("assistant", "Completed analysis for "+state.Symbol, "analysis_agent")
}

func (c *Coordinator) runReport(state *State) {
	state.CurrentAgent = "report_agent"
	if c.reports == nil {
		return
	}

	r := &report.Report{
		Symbol:        state.Symbol,
		AnalysisDate:  time.Now(),
		Analysis:      state.Analysis,
		StockData:     state.StockData,
		NewsData:      state.NewsData,
		FinancialData: state.FinancialData,
		Conversation:  state.Messages,
	}

	jsonPath, err := c.reports.WriteJSON(r)
	if err != nil {
		state.recordError("report_agent", err)
		return
	}
	pdfPath, err := c.reports.WritePDF(r)
	if err != nil {
		state.recordError("report_agent", err)
		return
	}
	state.Reports = &ReportPaths{JSONPath: jsonPath, PDFPath: pdfPath}
	state.addMessage("assistant", "Generated investment report for "+state.Symbol, "report_agent")
}

// marshalSection renders a stage output as raw JSON for the model prompt.
func marshalSection(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
