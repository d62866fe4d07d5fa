package agent

import (
	"github.com/EnZ0cez/StockAgent/internal/config"
	"github.com/EnZ0cez/StockAgent/internal/report"
	"github.com/EnZ0cez/StockAgent/pkg/fundamentals"
	"github.com/EnZ0cez/StockAgent/pkg/llm"
	"github.com/EnZ0cez/StockAgent/pkg/marketdata"
	"github.com/EnZ0cez/StockAgent/pkg/news"
)

type clients struct {
	market   *marketdata.AlphaVantageClient
	stock    *StockDataAgent
	deepseek *llm.OpenAIClient
	analyzer llm.Analyzer
}

func buildClients(cfg *config.Config) *clients {
	market := marketdata.NewAlphaVantageClient(cfg.AlphaVantageAPIKey)

	var fallback marketdata.QuoteProvider
	if cfg.FinnhubAPIKey != "" {
		fallback = marketdata.NewFinnhubClient(cfg.FinnhubAPIKey)
	}

	deepseek := llm.NewOpenAIClient(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel,
		llm.WithTemperature(cfg.DeepSeekTemperature),
		llm.WithMaxTokens(cfg.DeepSeekMaxTokens))

	var analyzer llm.Analyzer = deepseek
	if cfg.DeepSeekAPIKey == "" && cfg.AnthropicAPIKey != "" {
		analyzer = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	}

	return &clients{
		market:   market,
		stock:    NewStockDataAgent(market, fallback),
		deepseek: deepseek,
		analyzer: analyzer,
	}
}

func buildSearchers(cfg *config.Config) []news.Searcher {
	var searchers []news.Searcher
	if cfg.TavilyAPIKey != "" {
		searchers = append(searchers, news.NewTavilyClient(cfg.TavilyAPIKey))
	}
	if cfg.FinnhubAPIKey != "" {
		searchers = append(searchers, news.NewFinnhubClient(cfg.FinnhubAPIKey))
	}
	if cfg.AlphaVantageAPIKey != "" {
		searchers = append(searchers, news.NewAlphaVantageClient(cfg.AlphaVantageAPIKey))
	}
	if cfg.MassiveAPIKey != "" {
		searchers = append(searchers, news.NewMassiveClient(cfg.MassiveAPIKey))
	}
	return searchers
}

// NewCoordinatorFromConfig wires the whole pipeline from configuration.
func NewCoordinatorFromConfig(cfg *config.Config) *Coordinator {
	c := buildClients(cfg)

	var provider fundamentals.Provider
	if cfg.FinancialDatasetsAPIKey != "" {
		provider = fundamentals.New(cfg.FinancialDatasetsAPIKey)
	}

	return NewCoordinator(
		c.stock,
		NewNewsAgent(c.deepseek, buildSearchers(cfg)...),
		NewFinancialAgent(c.market, provider),
		c.analyzer,
		report.NewGenerator(cfg.ReportDir),
		Defaults{Symbol: cfg.DefaultSymbol, Period: cfg.DefaultPeriod, NewsDays: cfg.DefaultNewsDays},
	)
}

// NewConversationFromConfig wires an interactive session on top of the
// pipeline.
func NewConversationFromConfig(cfg *config.Config) *Conversation {
	c := buildClients(cfg)
	return NewConversation(NewCoordinatorFromConfig(cfg), c.deepseek, c.deepseek, c.stock)
}
