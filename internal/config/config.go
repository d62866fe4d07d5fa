package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime settings. Values come from the environment;
// each main loads a .env file via godotenv before calling Load.
type Config struct {
	DeepSeekAPIKey          string
	TavilyAPIKey            string
	FinancialDatasetsAPIKey string
	AlphaVantageAPIKey      string
	FinnhubAPIKey           string
	MassiveAPIKey           string
	AnthropicAPIKey         string

	DeepSeekModel       string
	DeepSeekBaseURL     string
	DeepSeekTemperature float64
	DeepSeekMaxTokens   int

	MaxAgentIterations int
	TimeoutSeconds     int

	DefaultSymbol   string
	DefaultPeriod   string
	DefaultNewsDays int

	DatabaseURL string
	RedisURL    string
	ReportDir   string
}

func Load() *Config {
	return &Config{
		DeepSeekAPIKey:          os.Getenv("DEEPSEEK_API_KEY"),
		TavilyAPIKey:            os.Getenv("TAVILY_API_KEY"),
		FinancialDatasetsAPIKey: os.Getenv("FINANCIAL_DATASETS_API_KEY"),
		AlphaVantageAPIKey:      os.Getenv("ALPHA_VANTAGE_API_KEY"),
		FinnhubAPIKey:           os.Getenv("FINNHUB_API_KEY"),
		MassiveAPIKey:           os.Getenv("MASSIVE_API_KEY"),
		AnthropicAPIKey:         os.Getenv("ANTHROPIC_API_KEY"),

		DeepSeekModel:       getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		DeepSeekBaseURL:     getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		DeepSeekTemperature: getEnvFloat("DEEPSEEK_TEMPERATURE", 0.1),
		DeepSeekMaxTokens:   getEnvInt("DEEPSEEK_MAX_TOKENS", 4000),

		MaxAgentIterations: getEnvInt("MAX_AGENT_ITERATIONS", 10),
		TimeoutSeconds:     getEnvInt("TIMEOUT_SECONDS", 30),

		DefaultSymbol:   getEnv("DEFAULT_STOCK_SYMBOL", "AAPL"),
		DefaultPeriod:   getEnv("DEFAULT_TIME_PERIOD", "1y"),
		DefaultNewsDays: getEnvInt("DEFAULT_NEWS_DAYS", 7),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		ReportDir:   getEnv("REPORT_DIR", "reports"),
	}
}

// Validate checks that the keys the pipeline cannot run without are set.
func (c *Config) Validate() error {
	var missing []string
	if c.DeepSeekAPIKey == "" {
		missing = append(missing, "DEEPSEEK_API_KEY")
	}
	if c.TavilyAPIKey == "" {
		missing = append(missing, "TAVILY_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
