package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// AlphaVantageClient fetches ticker-scoped news through the NEWS_SENTIMENT
// endpoint. Unlike the web search providers it carries vendor-computed
// per-article sentiment scores.
type AlphaVantageClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		baseURL:    "https://www.alphavantage.co/query",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) Search(ctx context.Context, symbol string, days, maxResults int) ([]Article, error) {
	from := time.Now().AddDate(0, 0, -days).Format("20060102T1504")

	params := url.Values{
		"function":  {"NEWS_SENTIMENT"},
		"tickers":   {symbol},
		"time_from": {from},
		"sort":      {"LATEST"},
		"limit":     {strconv.Itoa(maxResults)},
		"apikey":    {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage news fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage news decode: %w", err)
	}

	articles := make([]Article, 0, len(raw.Feed))
	for _, item := range raw.Feed {
		publishedAt, err := time.Parse("20060102T150405", item.TimePublished)
		if err != nil {
			publishedAt = time.Time{}
		}

		score := item.OverallSentimentScore
		for _, ts := range item.TickerSentiment {
			if ts.Ticker == symbol && ts.SentimentScore != "" {
				if f, err := strconv.ParseFloat(ts.SentimentScore, 64); err == nil {
					score = f
				}
			}
		}

		articles = append(articles, Article{
			Title:          item.Title,
			URL:            item.URL,
			Content:        item.Summary,
			PublishedAt:    publishedAt,
			Publisher:      item.Source,
			SentimentScore: score,
			Sentiment:      classifyVendorLabel(item.OverallSentimentLabel),
		})
	}

	return articles, nil
}

// classifyVendorLabel folds Alpha Vantage's five-way labels into the
// three-way classification the news agent works with.
func classifyVendorLabel(label string) string {
	switch label {
	case "Bullish", "Somewhat-Bullish":
		return "positive"
	case "Bearish", "Somewhat-Bearish":
		return "negative"
	default:
		return "neutral"
	}
}

type avResponse struct {
	Feed []avFeedItem `json:"feed"`
}

type avFeedItem struct {
	Title                 string              `json:"title"`
	Summary               string              `json:"summary"`
	URL                   string              `json:"url"`
	Source                string              `json:"source"`
	TimePublished         string              `json:"time_published"`
	OverallSentimentScore float64             `json:"overall_sentiment_score"`
	OverallSentimentLabel string              `json:"overall_sentiment_label"`
	TickerSentiment       []avTickerSentiment `json:"ticker_sentiment"`
}

type avTickerSentiment struct {
	Ticker         string `json:"ticker"`
	SentimentScore string `json:"ticker_sentiment_score"`
}
