package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TavilyClient searches market news through the Tavily web search API.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    "https://api.tavily.com",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *TavilyClient) Name() string {
	return "Tavily"
}

// Search looks for market news and analysis about a symbol.
func (c *TavilyClient) Search(ctx context.Context, symbol string, days, maxResults int) ([]Article, error) {
	query := fmt.Sprintf("%s stock news analysis market %s", symbol, dateRange(days))
	return c.search(ctx, query, maxResults)
}

// SearchCompany looks for business news about a company by name.
func (c *TavilyClient) SearchCompany(ctx context.Context, company string, days, maxResults int) ([]Article, error) {
	query := fmt.Sprintf("%s company news business %s", company, dateRange(days))
	return c.search(ctx, query, maxResults)
}

// SearchEarnings looks for earnings reports and analysis.
func (c *TavilyClient) SearchEarnings(ctx context.Context, symbol string, days, maxResults int) ([]Article, error) {
	query := fmt.Sprintf("%s earnings report Q4 Q3 Q2 Q1 results analysis %s", symbol, dateRange(days))
	return c.search(ctx, query, maxResults)
}

// SearchSentiment looks for analyst ratings and market sentiment.
func (c *TavilyClient) SearchSentiment(ctx context.Context, symbol string, days, maxResults int) ([]Article, error) {
	query := fmt.Sprintf("%s analyst rating buy hold sell recommendation sentiment %s", symbol, dateRange(days))
	return c.search(ctx, query, maxResults)
}

// SearchSector looks for sector trends and industry news.
func (c *TavilyClient) SearchSector(ctx context.Context, sector string, days, maxResults int) ([]Article, error) {
	query := fmt.Sprintf("%s industry trends market analysis %s", sector, dateRange(days))
	return c.search(ctx, query, maxResults)
}

// ComprehensiveSearch combines market, company, earnings and sentiment
// searches and deduplicates the result by URL. The company search is
// skipped when the company name is unknown.
func (c *TavilyClient) ComprehensiveSearch(ctx context.Context, symbol, company string, days int) ([]Article, error) {
	var combined []Article

	market, err := c.Search(ctx, symbol, days, 8)
	if err != nil {
		return nil, err
	}
	combined = append(combined, market...)

	if company != "" {
		if articles, err := c.SearchCompany(ctx, company, days, 6); err == nil {
			combined = append(combined, articles...)
		}
	}
	if articles, err := c.SearchEarnings(ctx, symbol, days, 5); err == nil {
		combined = append(combined, articles...)
	}
	if articles, err := c.SearchSentiment(ctx, symbol, days, 6); err == nil {
		combined = append(combined, articles...)
	}

	return DedupeByURL(combined), nil
}

func (c *TavilyClient) search(ctx context.Context, query string, maxResults int) ([]Article, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:            c.apiKey,
		Query:             query,
		SearchDepth:       "advanced",
		MaxResults:        maxResults,
		IncludeAnswer:     false,
		IncludeRawContent: false,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily: unexpected status %d", resp.StatusCode)
	}

	var raw tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tavily decode: %w", err)
	}

	articles := make([]Article, 0, len(raw.Results))
	for _, r := range raw.Results {
		publishedAt, err := time.Parse(time.RFC3339, r.PublishedDate)
		if err != nil {
			publishedAt = time.Time{}
		}

		articles = append(articles, Article{
			Title:       r.Title,
			URL:         r.URL,
			Content:     r.Content,
			PublishedAt: publishedAt,
			Publisher:   r.Source,
			Score:       r.Score,
			Sentiment:   "neutral",
		})
	}

	return articles, nil
}

func dateRange(days int) string {
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return start.Format("2006-01-02") + ".." + end.Format("2006-01-02")
}

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	PublishedDate string  `json:"published_date"`
	Source        string  `json:"source"`
	Score         float64 `json:"score"`
}
