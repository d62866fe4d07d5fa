// Package fundamentals wraps the financialdatasets.ai REST API. The payloads
// are passed through to the LLM analysis as-is, so the client keeps them as
// raw JSON instead of modeling every statement line item.
package fundamentals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Payload struct {
	Symbol    string          `json:"symbol"`
	Data      json.RawMessage `json:"data"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	FetchedAt time.Time       `json:"last_updated"`
}

// Comprehensive bundles every data set the provider exposes for a symbol.
// Individual fields are nil when the underlying call failed; the financial
// agent treats each one as optional.
type Comprehensive struct {
	Symbol         string    `json:"symbol"`
	Fundamentals   *Payload  `json:"fundamentals,omitempty"`
	Financials     *Payload  `json:"financial_statements,omitempty"`
	Earnings       *Payload  `json:"earnings,omitempty"`
	AnalystRatings *Payload  `json:"analyst_ratings,omitempty"`
	InsiderTrades  *Payload  `json:"insider_trading,omitempty"`
	HistoricalData *Payload  `json:"historical_data,omitempty"`
	FetchedAt      time.Time `json:"last_updated"`
}

type Provider interface {
	Comprehensive(ctx context.Context, symbol string) (*Comprehensive, error)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    "https://api.financialdatasets.ai",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Fundamentals(ctx context.Context, symbol string) (*Payload, error) {
	return c.get(ctx, symbol, fmt.Sprintf("/stocks/%s/fundamentals", symbol), nil)
}

// Financials returns income statement, balance sheet and cash flow.
// statementType is "annual" or "quarterly".
func (c *Client) Financials(ctx context.Context, symbol, statementType string) (*Payload, error) {
	return c.get(ctx, symbol, fmt.Sprintf("/stocks/%s/financials", symbol), url.Values{"type": {statementType}})
}

func (c *Client) Earnings(ctx context.Context, symbol string) (*Payload, error) {
	return c.get(ctx, symbol, fmt.Sprintf("/stocks/%s/earnings", symbol), nil)
}

func (c *Client) AnalystRatings(ctx context.Context, symbol string) (*Payload, error) {
	return c.get(ctx, symbol, fmt.Sprintf("/stocks/%s/analyst-ratings", symbol), nil)
}

func (c *Client) InsiderTrades(ctx context.Context, symbol string) (*Payload, error) {
	return c.get(ctx, symbol, fmt.Sprintf("/stocks/%s/insider-trading", symbol), nil)
}

func (c *Client) HistoricalPrices(ctx context.Context, symbol, startDate, endDate string) (*Payload, error) {
	return c.get(ctx, symbol, fmt.Sprintf("/stocks/%s/history", symbol), url.Values{
		"start_date": {startDate},
		"end_date":   {endDate},
		"interval":   {"1d"},
	})
}

// Comprehensive fetches every data set, tolerating individual failures.
// It fails only when nothing at all could be retrieved.
func (c *Client) Comprehensive(ctx context.Context, symbol string) (*Comprehensive, error) {
	out := &Comprehensive{Symbol: symbol, FetchedAt: time.Now()}
	var lastErr error
	var got int

	fetch := func(dst **Payload, f func() (*Payload, error)) {
		p, err := f()
		if err != nil {
			lastErr = err
			return
		}
		*dst = p
		got++
	}

	fetch(&out.Fundamentals, func() (*Payload, error) { return c.Fundamentals(ctx, symbol) })
	fetch(&out.Financials, func() (*Payload, error) { return c.Financials(ctx, symbol, "annual") })
	fetch(&out.Earnings, func() (*Payload, error) { return c.Earnings(ctx, symbol) })
	fetch(&out.AnalystRatings, func() (*Payload, error) { return c.AnalystRatings(ctx, symbol) })
	fetch(&out.InsiderTrades, func() (*Payload, error) { return c.InsiderTrades(ctx, symbol) })

	end := time.Now()
	start := end.AddDate(-1, 0, 0)
	fetch(&out.HistoricalData, func() (*Payload, error) {
		return c.HistoricalPrices(ctx, symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	})

	if got == 0 {
		return nil, fmt.Errorf("financialdatasets: no data for %s: %w", symbol, lastErr)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, symbol, path string, params url.Values) (*Payload, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("financialdatasets request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("financialdatasets: unexpected status %d for %s", resp.StatusCode, path)
	}

	var body struct {
		Data     json.RawMessage `json:"data"`
		Metadata json.RawMessage `json:"metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("financialdatasets decode: %w", err)
	}

	return &Payload{
		Symbol:    symbol,
		Data:      body.Data,
		Metadata:  body.Metadata,
		FetchedAt: time.Now(),
	}, nil
}
