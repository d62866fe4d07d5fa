package marketdata

import (
	"context"
	"fmt"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// FinnhubClient is the fallback quote provider, used when Alpha Vantage
// is not configured or keeps failing.
type FinnhubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnhubClient(apiKey string) *FinnhubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &FinnhubClient{client: finnhub.NewAPIClient(cfg).DefaultApi}
}

func (c *FinnhubClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	res, _, err := c.client.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub quote: %w", err)
	}

	if res.C == nil || *res.C == 0 {
		return nil, fmt.Errorf("finnhub: no quote data for %s", symbol)
	}

	q := &Quote{
		Symbol:   symbol,
		Provider: "finnhub",
		Price:    float64(*res.C),
	}
	if res.D != nil {
		q.Change = float64(*res.D)
	}
	if res.Dp != nil {
		q.ChangePercent = float64(*res.Dp)
	}
	if res.H != nil {
		q.High = float64(*res.H)
	}
	if res.L != nil {
		q.Low = float64(*res.L)
	}
	if res.O != nil {
		q.Open = float64(*res.O)
	}
	if res.Pc != nil {
		q.PreviousClose = float64(*res.Pc)
	}
	return q, nil
}
