package news

import (
	"context"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnhubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnhubClient(apiKey string) *FinnhubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &FinnhubClient{client: finnhub.NewAPIClient(cfg).DefaultApi}
}

func (c *FinnhubClient) Name() string {
	return "FinnHub"
}

func (c *FinnhubClient) Search(ctx context.Context, symbol string, days, maxResults int) ([]Article, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	res, _, err := c.client.CompanyNews(ctx).
		Symbol(symbol).
		From(from.Format("2006-01-02")).
		To(to.Format("2006-01-02")).
		Execute()
	if err != nil {
		return nil, err
	}

	var articles []Article
	for _, item := range res {
		if maxResults > 0 && len(articles) >= maxResults {
			break
		}

		a := Article{Sentiment: "neutral"}
		if item.Headline != nil {
			a.Title = *item.Headline
		}
		if item.Summary != nil {
			a.Content = *item.Summary
		}
		if item.Url != nil {
			a.URL = *item.Url
		}
		if item.Datetime != nil {
			a.PublishedAt = time.Unix(*item.Datetime, 0)
		}
		if item.Source != nil {
			a.Publisher = *item.Source
		}
		articles = append(articles, a)
	}

	return articles, nil
}
