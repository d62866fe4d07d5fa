package news

import (
	"context"
	"time"
)

type Article struct {
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Content        string    `json:"content"`
	PublishedAt    time.Time `json:"published_date"`
	Publisher      string    `json:"source"`
	Score          float64   `json:"score"`
	SentimentScore float64   `json:"sentiment_score"`
	Sentiment      string    `json:"sentiment"`
}

// Searcher finds recent news for a stock symbol within a lookback window.
type Searcher interface {
	Search(ctx context.Context, symbol string, days, maxResults int) ([]Article, error)
	Name() string
}

// DedupeByURL drops repeated articles, keeping first occurrence order.
func DedupeByURL(articles []Article) []Article {
	seen := make(map[string]bool, len(articles))
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.URL == "" || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		out = append(out, a)
	}
	return out
}
