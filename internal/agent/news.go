package agent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/EnZ0cez/StockAgent/pkg/llm"
	"github.com/EnZ0cez/StockAgent/pkg/news"
)

type NewsData struct {
	Symbol            string         `json:"symbol"`
	PeriodDays        int            `json:"period_days"`
	OverallSentiment  string         `json:"overall_sentiment"`
	AvgSentimentScore float64        `json:"average_sentiment_score"`
	Confidence        float64        `json:"confidence"`
	ArticlesCount     int            `json:"articles_count"`
	Distribution      Distribution   `json:"sentiment_distribution"`
	KeyTopics         []string       `json:"key_topics"`
	Articles          []news.Article `json:"articles"`
	Summary           string         `json:"summary"`
	ImpactAnalysis    string         `json:"impact_analysis"`
	LastUpdated       string         `json:"last_updated"`
}

type Distribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// financialTopics is the fixed keyword list scanned across headlines and
// article bodies.
var financialTopics = []string{
	"earnings", "revenue", "profit", "growth", "dividend", "merger", "acquisition",
	"regulation", "lawsuit", "innovation", "expansion", "market", "competition",
	"leadership", "strategy", "forecast", "guidance", "analyst", "rating",
}

// NewsAgent searches recent coverage and derives a sentiment picture,
// combining per-article scores with an LLM summary.
type NewsAgent struct {
	searchers  []news.Searcher
	summarizer llm.NewsSummarizer
	maxResults int
}

func NewNewsAgent(summarizer llm.NewsSummarizer, searchers ...news.Searcher) *NewsAgent {
	return &NewsAgent{
		searchers:  searchers,
		summarizer: summarizer,
		maxResults: 10,
	}
}

func (a *NewsAgent) GetNewsSentiment(ctx context.Context, symbol string, days int) (*NewsData, error) {
	articles := a.search(ctx, symbol, days)

	data := &NewsData{
		Symbol:      symbol,
		PeriodDays:  days,
		LastUpdated: time.Now().Format(time.RFC3339),
	}

	if len(articles) == 0 {
		data.OverallSentiment = "neutral"
		data.Summary = "No recent news found"
		return data, nil
	}

	var total float64
	for _, art := range articles {
		total += art.SentimentScore
	}
	avg := total / float64(len(articles))

	data.Articles = articles
	data.ArticlesCount = len(articles)
	data.AvgSentimentScore = avg
	data.OverallSentiment = ClassifySentiment(avg)
	data.Confidence = min(abs(avg), 1.0)
	data.Distribution = sentimentDistribution(articles)
	data.KeyTopics = ExtractKeyTopics(articles)

	if a.summarizer != nil {
		summary, err := a.summarizer.SummarizeNews(ctx, symbol, articles)
		if err != nil {
			slog.Warn("news summary failed", "symbol", symbol, "error", err)
		} else {
			data.Summary = summary.Summary
			data.ImpactAnalysis = summary.ImpactAnalysis
			if summary.Sentiment != "" {
				data.OverallSentiment = summary.Sentiment
			}
			if summary.Confidence > data.Confidence {
				data.Confidence = summary.Confidence
			}
		}
	}

	return data, nil
}

// search tries each configured provider in order and returns the first
// non-empty result.
func (a *NewsAgent) search(ctx context.Context, symbol string, days int) []news.Article {
	for _, s := range a.searchers {
		articles, err := s.Search(ctx, symbol, days, a.maxResults)
		if err != nil {
			slog.Warn("news search failed", "provider", s.Name(), "symbol", symbol, "error", err)
			continue
		}
		if len(articles) > 0 {
			return articles
		}
	}
	return nil
}

// ClassifySentiment maps an average score to a three-way label.
func ClassifySentiment(score float64) string {
	switch {
	case score > 0.2:
		return "positive"
	case score < -0.2:
		return "negative"
	default:
		return "neutral"
	}
}

// ExtractKeyTopics scans titles and bodies for the fixed financial keyword
// list, returning at most ten distinct topics.
func ExtractKeyTopics(articles []news.Article) []string {
	var sb strings.Builder
	for _, a := range articles {
		sb.WriteString(a.Title)
		sb.WriteString(" ")
		sb.WriteString(a.Content)
		sb.WriteString(" ")
	}
	text := strings.ToLower(sb.String())

	var topics []string
	for _, topic := range financialTopics {
		if strings.Contains(text, topic) {
			topics = append(topics, topic)
		}
		if len(topics) == 10 {
			break
		}
	}
	return topics
}

func sentimentDistribution(articles []news.Article) Distribution {
	var d Distribution
	for _, a := range articles {
		switch a.Sentiment {
		case "positive":
			d.Positive++
		case "negative":
			d.Negative++
		default:
			d.Neutral++
		}
	}
	return d
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
