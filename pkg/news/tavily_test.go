package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func newTavilyTestServer(t *testing.T, perQuery map[string][]map[string]interface{}) (*TavilyClient, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilyRequest
		json.NewDecoder(r.Body).Decode(&req)

		assert.Equal(t, "advanced", req.SearchDepth)
		assert.Equal(t, false, req.IncludeAnswer)
		assert.Equal(t, false, req.IncludeRawContent)

		var results []map[string]interface{}
		for prefix, res := range perQuery {
			if strings.HasPrefix(req.Query, prefix) {
				results = res
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"results": results})
	}))

	client := &TavilyClient{
		apiKey:     "tvly-test",
		baseURL:    srv.URL,
		httpClient: srv.Client(),
	}
	return client, srv
}

func TestTavilySearch(t *testing.T) {
	client, srv := newTavilyTestServer(t, map[string][]map[string]interface{}{
		"AAPL stock news": {
			{
				"title":          "Apple Beats Estimates",
				"url":            "https://example.com/apple-beats",
				"content":        "Apple reported revenue above analyst expectations.",
				"published_date": "2026-08-27T09:00:00Z",
				"source":         "Reuters",
				"score":          0.92,
			},
		},
	})
	defer srv.Close()

	articles, err := client.Search(context.Background(), "AAPL", 7, 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
	assert.Equal(t, "Apple Beats Estimates", articles[0].Title)
	assert.Equal(t, "Reuters", articles[0].Publisher)
	assert.Equal(t, 0.92, articles[0].Score)
	assert.Equal(t, "neutral", articles[0].Sentiment)
	assert.Equal(t, 2026, articles[0].PublishedAt.Year())
}

func TestTavilySearch_BadPublishedDate(t *testing.T) {
	client, srv := newTavilyTestServer(t, map[string][]map[string]interface{}{
		"AAPL stock news": {
			{"title": "No date", "url": "https://example.com/1", "published_date": "yesterday"},
		},
	})
	defer srv.Close()

	articles, err := client.Search(context.Background(), "AAPL", 7, 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, time.Time{}, articles[0].PublishedAt)
}

func TestTavilySearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := &TavilyClient{apiKey: "tvly-test", baseURL: srv.URL, httpClient: srv.Client()}

	_, err := client.Search(context.Background(), "AAPL", 7, 10)
	assert.NotEqual(t, nil, err)
}

func TestComprehensiveSearch_Dedupes(t *testing.T) {
	shared := map[string]interface{}{
		"title": "Shared story", "url": "https://example.com/shared", "content": "Both searches return this.",
	}

	client, srv := newTavilyTestServer(t, map[string][]map[string]interface{}{
		"AAPL stock news":       {shared},
		"Apple Inc company":     {shared, {"title": "Apple only", "url": "https://example.com/apple-only"}},
		"AAPL earnings report":  {},
		"AAPL analyst rating":   {},
	})
	defer srv.Close()

	articles, err := client.ComprehensiveSearch(context.Background(), "AAPL", "Apple Inc", 7)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(articles))
	assert.Equal(t, "Shared story", articles[0].Title)
	assert.Equal(t, "Apple only", articles[1].Title)
}

func TestDedupeByURL(t *testing.T) {
	articles := []Article{
		{Title: "a", URL: "https://example.com/a"},
		{Title: "dup", URL: "https://example.com/a"},
		{Title: "no url"},
		{Title: "b", URL: "https://example.com/b"},
	}

	out := DedupeByURL(articles)

	assert.Equal(t, 2, len(out))
	assert.Equal(t, "a", out[0].Title)
	assert.Equal(t, "b", out[1].Title)
}
