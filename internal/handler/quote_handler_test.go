package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"github.com/EnZ0cez/StockAgent/pkg/marketdata"
)

type fakeQuoteProvider struct {
	quote *marketdata.Quote
	err   error
}

func (f *fakeQuoteProvider) Quote(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	return f.quote, f.err
}

func newQuoteRouter(provider marketdata.QuoteProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewQuoteHandler(provider)
	r.GET("/quotes/:symbol", h.GetQuote)
	return r
}

func TestGetQuote(t *testing.T) {
	provider := &fakeQuoteProvider{quote: &marketdata.Quote{
		Symbol:        "AAPL",
		Price:         190.5,
		ChangePercent: 1.2,
		Provider:      "alpha_vantage",
	}}
	r := newQuoteRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/quotes/aapl", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res QuoteResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, 190.5, res.Price)
}

func TestGetQuote_InvalidSymbol(t *testing.T) {
	r := newQuoteRouter(&fakeQuoteProvider{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/quotes/TOOLONGSYMBOL", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetQuote_ProviderError(t *testing.T) {
	r := newQuoteRouter(&fakeQuoteProvider{err: errors.New("rate limited")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/quotes/AAPL", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
