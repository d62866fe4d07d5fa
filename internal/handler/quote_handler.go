package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EnZ0cez/StockAgent/pkg/marketdata"
)

type QuoteHandler struct {
	provider marketdata.QuoteProvider
}

func NewQuoteHandler(provider marketdata.QuoteProvider) *QuoteHandler {
	return &QuoteHandler{provider: provider}
}

func (h *QuoteHandler) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if symbol == "" || len(symbol) > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symbol"})
		return
	}

	quote, err := h.provider.Quote(c.Request.Context(), symbol)
	if err != nil {
		slog.Error("error fetching quote", "error", err, "symbol", symbol)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Quote unavailable"})
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		Symbol:        quote.Symbol,
		Price:         quote.Price,
		Change:        quote.Change,
		ChangePercent: quote.ChangePercent,
		Volume:        quote.Volume,
		High:          quote.High,
		Low:           quote.Low,
		Open:          quote.Open,
		PreviousClose: quote.PreviousClose,
		Provider:      quote.Provider,
	})
}
