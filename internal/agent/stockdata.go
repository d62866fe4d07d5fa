package agent

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/EnZ0cez/StockAgent/internal/indicators"
	"github.com/EnZ0cez/StockAgent/pkg/marketdata"
)

// MarketData is the full provider surface the stock data agent needs.
// AlphaVantageClient satisfies it.
type MarketData interface {
	Quote(ctx context.Context, symbol string) (*marketdata.Quote, error)
	Daily(ctx context.Context, symbol, period string) ([]marketdata.Bar, error)
	Overview(ctx context.Context, symbol string) (*marketdata.CompanyOverview, error)
}

type StockData struct {
	Symbol      string      `json:"symbol"`
	Period      string      `json:"period"`
	Current     CurrentData `json:"current_data"`
	Performance Performance `json:"performance"`
	Technical   Technical   `json:"technical_indicators"`
	History     History     `json:"historical_data"`
	Company     CompanyInfo `json:"company_info"`
}

type CurrentData struct {
	Price         float64  `json:"price"`
	PreviousClose float64  `json:"previous_close"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"change_percent"`
	Volume        int64    `json:"volume"`
	AvgVolume     float64  `json:"avg_volume"`
	VolumeRatio   *float64 `json:"volume_ratio"`
	MarketCap     *float64 `json:"market_cap"`
	PERatio       *float64 `json:"pe_ratio"`
	DividendYield *float64 `json:"dividend_yield"`
	Beta          *float64 `json:"beta"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	Open          float64  `json:"open"`
	HasHistorical bool     `json:"has_historical_data"`
	LastUpdated   string   `json:"last_updated"`
}

type Performance struct {
	PeriodReturn    float64  `json:"period_return"`
	Volatility      *float64 `json:"volatility"`
	High52Week      *float64 `json:"high_52w"`
	Low52Week       *float64 `json:"low_52w"`
	MA50            *float64 `json:"ma_50"`
	MA200           *float64 `json:"ma_200"`
	PriceAboveMA50  *bool    `json:"price_above_ma_50"`
	PriceAboveMA200 *bool    `json:"price_above_ma_200"`
}

type Technical struct {
	RSI        *float64               `json:"rsi"`
	MACD       *indicators.MACDResult `json:"macd"`
	RSISignal  string                 `json:"rsi_signal,omitempty"`
	MACDSignal string                 `json:"macd_signal,omitempty"`
}

type History struct {
	Dates      []string  `json:"dates"`
	Prices     []float64 `json:"prices"`
	Volumes    []int64   `json:"volumes"`
	Highs      []float64 `json:"highs"`
	Lows       []float64 `json:"lows"`
	DataSource string    `json:"data_source"`
}

type CompanyInfo struct {
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
}

// StockDataAgent retrieves quotes, history and fundamentals from the
// primary provider, with a quote-only fallback provider for resilience.
type StockDataAgent struct {
	market   MarketData
	fallback marketdata.QuoteProvider
	retries  int
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewStockDataAgent(market MarketData, fallback marketdata.QuoteProvider) *StockDataAgent {
	return &StockDataAgent{
		market:   market,
		fallback: fallback,
		retries:  3,
		sleep:    sleepCtx,
	}
}

// GetStockData fetches and derives everything the analysis needs for one
// symbol. The quote is mandatory; historical bars and the company overview
// degrade gracefully when the vendor withholds them.
func (a *StockDataAgent) GetStockData(ctx context.Context, symbol, period string) (*StockData, error) {
	var lastErr error

	for attempt := 0; attempt < a.retries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(2000+rand.Intn(3000)) * time.Millisecond
			if err := a.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		slog.Info("fetching stock data", "symbol", symbol, "attempt", attempt+1)

		data, err := a.fetch(ctx, symbol, period)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("stock data for %s: %w", symbol, lastErr)
}

func (a *StockDataAgent) fetch(ctx context.Context, symbol, period string) (*StockData, error) {
	quote, err := a.quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	bars, err := a.market.Daily(ctx, symbol, period)
	hasHistorical := err == nil && len(bars) > 0
	if !hasHistorical {
		if err != nil {
			slog.Warn("historical data not available", "symbol", symbol, "error", err)
		}
		// Synthesize a single bar from the quote so downstream maths
		// still have something to chew on.
		bars = []marketdata.Bar{{
			Date:   time.Now(),
			Open:   quote.Open,
			High:   quote.High,
			Low:    quote.Low,
			Close:  quote.Price,
			Volume: quote.Volume,
		}}
	}

	overview, err := a.market.Overview(ctx, symbol)
	if err != nil {
		slog.Warn("company overview not available", "symbol", symbol, "error", err)
		overview = &marketdata.CompanyOverview{}
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	data := &StockData{Symbol: symbol, Period: period}

	data.Current = CurrentData{
		Price:         quote.Price,
		PreviousClose: quote.PreviousClose,
		Change:        quote.Change,
		ChangePercent: quote.ChangePercent,
		Volume:        quote.Volume,
		MarketCap:     overview.MarketCap,
		PERatio:       overview.PERatio,
		DividendYield: overview.DividendYield,
		Beta:          overview.Beta,
		High:          quote.High,
		Low:           quote.Low,
		Open:          quote.Open,
		HasHistorical: hasHistorical,
		LastUpdated:   time.Now().Format(time.RFC3339),
	}

	if hasHistorical {
		var totalVolume float64
		for _, b := range bars {
			totalVolume += float64(b.Volume)
		}
		avg := totalVolume / float64(len(bars))
		data.Current.AvgVolume = avg
		if avg > 0 {
			ratio := float64(bars[len(bars)-1].Volume) / avg
			data.Current.VolumeRatio = &ratio
		}
	} else {
		data.Current.AvgVolume = float64(quote.Volume)
		one := 1.0
		data.Current.VolumeRatio = &one
	}

	data.Performance = Performance{
		High52Week: overview.High52Week,
		Low52Week:  overview.Low52Week,
	}
	if ret, ok := indicators.PeriodReturn(closes); ok && hasHistorical {
		data.Performance.PeriodReturn = ret
	} else {
		// Daily change percent stands in when history is missing.
		data.Performance.PeriodReturn = quote.ChangePercent
	}
	if vol, ok := indicators.Volatility(closes); ok && hasHistorical {
		data.Performance.Volatility = &vol
	}
	if ma, ok := indicators.SMA(closes, 50); ok {
		data.Performance.MA50 = &ma
		above := quote.Price > ma
		data.Performance.PriceAboveMA50 = &above
	}
	if ma, ok := indicators.SMA(closes, 200); ok {
		data.Performance.MA200 = &ma
		above := quote.Price > ma
		data.Performance.PriceAboveMA200 = &above
	}

	if rsi, ok := indicators.RSI(closes, 14); ok {
		data.Technical.RSI = &rsi
		data.Technical.RSISignal = rsiSignal(rsi)
	}
	if macd, ok := indicators.MACD(closes); ok {
		data.Technical.MACD = &macd
		data.Technical.MACDSignal = macdSignal(macd)
	}

	data.History = History{DataSource: "alpha_vantage_historical"}
	if !hasHistorical {
		data.History.DataSource = "alpha_vantage_current"
	}
	for _, b := range bars {
		data.History.Dates = append(data.History.Dates, b.Date.Format("2006-01-02"))
		data.History.Prices = append(data.History.Prices, b.Close)
		data.History.Volumes = append(data.History.Volumes, b.Volume)
		data.History.Highs = append(data.History.Highs, b.High)
		data.History.Lows = append(data.History.Lows, b.Low)
	}

	data.Company = CompanyInfo{
		Name:        overview.Name,
		Sector:      overview.Sector,
		Industry:    overview.Industry,
		Description: overview.Description,
	}

	return data, nil
}

func (a *StockDataAgent) quote(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	quote, err := a.market.Quote(ctx, symbol)
	if err == nil {
		return quote, nil
	}
	if a.fallback != nil {
		slog.Warn("primary quote failed, trying fallback", "symbol", symbol, "error", err)
		if q, ferr := a.fallback.Quote(ctx, symbol); ferr == nil {
			return q, nil
		}
	}
	return nil, err
}

func rsiSignal(rsi float64) string {
	switch {
	case rsi > 70:
		return "Overbought"
	case rsi < 30:
		return "Oversold"
	default:
		return "Neutral"
	}
}

func macdSignal(m indicators.MACDResult) string {
	switch {
	case m.Histogram > 0:
		return "Bullish"
	case m.Histogram < 0:
		return "Bearish"
	default:
		return "Neutral"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
