package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// AlphaVantageClient is the primary market data provider. The free tier
// allows 5 requests per minute, enforced client-side so callers block
// instead of burning requests on vendor rate-limit notices.
type AlphaVantageClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *minuteLimiter
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		baseURL:    "https://www.alphavantage.co/query",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    newMinuteLimiter(5),
	}
}

var periodDays = map[string]int{
	"1d": 1, "5d": 5, "1mo": 30, "3mo": 90,
	"6mo": 180, "1y": 365, "2y": 730, "5y": 1825,
}

func (c *AlphaVantageClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	data, err := c.query(ctx, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}})
	if err != nil {
		return nil, err
	}

	raw, ok := data["Global Quote"]
	if !ok {
		return nil, fmt.Errorf("alphavantage: no quote data for %s", symbol)
	}

	var q map[string]string
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("alphavantage quote decode: %w", err)
	}
	if len(q) == 0 {
		return nil, fmt.Errorf("alphavantage: empty quote for %s", symbol)
	}

	return &Quote{
		Symbol:           symbol,
		Price:            parseFloat(q["05. price"]),
		Change:           parseFloat(q["09. change"]),
		ChangePercent:    parseFloat(strings.TrimSuffix(q["10. change percent"], "%")),
		Volume:           parseInt(q["06. volume"]),
		High:             parseFloat(q["03. high"]),
		Low:              parseFloat(q["04. low"]),
		Open:             parseFloat(q["02. open"]),
		PreviousClose:    parseFloat(q["08. previous close"]),
		LatestTradingDay: q["07. latest trading day"],
		Provider:         "alpha_vantage",
	}, nil
}

// Daily returns adjusted daily bars sorted oldest first, filtered to the
// requested period ("1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "max").
func (c *AlphaVantageClient) Daily(ctx context.Context, symbol, period string) ([]Bar, error) {
	outputsize := "compact"
	if days, ok := periodDays[period]; !ok || days > 100 {
		outputsize = "full"
	}

	data, err := c.query(ctx, url.Values{
		"function":   {"TIME_SERIES_DAILY_ADJUSTED"},
		"symbol":     {symbol},
		"outputsize": {outputsize},
	})
	if err != nil {
		return nil, err
	}

	raw, ok := data["Time Series (Daily)"]
	if !ok {
		return nil, fmt.Errorf("alphavantage: no historical data for %s", symbol)
	}

	var series map[string]map[string]string
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("alphavantage series decode: %w", err)
	}

	bars := make([]Bar, 0, len(series))
	for dateStr, v := range series {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		bars = append(bars, Bar{
			Date:     date,
			Open:     parseFloat(v["1. open"]),
			High:     parseFloat(v["2. high"]),
			Low:      parseFloat(v["3. low"]),
			Close:    parseFloat(v["4. close"]),
			AdjClose: parseFloat(v["5. adjusted close"]),
			Volume:   parseInt(v["6. volume"]),
			Dividend: parseFloat(v["7. dividend amount"]),
			Split:    parseFloat(v["8. split coefficient"]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	if days, ok := periodDays[period]; ok {
		cutoff := time.Now().AddDate(0, 0, -days)
		i := sort.Search(len(bars), func(i int) bool { return !bars[i].Date.Before(cutoff) })
		bars = bars[i:]
	}

	return bars, nil
}

func (c *AlphaVantageClient) Overview(ctx context.Context, symbol string) (*CompanyOverview, error) {
	data, err := c.query(ctx, url.Values{"function": {"OVERVIEW"}, "symbol": {symbol}})
	if err != nil {
		return nil, err
	}
	if _, ok := data["Symbol"]; !ok {
		return nil, fmt.Errorf("alphavantage: no company overview for %s", symbol)
	}

	m := make(map[string]string, len(data))
	for k, v := range data {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			m[k] = s
		}
	}

	return &CompanyOverview{
		Symbol:      m["Symbol"],
		Name:        m["Name"],
		Sector:      m["Sector"],
		Industry:    m["Industry"],
		Description: m["Description"],

		MarketCap:                  numericField(m, "MarketCapitalization"),
		PERatio:                    numericField(m, "PERatio"),
		PEGRatio:                   numericField(m, "PEGRatio"),
		EPS:                        numericField(m, "EPS"),
		Beta:                       numericField(m, "Beta"),
		DividendYield:              numericField(m, "DividendYield"),
		ProfitMargin:               numericField(m, "ProfitMargin"),
		OperatingMargin:            numericField(m, "OperatingMarginTTM"),
		ReturnOnAssets:             numericField(m, "ReturnOnAssetsTTM"),
		ReturnOnEquity:             numericField(m, "ReturnOnEquityTTM"),
		RevenueTTM:                 numericField(m, "RevenueTTM"),
		QuarterlyRevenueGrowthYOY:  numericField(m, "QuarterlyRevenueGrowthYOY"),
		QuarterlyEarningsGrowthYOY: numericField(m, "QuarterlyEarningsGrowthYOY"),
		AnalystTargetPrice:         numericField(m, "AnalystTargetPrice"),
		High52Week:                 numericField(m, "52WeekHigh"),
		Low52Week:                  numericField(m, "52WeekLow"),
		MA50:                       numericField(m, "50DayMovingAverage"),
		MA200:                      numericField(m, "200DayMovingAverage"),
	}, nil
}

func (c *AlphaVantageClient) SearchSymbol(ctx context.Context, keywords string) ([]SymbolMatch, error) {
	data, err := c.query(ctx, url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {keywords}})
	if err != nil {
		return nil, err
	}

	raw, ok := data["bestMatches"]
	if !ok {
		return nil, nil
	}

	var items []map[string]string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("alphavantage search decode: %w", err)
	}

	matches := make([]SymbolMatch, 0, len(items))
	for _, item := range items {
		matches = append(matches, SymbolMatch{
			Symbol:     item["1. symbol"],
			Name:       item["2. name"],
			Type:       item["3. type"],
			Region:     item["4. region"],
			Currency:   item["8. currency"],
			MatchScore: parseFloat(item["9. matchScore"]),
		})
	}
	return matches, nil
}

// query runs one rate-limited GET and surfaces vendor error payloads.
// "Error Message" and "Note" (the rate-limit notice) are errors; an
// "Information" payload mentioning premium access yields an empty result.
func (c *AlphaVantageClient) query(ctx context.Context, params url.Values) (map[string]json.RawMessage, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: unexpected status %d", resp.StatusCode)
	}

	var data map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	if raw, ok := data["Error Message"]; ok {
		return nil, fmt.Errorf("alphavantage error: %s", rawString(raw))
	}
	if raw, ok := data["Note"]; ok {
		return nil, fmt.Errorf("alphavantage rate limit: %s", rawString(raw))
	}
	if raw, ok := data["Information"]; ok {
		if strings.Contains(strings.ToLower(rawString(raw)), "premium") {
			return map[string]json.RawMessage{}, nil
		}
	}

	return data, nil
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return s
}

func numericField(m map[string]string, key string) *float64 {
	v, ok := m[key]
	if !ok || v == "None" || v == "-" || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}
