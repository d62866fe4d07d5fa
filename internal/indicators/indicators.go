// Package indicators implements the technical indicators used by the stock
// data agent: simple and exponential moving averages, RSI, MACD, annualized
// volatility and period return. All functions operate on close prices ordered
// oldest to newest and report ok=false when the series is too short for the
// requested window.
package indicators

import "math"

type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// SMA returns the simple moving average of the trailing window.
func SMA(prices []float64, window int) (float64, bool) {
	if window <= 0 || len(prices) < window {
		return 0, false
	}
	var sum float64
	for _, p := range prices[len(prices)-window:] {
		sum += p
	}
	return sum / float64(window), true
}

// EMA returns the exponential moving average series with smoothing
// alpha = 2/(span+1), seeded with the first price.
func EMA(prices []float64, span int) []float64 {
	if span <= 0 || len(prices) == 0 {
		return nil
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = alpha*prices[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI returns the relative strength index over the trailing period,
// computed from the rolling mean of gains and losses.
func RSI(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) <= period {
		return 0, false
	}
	var gain, loss float64
	for i := len(prices) - period; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	gain /= float64(period)
	loss /= float64(period)
	if loss == 0 {
		return 100, true
	}
	rs := gain / loss
	return 100 - 100/(1+rs), true
}

// MACD returns the 12/26 EMA difference with a 9-period signal line.
// Requires more than 26 prices.
func MACD(prices []float64) (MACDResult, bool) {
	if len(prices) <= 26 {
		return MACDResult{}, false
	}
	fast := EMA(prices, 12)
	slow := EMA(prices, 26)
	line := make([]float64, len(prices))
	for i := range prices {
		line[i] = fast[i] - slow[i]
	}
	signal := EMA(line, 9)
	last := len(prices) - 1
	return MACDResult{
		MACD:      line[last],
		Signal:    signal[last],
		Histogram: line[last] - signal[last],
	}, true
}

// Volatility returns the annualized standard deviation of daily returns,
// as a percentage (stddev * sqrt(252) * 100).
func Volatility(prices []float64) (float64, bool) {
	returns := dailyReturns(prices)
	if len(returns) < 2 {
		return 0, false
	}
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(returns)-1))
	return std * math.Sqrt(252) * 100, true
}

// PeriodReturn returns the percent change from the first to the last price.
func PeriodReturn(prices []float64) (float64, bool) {
	if len(prices) < 2 || prices[0] == 0 {
		return 0, false
	}
	return (prices[len(prices)-1] - prices[0]) / prices[0] * 100, true
}

func dailyReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		out = append(out, prices[i]/prices[i-1]-1)
	}
	return out
}
