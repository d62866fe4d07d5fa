package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/EnZ0cez/StockAgent/pkg/fundamentals"
	"github.com/EnZ0cez/StockAgent/pkg/marketdata"
)

type FinancialData struct {
	Symbol      string                      `json:"symbol"`
	CompanyInfo *FinCompanyInfo             `json:"company_info,omitempty"`
	KeyMetrics  map[string]float64          `json:"key_metrics"`
	Ratios      map[string]float64          `json:"financial_ratios"`
	Statements  *fundamentals.Comprehensive `json:"statements,omitempty"`
	Health      *FinancialHealth            `json:"financial_health"`
	LastUpdated string                      `json:"last_updated"`
}

type FinCompanyInfo struct {
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
}

type FinancialHealth struct {
	HealthScore   int      `json:"health_score"`
	OverallHealth string   `json:"overall_health"`
	HealthFactors []string `json:"health_factors"`
	KeyStrengths  []string `json:"key_strengths"`
	KeyWeaknesses []string `json:"key_weaknesses"`
}

// FinancialAgent pulls fundamental metrics from the company overview and,
// when a statements provider is configured, the full statement set.
type FinancialAgent struct {
	market   MarketData
	provider fundamentals.Provider
}

func NewFinancialAgent(market MarketData, provider fundamentals.Provider) *FinancialAgent {
	return &FinancialAgent{market: market, provider: provider}
}

func (a *FinancialAgent) GetFinancialData(ctx context.Context, symbol string) (*FinancialData, error) {
	overview, err := a.market.Overview(ctx, symbol)
	if err != nil {
		return nil, err
	}

	data := &FinancialData{
		Symbol:      symbol,
		KeyMetrics:  keyMetrics(overview),
		LastUpdated: time.Now().Format(time.RFC3339),
	}
	if overview.Name != "" {
		data.CompanyInfo = &FinCompanyInfo{
			Name:        overview.Name,
			Sector:      overview.Sector,
			Industry:    overview.Industry,
			Description: overview.Description,
		}
	}
	data.Ratios = financialRatios(data.KeyMetrics)
	data.Health = AssessHealth(data.KeyMetrics)

	if a.provider != nil {
		statements, err := a.provider.Comprehensive(ctx, symbol)
		if err != nil {
			slog.Warn("statements fetch failed", "symbol", symbol, "error", err)
		} else {
			data.Statements = statements
		}
	}

	return data, nil
}

// keyMetrics flattens the overview into a metric map, skipping fields the
// vendor did not report.
func keyMetrics(o *marketdata.CompanyOverview) map[string]float64 {
	m := make(map[string]float64)
	put := func(key string, v *float64) {
		if v != nil {
			m[key] = *v
		}
	}
	put("market_cap", o.MarketCap)
	put("trailing_pe", o.PERatio)
	put("peg_ratio", o.PEGRatio)
	put("eps", o.EPS)
	put("beta", o.Beta)
	put("dividend_yield", o.DividendYield)
	put("profit_margins", o.ProfitMargin)
	put("operating_margins", o.OperatingMargin)
	put("return_on_assets", o.ReturnOnAssets)
	put("return_on_equity", o.ReturnOnEquity)
	put("revenue_ttm", o.RevenueTTM)
	put("revenue_growth", o.QuarterlyRevenueGrowthYOY)
	put("earnings_growth", o.QuarterlyEarningsGrowthYOY)
	put("analyst_target_price", o.AnalystTargetPrice)
	return m
}

func financialRatios(metrics map[string]float64) map[string]float64 {
	ratios := make(map[string]float64)
	if v, ok := metrics["profit_margins"]; ok {
		ratios["net_profit_margin"] = v * 100
	}
	if v, ok := metrics["return_on_assets"]; ok {
		ratios["return_on_assets"] = v * 100
	}
	if v, ok := metrics["return_on_equity"]; ok {
		ratios["return_on_equity"] = v * 100
	}
	if pe, ok := metrics["trailing_pe"]; ok {
		if growth, ok := metrics["earnings_growth"]; ok && growth != 0 {
			ratios["peg_computed"] = pe / (growth * 100)
		}
	}
	return ratios
}

// AssessHealth scores profitability, growth, yield and valuation against
// fixed bands and buckets the total into four labels.
func AssessHealth(metrics map[string]float64) *FinancialHealth {
	h := &FinancialHealth{}

	if v, ok := metrics["profit_margins"]; ok {
		switch {
		case v > 0.15:
			h.HealthScore += 25
			h.HealthFactors = append(h.HealthFactors, "Strong profitability")
		case v > 0.05:
			h.HealthScore += 15
			h.HealthFactors = append(h.HealthFactors, "Moderate profitability")
		default:
			h.HealthFactors = append(h.HealthFactors, "Low profitability")
		}
	}

	if v, ok := metrics["revenue_growth"]; ok {
		switch {
		case v > 0.1:
			h.HealthScore += 25
			h.HealthFactors = append(h.HealthFactors, "Strong revenue growth")
		case v > 0.05:
			h.HealthScore += 15
			h.HealthFactors = append(h.HealthFactors, "Moderate revenue growth")
		default:
			h.HealthFactors = append(h.HealthFactors, "Low revenue growth")
		}
	}

	if v, ok := metrics["return_on_equity"]; ok {
		switch {
		case v > 0.2:
			h.HealthScore += 25
			h.HealthFactors = append(h.HealthFactors, "Strong return on equity")
		case v > 0.1:
			h.HealthScore += 15
			h.HealthFactors = append(h.HealthFactors, "Moderate return on equity")
		default:
			h.HealthFactors = append(h.HealthFactors, "Weak return on equity")
		}
	}

	if v, ok := metrics["trailing_pe"]; ok {
		switch {
		case v > 0 && v < 15:
			h.HealthScore += 25
			h.HealthFactors = append(h.HealthFactors, "Attractive valuation")
		case v < 30:
			h.HealthScore += 15
			h.HealthFactors = append(h.HealthFactors, "Reasonable valuation")
		default:
			h.HealthFactors = append(h.HealthFactors, "Stretched valuation")
		}
	}

	switch {
	case h.HealthScore >= 80:
		h.OverallHealth = "Excellent"
	case h.HealthScore >= 60:
		h.OverallHealth = "Good"
	case h.HealthScore >= 40:
		h.OverallHealth = "Fair"
	default:
		h.OverallHealth = "Poor"
	}

	for _, f := range h.HealthFactors {
		switch {
		case hasPrefixAny(f, "Strong", "Attractive"):
			h.KeyStrengths = append(h.KeyStrengths, f)
		case hasPrefixAny(f, "Low", "Weak", "Stretched"):
			h.KeyWeaknesses = append(h.KeyWeaknesses, f)
		}
	}

	return h
}

func hasPrefixAny(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}
