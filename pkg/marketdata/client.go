package marketdata

import (
	"context"
	"time"
)

type Quote struct {
	Symbol           string
	Price            float64
	Change           float64
	ChangePercent    float64
	Volume           int64
	High             float64
	Low              float64
	Open             float64
	PreviousClose    float64
	LatestTradingDay string
	Provider         string
}

type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
	Dividend float64
	Split    float64
}

// CompanyOverview carries the fundamental fields the agents consume.
// Numeric fields are pointers: the vendor reports "None" or "-" for
// unavailable values and those stay nil.
type CompanyOverview struct {
	Symbol      string
	Name        string
	Sector      string
	Industry    string
	Description string

	MarketCap                  *float64
	PERatio                    *float64
	PEGRatio                   *float64
	EPS                        *float64
	Beta                       *float64
	DividendYield              *float64
	ProfitMargin               *float64
	OperatingMargin            *float64
	ReturnOnAssets             *float64
	ReturnOnEquity             *float64
	RevenueTTM                 *float64
	QuarterlyRevenueGrowthYOY  *float64
	QuarterlyEarningsGrowthYOY *float64
	AnalystTargetPrice         *float64
	High52Week                 *float64
	Low52Week                  *float64
	MA50                       *float64
	MA200                      *float64
}

type SymbolMatch struct {
	Symbol     string
	Name       string
	Type       string
	Region     string
	Currency   string
	MatchScore float64
}

type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
}
