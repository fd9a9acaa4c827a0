package contracts

import "time"

// FundamentalSnapshot is a point-in-time read of a ticker's financial health
// Collected once per validation run; optional fields are nil when the
// upstream source omitted them.
type FundamentalSnapshot struct {
	ID               int64     `json:"id"`
	TickerID         int64     `json:"ticker_id"`
	CompanyName      string    `json:"company_name,omitempty"`
	Industry         string    `json:"industry,omitempty"`
	MarketCap        *float64  `json:"market_cap,omitempty"`
	CurrentPrice     *float64  `json:"current_price,omitempty"`
	DebtToEquity     *float64  `json:"debt_to_equity,omitempty"`
	ProfitMarginPct  *float64  `json:"profit_margin_pct,omitempty"`
	RevenueGrowthPct *float64  `json:"revenue_growth_pct,omitempty"`
	PERatio          *float64  `json:"pe_ratio,omitempty"`
	Beta             *float64  `json:"beta,omitempty"`
	HealthScore      float64   `json:"health_score"`
	CollectedAt      time.Time `json:"collected_at"`
}
