package validator

import (
	"fmt"

	"github.com/sentival/backend/internal/external/yahoo"
)

// Health check thresholds
const (
	MinMarketCap    = 500_000_000.0
	MaxDebtToEquity = 2.0
	MinProfitMargin = -50.0
)

// HealthResult is the outcome of scoring one ticker's fundamentals
type HealthResult struct {
	Score   float64
	Healthy bool
	Reasons []string
}

// ComputeHealth scores fundamentals on a 0-100 scale
// Starts at 100 and deducts per failed check; missing critical fields
// deduct both in their own check and in the completeness check. Strong
// revenue growth earns a bonus. Healthy means score >= 60 with at most
// one failed check.
func ComputeHealth(f *yahoo.Fundamentals) HealthResult {
	score := 100.0
	var reasons []string

	if f.MarketCap == nil {
		reasons = append(reasons, "missing market cap data")
		score -= 30
	} else if *f.MarketCap < MinMarketCap {
		reasons = append(reasons, fmt.Sprintf("market cap $%.0f below minimum $%.0f", *f.MarketCap, MinMarketCap))
		score -= 30
	}

	if f.DebtToEquity != nil && *f.DebtToEquity > MaxDebtToEquity {
		reasons = append(reasons, fmt.Sprintf("debt-to-equity %.2f exceeds maximum %.1f", *f.DebtToEquity, MaxDebtToEquity))
		score -= 20
	}

	if f.ProfitMarginPct != nil && *f.ProfitMarginPct < MinProfitMargin {
		reasons = append(reasons, fmt.Sprintf("profit margin %.2f%% below minimum %.1f%%", *f.ProfitMarginPct, MinProfitMargin))
		score -= 25
	}

	missing := missingCriticalFields(f)
	if len(missing) > 0 {
		reasons = append(reasons, fmt.Sprintf("missing critical data: %v", missing))
		score -= 15 * float64(len(missing))
	}

	if f.RevenueGrowthPct != nil && *f.RevenueGrowthPct > 20 {
		score += 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return HealthResult{
		Score:   score,
		Healthy: score >= 60 && len(reasons) <= 1,
		Reasons: reasons,
	}
}

func missingCriticalFields(f *yahoo.Fundamentals) []string {
	var missing []string
	if f.MarketCap == nil {
		missing = append(missing, "market_cap")
	}
	if f.CurrentPrice == nil {
		missing = append(missing, "current_price")
	}
	if f.CompanyName == "" {
		missing = append(missing, "company_name")
	}
	return missing
}
