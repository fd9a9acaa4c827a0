package validator

import (
	"testing"

	"github.com/sentival/backend/internal/external/yahoo"
)

func f64(v float64) *float64 { return &v }

func solidFundamentals() *yahoo.Fundamentals {
	return &yahoo.Fundamentals{
		Symbol:           "GME",
		CompanyName:      "GameStop Corp.",
		MarketCap:        f64(7.5e9),
		CurrentPrice:     f64(24.5),
		DebtToEquity:     f64(0.5),
		ProfitMarginPct:  f64(1.2),
		RevenueGrowthPct: f64(5),
	}
}

func TestComputeHealthPerfect(t *testing.T) {
	got := ComputeHealth(solidFundamentals())

	if got.Score != 100 {
		t.Errorf("Score = %v, want 100", got.Score)
	}
	if !got.Healthy {
		t.Error("expected healthy")
	}
	if len(got.Reasons) != 0 {
		t.Errorf("unexpected reasons: %v", got.Reasons)
	}
}

func TestComputeHealthSmallCap(t *testing.T) {
	f := solidFundamentals()
	f.MarketCap = f64(100e6)

	got := ComputeHealth(f)
	if got.Score != 70 {
		t.Errorf("Score = %v, want 70", got.Score)
	}
	// One failed check at 70 still counts as healthy
	if !got.Healthy {
		t.Error("single failed check above 60 should stay healthy")
	}
}

func TestComputeHealthHighDebt(t *testing.T) {
	f := solidFundamentals()
	f.DebtToEquity = f64(3.5)

	got := ComputeHealth(f)
	if got.Score != 80 {
		t.Errorf("Score = %v, want 80", got.Score)
	}
}

func TestComputeHealthDeepLosses(t *testing.T) {
	f := solidFundamentals()
	f.ProfitMarginPct = f64(-80)

	got := ComputeHealth(f)
	if got.Score != 75 {
		t.Errorf("Score = %v, want 75", got.Score)
	}
}

func TestComputeHealthMissingMarketCapDoubleCounts(t *testing.T) {
	f := solidFundamentals()
	f.MarketCap = nil

	// -30 for the market cap check, -15 for the completeness check
	got := ComputeHealth(f)
	if got.Score != 55 {
		t.Errorf("Score = %v, want 55", got.Score)
	}
	if got.Healthy {
		t.Error("score below 60 must not be healthy")
	}
}

func TestComputeHealthRevenueGrowthBonus(t *testing.T) {
	f := solidFundamentals()
	f.MarketCap = f64(100e6)
	f.RevenueGrowthPct = f64(45)

	// 100 - 30 + 10
	got := ComputeHealth(f)
	if got.Score != 80 {
		t.Errorf("Score = %v, want 80", got.Score)
	}
}

func TestComputeHealthBonusCapped(t *testing.T) {
	f := solidFundamentals()
	f.RevenueGrowthPct = f64(45)

	got := ComputeHealth(f)
	if got.Score != 100 {
		t.Errorf("Score = %v, want 100 (capped)", got.Score)
	}
}

func TestComputeHealthFloor(t *testing.T) {
	got := ComputeHealth(&yahoo.Fundamentals{Symbol: "NOPE"})

	// 100 - 30 (market cap) - 45 (three missing critical fields)
	if got.Score != 25 {
		t.Errorf("Score = %v, want 25", got.Score)
	}
	if got.Healthy {
		t.Error("empty fundamentals must not be healthy")
	}

	f := &yahoo.Fundamentals{
		Symbol:          "WORSE",
		DebtToEquity:    f64(5),
		ProfitMarginPct: f64(-90),
	}
	got = ComputeHealth(f)
	// 100 - 30 - 20 - 25 - 45 clamps to 0
	if got.Score != 0 {
		t.Errorf("Score = %v, want 0 (floored)", got.Score)
	}
}

func TestComputeHealthMultipleReasonsUnhealthy(t *testing.T) {
	f := solidFundamentals()
	f.MarketCap = f64(100e6)
	f.DebtToEquity = f64(3)

	// 100 - 30 - 20 = 50, two failed checks
	got := ComputeHealth(f)
	if got.Healthy {
		t.Error("two failed checks must not be healthy")
	}
	if len(got.Reasons) != 2 {
		t.Errorf("reasons = %v, want 2 entries", got.Reasons)
	}
}
