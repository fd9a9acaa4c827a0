package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/config"
)

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		TopNRank:       20,
		MinVelocityPct: 20.0,
		MinHealthScore: 60.0,
		MinConfidence:  70.0,
		MaxFlagAge:     720 * time.Hour,
	}
}

func eligibleInputs() contracts.TickerInputs {
	return contracts.TickerInputs{
		TickerID:          1,
		Symbol:            "GME",
		TrendRank:         intPtr(3),
		VelocityChangePct: floatPtr(120),
		HealthScore:       floatPtr(90),
		MentionVolume:     intPtr(1500),
	}
}

func TestCheckAcceptanceEligible(t *testing.T) {
	got := CheckAcceptance(eligibleInputs(), testEngineConfig())
	if !got.Eligible {
		t.Fatalf("expected eligible, got reasons: %v", got.Reasons)
	}
	if len(got.Reasons) != 0 {
		t.Errorf("eligible result should carry no reasons: %v", got.Reasons)
	}
}

func TestCheckAcceptanceBoundaries(t *testing.T) {
	cfg := testEngineConfig()

	tests := []struct {
		name     string
		mutate   func(*contracts.TickerInputs)
		eligible bool
		reason   string
	}{
		{"rank at limit passes", func(in *contracts.TickerInputs) { in.TrendRank = intPtr(20) }, true, ""},
		{"rank beyond limit fails", func(in *contracts.TickerInputs) { in.TrendRank = intPtr(25) }, false, "trend rank 25 outside top 20"},
		{"velocity at minimum passes", func(in *contracts.TickerInputs) { in.VelocityChangePct = floatPtr(20) }, true, ""},
		{"velocity below minimum fails", func(in *contracts.TickerInputs) { in.VelocityChangePct = floatPtr(15) }, false, "velocity 15.0% below minimum 20.0%"},
		{"health at minimum passes", func(in *contracts.TickerInputs) { in.HealthScore = floatPtr(60) }, true, ""},
		{"health below minimum fails", func(in *contracts.TickerInputs) { in.HealthScore = floatPtr(45) }, false, "health score 45.0 below minimum 60.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := eligibleInputs()
			tt.mutate(&in)

			got := CheckAcceptance(in, cfg)
			if got.Eligible != tt.eligible {
				t.Errorf("Eligible = %v, want %v (reasons: %v)", got.Eligible, tt.eligible, got.Reasons)
			}
			if tt.reason != "" && !containsReason(got.Reasons, tt.reason) {
				t.Errorf("reasons %v missing %q", got.Reasons, tt.reason)
			}
		})
	}
}

func TestCheckAcceptanceFailsClosed(t *testing.T) {
	cfg := testEngineConfig()

	tests := []struct {
		name   string
		mutate func(*contracts.TickerInputs)
		reason string
	}{
		{"missing rank", func(in *contracts.TickerInputs) { in.TrendRank = nil }, "no trend rank recorded"},
		{"missing velocity", func(in *contracts.TickerInputs) { in.VelocityChangePct = nil }, "no mention velocity recorded"},
		{"missing health", func(in *contracts.TickerInputs) { in.HealthScore = nil }, "no fundamental health score recorded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := eligibleInputs()
			tt.mutate(&in)

			got := CheckAcceptance(in, cfg)
			if got.Eligible {
				t.Error("absent input must fail closed")
			}
			if !containsReason(got.Reasons, tt.reason) {
				t.Errorf("reasons %v missing %q", got.Reasons, tt.reason)
			}
		})
	}
}

func TestCheckAcceptanceAllMissing(t *testing.T) {
	got := CheckAcceptance(contracts.TickerInputs{Symbol: "XYZ"}, testEngineConfig())
	if got.Eligible {
		t.Error("all-absent inputs must not be eligible")
	}
	if len(got.Reasons) != 3 {
		t.Errorf("expected 3 reasons, got %v", got.Reasons)
	}
}

func containsReason(reasons []string, want string) bool {
	for _, r := range reasons {
		if strings.Contains(r, want) {
			return true
		}
	}
	return false
}
