package engine

import (
	"fmt"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/config"
)

// Acceptance is the result of the eligibility check for one ticker
// Reasons lists every criterion that failed; empty when eligible.
type Acceptance struct {
	Eligible bool
	Reasons  []string
}

// CheckAcceptance applies the hard eligibility criteria
// Absent inputs fail closed: a ticker with no recorded rank, velocity
// or health score is never eligible, regardless of the other inputs.
func CheckAcceptance(in contracts.TickerInputs, cfg config.EngineConfig) Acceptance {
	var reasons []string

	if in.TrendRank == nil {
		reasons = append(reasons, "no trend rank recorded")
	} else if *in.TrendRank > cfg.TopNRank {
		reasons = append(reasons, fmt.Sprintf("trend rank %d outside top %d", *in.TrendRank, cfg.TopNRank))
	}

	if in.VelocityChangePct == nil {
		reasons = append(reasons, "no mention velocity recorded")
	} else if *in.VelocityChangePct < cfg.MinVelocityPct {
		reasons = append(reasons, fmt.Sprintf("velocity %.1f%% below minimum %.1f%%", *in.VelocityChangePct, cfg.MinVelocityPct))
	}

	if in.HealthScore == nil {
		reasons = append(reasons, "no fundamental health score recorded")
	} else if *in.HealthScore < cfg.MinHealthScore {
		reasons = append(reasons, fmt.Sprintf("health score %.1f below minimum %.1f", *in.HealthScore, cfg.MinHealthScore))
	}

	return Acceptance{
		Eligible: len(reasons) == 0,
		Reasons:  reasons,
	}
}
