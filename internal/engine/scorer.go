package engine

import "github.com/sentival/backend/internal/contracts"

// Sub-score caps
const (
	maxRankPoints        = 30.0
	maxVelocityPoints    = 30.0
	maxFundamentalPoints = 25.0
	maxVolumePoints      = 15.0
	maxConfidence        = 100.0
)

// Score computes the confidence breakdown for a ticker's inputs
// Pure function of the inputs. Absent inputs contribute zero points;
// the total is capped at 100.
func Score(in contracts.TickerInputs) contracts.ScoreBreakdown {
	b := contracts.ScoreBreakdown{
		RankPoints:        rankPoints(in.TrendRank),
		VelocityPoints:    velocityPoints(in.VelocityChangePct),
		FundamentalPoints: fundamentalPoints(in.HealthScore),
		VolumePoints:      volumePoints(in.MentionVolume),
	}

	b.Total = b.RankPoints + b.VelocityPoints + b.FundamentalPoints + b.VolumePoints
	if b.Total > maxConfidence {
		b.Total = maxConfidence
	}
	return b
}

func rankPoints(rank *int) float64 {
	if rank == nil {
		return 0
	}
	switch {
	case *rank <= 5:
		return 30
	case *rank <= 10:
		return 25
	case *rank <= 20:
		return 20
	default:
		return 0
	}
}

func velocityPoints(pct *float64) float64 {
	if pct == nil {
		return 0
	}
	switch {
	case *pct > 100:
		return 30
	case *pct > 50:
		return 25
	case *pct > 20:
		return 20
	default:
		return 0
	}
}

// fundamentalPoints maps health score 0..100 linearly onto 0..25
func fundamentalPoints(health *float64) float64 {
	if health == nil {
		return 0
	}
	pts := *health / 100 * maxFundamentalPoints
	if pts < 0 {
		return 0
	}
	if pts > maxFundamentalPoints {
		return maxFundamentalPoints
	}
	return pts
}

func volumePoints(volume *int) float64 {
	if volume == nil {
		return 0
	}
	switch {
	case *volume > 1000:
		return 15
	case *volume > 500:
		return 12
	case *volume > 100:
		return 10
	default:
		return 0
	}
}
