package engine

import (
	"testing"

	"github.com/sentival/backend/internal/contracts"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestScoreRankBuckets(t *testing.T) {
	tests := []struct {
		name string
		rank *int
		want float64
	}{
		{"rank 1", intPtr(1), 30},
		{"rank 5", intPtr(5), 30},
		{"rank 6", intPtr(6), 25},
		{"rank 10", intPtr(10), 25},
		{"rank 11", intPtr(11), 20},
		{"rank 20", intPtr(20), 20},
		{"rank 21", intPtr(21), 0},
		{"absent", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(contracts.TickerInputs{TrendRank: tt.rank})
			if got.RankPoints != tt.want {
				t.Errorf("RankPoints = %v, want %v", got.RankPoints, tt.want)
			}
		})
	}
}

func TestScoreVelocityBuckets(t *testing.T) {
	tests := []struct {
		name     string
		velocity *float64
		want     float64
	}{
		{"above 100", floatPtr(150), 30},
		{"exactly 100", floatPtr(100), 25},
		{"above 50", floatPtr(75), 25},
		{"exactly 50", floatPtr(50), 20},
		{"above 20", floatPtr(25), 20},
		{"exactly 20", floatPtr(20), 0},
		{"below 20", floatPtr(10), 0},
		{"absent", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(contracts.TickerInputs{VelocityChangePct: tt.velocity})
			if got.VelocityPoints != tt.want {
				t.Errorf("VelocityPoints = %v, want %v", got.VelocityPoints, tt.want)
			}
		})
	}
}

func TestScoreFundamentalLinear(t *testing.T) {
	tests := []struct {
		name   string
		health *float64
		want   float64
	}{
		{"zero", floatPtr(0), 0},
		{"sixty", floatPtr(60), 15},
		{"hundred", floatPtr(100), 25},
		{"over hundred clamps", floatPtr(140), 25},
		{"negative clamps", floatPtr(-10), 0},
		{"absent", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(contracts.TickerInputs{HealthScore: tt.health})
			if got.FundamentalPoints != tt.want {
				t.Errorf("FundamentalPoints = %v, want %v", got.FundamentalPoints, tt.want)
			}
		})
	}
}

func TestScoreVolumeBuckets(t *testing.T) {
	tests := []struct {
		name   string
		volume *int
		want   float64
	}{
		{"above 1000", intPtr(1500), 15},
		{"exactly 1000", intPtr(1000), 12},
		{"above 500", intPtr(750), 12},
		{"above 100", intPtr(200), 10},
		{"exactly 100", intPtr(100), 0},
		{"low", intPtr(50), 0},
		{"absent", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(contracts.TickerInputs{MentionVolume: tt.volume})
			if got.VolumePoints != tt.want {
				t.Errorf("VolumePoints = %v, want %v", got.VolumePoints, tt.want)
			}
		})
	}
}

func TestScoreStrongCandidate(t *testing.T) {
	// rank 3 (30) + velocity 120% (30) + health 90 (22.5) + volume 1500 (15)
	got := Score(contracts.TickerInputs{
		TrendRank:         intPtr(3),
		VelocityChangePct: floatPtr(120),
		HealthScore:       floatPtr(90),
		MentionVolume:     intPtr(1500),
	})

	if got.Total != 97.5 {
		t.Errorf("Total = %v, want 97.5", got.Total)
	}
	if got.Total < 95 {
		t.Error("strong candidate should score at least 95")
	}
}

func TestScoreTotalBounds(t *testing.T) {
	best := Score(contracts.TickerInputs{
		TrendRank:         intPtr(1),
		VelocityChangePct: floatPtr(500),
		HealthScore:       floatPtr(100),
		MentionVolume:     intPtr(10000),
	})
	if best.Total > 100 {
		t.Errorf("Total = %v, must not exceed 100", best.Total)
	}

	worst := Score(contracts.TickerInputs{})
	if worst.Total != 0 {
		t.Errorf("Total = %v, want 0 for all-absent inputs", worst.Total)
	}
}

func TestScoreMonotonic(t *testing.T) {
	base := contracts.TickerInputs{
		TrendRank:         intPtr(15),
		VelocityChangePct: floatPtr(30),
		HealthScore:       floatPtr(50),
		MentionVolume:     intPtr(200),
	}
	baseTotal := Score(base).Total

	improved := base
	improved.TrendRank = intPtr(2)
	if Score(improved).Total < baseTotal {
		t.Error("better rank must not lower the score")
	}

	improved = base
	improved.HealthScore = floatPtr(95)
	if Score(improved).Total < baseTotal {
		t.Error("better health must not lower the score")
	}
}
