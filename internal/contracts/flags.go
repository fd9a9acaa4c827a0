package contracts

import "time"

// FlagType classifies the trading signal a flag carries
type FlagType string

const (
	FlagBuy   FlagType = "BUY"
	FlagSell  FlagType = "SELL"
	FlagWatch FlagType = "WATCH"
	FlagHold  FlagType = "HOLD"
)

// FlagStatus is the lifecycle state of a trading flag
// OPEN is the only creation state. CLOSED and EXPIRED are terminal.
type FlagStatus string

const (
	StatusOpen    FlagStatus = "OPEN"
	StatusClosed  FlagStatus = "CLOSED"
	StatusExpired FlagStatus = "EXPIRED"
)

// IsTerminal reports whether no further transitions are allowed
func (s FlagStatus) IsTerminal() bool {
	return s == StatusClosed || s == StatusExpired
}

// CanTransitionTo reports whether the transition s -> next is legal
func (s FlagStatus) CanTransitionTo(next FlagStatus) bool {
	if s != StatusOpen {
		return false
	}
	return next == StatusClosed || next == StatusExpired
}

// Valid reports whether s is a known status value
func (s FlagStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusExpired:
		return true
	}
	return false
}

// ScoreBreakdown records the per-component confidence points
type ScoreBreakdown struct {
	RankPoints        float64 `json:"rank_points"`
	VelocityPoints    float64 `json:"velocity_points"`
	FundamentalPoints float64 `json:"fundamental_points"`
	VolumePoints      float64 `json:"volume_points"`
	Total             float64 `json:"total"`
}

// ThresholdSnapshot freezes the thresholds that were in effect when a
// flag was created, so later config changes don't rewrite history.
type ThresholdSnapshot struct {
	TopNRank       int     `json:"top_n_rank"`
	MinVelocityPct float64 `json:"min_velocity_pct"`
	MinHealthScore float64 `json:"min_health_score"`
	MinConfidence  float64 `json:"min_confidence"`
}

// FlagMetadata carries the raw inputs and scoring detail behind a flag
type FlagMetadata struct {
	TrendRank         *int              `json:"trend_rank,omitempty"`
	MentionVolume     *int              `json:"mention_volume,omitempty"`
	VelocityChangePct *float64          `json:"velocity_change_pct,omitempty"`
	HealthScore       *float64          `json:"health_score,omitempty"`
	Price             *float64          `json:"price,omitempty"`
	Breakdown         ScoreBreakdown    `json:"breakdown"`
	Thresholds        ThresholdSnapshot `json:"thresholds"`
}

// TradingFlag is an actionable signal produced by the evaluation engine
// At most one OPEN flag may exist per ticker at any time.
type TradingFlag struct {
	ID         int64        `json:"id"`
	TickerID   int64        `json:"ticker_id"`
	Symbol     string       `json:"symbol"`
	Type       FlagType     `json:"type"`
	Status     FlagStatus   `json:"status"`
	EntryPrice *float64     `json:"entry_price,omitempty"`
	Confidence float64      `json:"confidence"`
	Rationale  string       `json:"rationale"`
	Metadata   FlagMetadata `json:"metadata"`
	CreatedAt  time.Time    `json:"created_at"`
	ClosedAt   *time.Time   `json:"closed_at,omitempty"`
}

// Age returns how long the flag has been open relative to now
func (f *TradingFlag) Age(now time.Time) time.Duration {
	return now.Sub(f.CreatedAt)
}
