package contracts

// TickerInputs is the normalized view of a ticker that flag evaluation
// consumes. Pointer fields are nil when the corresponding signal was
// never collected; evaluation must treat absence as failure, not zero.
type TickerInputs struct {
	TickerID          int64
	Symbol            string
	TrendRank         *int
	TrendMentions     int
	RedditMentions    int
	MentionVolume     *int // trend + reddit mentions, nil when no source reported
	VelocityChangePct *float64
	HealthScore       *float64
	MarketCap         *float64
	Price             *float64
}
