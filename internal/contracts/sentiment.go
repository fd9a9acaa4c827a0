package contracts

import "time"

// SentimentSource identifies where a sentiment sample came from
type SentimentSource string

const (
	SourceApeWisdom SentimentSource = "apewisdom"
	SourceReddit    SentimentSource = "reddit"
)

// SentimentSample is a single observation of social chatter for a ticker
// One row per ticker per source per collection run.
type SentimentSample struct {
	ID          int64           `json:"id"`
	TickerID    int64           `json:"ticker_id"`
	Source      SentimentSource `json:"source"`
	Rank        *int            `json:"rank,omitempty"` // trend rank; only apewisdom carries one
	Mentions    int             `json:"mentions"`
	Upvotes     int             `json:"upvotes"`
	CollectedAt time.Time       `json:"collected_at"`
}

// VelocityRecord captures the mention growth rate for one ticker in one
// subreddit between two collection windows
// velocity = (current - previous) / previous * 100
// When there is no previous count, velocity is 100 if current > 0, else 0.
type VelocityRecord struct {
	ID               int64     `json:"id"`
	TickerID         int64     `json:"ticker_id"`
	Subreddit        string    `json:"subreddit"`
	CurrentMentions  int       `json:"current_mentions"`
	PreviousMentions int       `json:"previous_mentions"`
	ChangePct        float64   `json:"change_pct"`
	ComputedAt       time.Time `json:"computed_at"`
}

// TopPost is a high-engagement post referencing a ticker
// Kept for flag rationale context; at most a handful per ticker per run.
type TopPost struct {
	ID          int64     `json:"id"`
	TickerID    int64     `json:"ticker_id"`
	Subreddit   string    `json:"subreddit"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`
	PostedAt    time.Time `json:"posted_at"`
	CollectedAt time.Time `json:"collected_at"`
}

// ComputeVelocity returns the mention growth percentage
func ComputeVelocity(current, previous int) float64 {
	if previous > 0 {
		return float64(current-previous) / float64(previous) * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}
