package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrOpenFlagExists is returned when a create would violate the
// one-open-flag-per-ticker invariant. Callers treat it as a skip.
var ErrOpenFlagExists = errors.New("an open flag already exists for this ticker")

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// TickerRepository manages the ticker registry
type TickerRepository interface {
	Upsert(ctx context.Context, ticker *Ticker) (*Ticker, error)
	GetBySymbol(ctx context.Context, symbol string) (*Ticker, error)
	GetByID(ctx context.Context, id int64) (*Ticker, error)
	List(ctx context.Context) ([]*Ticker, error)
	UpdateMetadata(ctx context.Context, id int64, companyName, industry string) error
}

// SentimentRepository stores raw sentiment samples and top posts
// LatestSample only considers samples collected at or after since;
// anything older is treated as absent.
type SentimentRepository interface {
	InsertSample(ctx context.Context, sample *SentimentSample) error
	LatestSample(ctx context.Context, tickerID int64, source SentimentSource, since time.Time) (*SentimentSample, error)
	InsertTopPost(ctx context.Context, post *TopPost) error
	TopPosts(ctx context.Context, tickerID int64, limit int) ([]*TopPost, error)
}

// VelocityRepository stores computed mention growth records, one per
// ticker per subreddit per run
// Previous returns the newest record for a (ticker, subreddit) pair
// with computed_at in [since, before); Recent returns all records for
// a ticker from since onward, newest first.
type VelocityRepository interface {
	Insert(ctx context.Context, rec *VelocityRecord) error
	Previous(ctx context.Context, tickerID int64, subreddit string, since, before time.Time) (*VelocityRecord, error)
	Recent(ctx context.Context, tickerID int64, since time.Time) ([]*VelocityRecord, error)
}

// FundamentalRepository stores fundamental snapshots
type FundamentalRepository interface {
	Insert(ctx context.Context, snap *FundamentalSnapshot) error
	Latest(ctx context.Context, tickerID int64) (*FundamentalSnapshot, error)
}

// FlagRepository manages trading flags
// Create must enforce the single-OPEN-flag invariant atomically and
// return ErrOpenFlagExists on violation.
type FlagRepository interface {
	Create(ctx context.Context, flag *TradingFlag) (*TradingFlag, error)
	GetByID(ctx context.Context, id int64) (*TradingFlag, error)
	GetOpenByTicker(ctx context.Context, tickerID int64) (*TradingFlag, error)
	ListOpen(ctx context.Context) ([]*TradingFlag, error)
	ListByStatus(ctx context.Context, status FlagStatus, limit int) ([]*TradingFlag, error)
	ListByTicker(ctx context.Context, tickerID int64) ([]*TradingFlag, error)
	Close(ctx context.Context, id int64, status FlagStatus, closedAt time.Time) error
}
