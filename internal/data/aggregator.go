package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/logger"
)

// Aggregator assembles the stored signals per ticker into the
// normalized inputs the evaluation engine consumes
// Only sentiment and velocity rows inside the trailing window count;
// older rows are treated as absent, the same as a ticker that was never
// observed. Absence stays a nil pointer and is never coerced to zero.
// Fundamental snapshots refresh on a daily cadence and are read without
// the mention window.
type Aggregator struct {
	tickers      contracts.TickerRepository
	sentiments   contracts.SentimentRepository
	velocities   contracts.VelocityRepository
	fundamentals contracts.FundamentalRepository
	window       time.Duration
	logger       *logger.Logger
	now          func() time.Time
}

func NewAggregator(
	tickers contracts.TickerRepository,
	sentiments contracts.SentimentRepository,
	velocities contracts.VelocityRepository,
	fundamentals contracts.FundamentalRepository,
	window time.Duration,
	log *logger.Logger,
) *Aggregator {
	return &Aggregator{
		tickers:      tickers,
		sentiments:   sentiments,
		velocities:   velocities,
		fundamentals: fundamentals,
		window:       window,
		logger:       log,
		now:          time.Now,
	}
}

// Collect builds inputs for every known ticker
// A ticker whose reads fail is excluded from this run and logged; it
// never aborts the whole collection.
func (a *Aggregator) Collect(ctx context.Context) ([]contracts.TickerInputs, error) {
	tickers, err := a.tickers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}

	cutoff := a.now().Add(-a.window)

	inputs := make([]contracts.TickerInputs, 0, len(tickers))
	for _, t := range tickers {
		in, err := a.collectOne(ctx, t, cutoff)
		if err != nil {
			a.logger.WithError(err).WithField("symbol", t.Symbol).Warn("Excluding ticker from this run")
			continue
		}
		inputs = append(inputs, in)
	}

	a.logger.WithFields(map[string]interface{}{
		"tickers":  len(tickers),
		"included": len(inputs),
	}).Info("Input collection completed")

	return inputs, nil
}

func (a *Aggregator) collectOne(ctx context.Context, t *contracts.Ticker, cutoff time.Time) (contracts.TickerInputs, error) {
	in := contracts.TickerInputs{
		TickerID: t.ID,
		Symbol:   t.Symbol,
	}

	trend, err := a.sentiments.LatestSample(ctx, t.ID, contracts.SourceApeWisdom, cutoff)
	if err != nil && !errors.Is(err, contracts.ErrNotFound) {
		return in, fmt.Errorf("latest trend sample: %w", err)
	}
	if trend != nil {
		in.TrendRank = trend.Rank
		in.TrendMentions = trend.Mentions
	}

	reddit, err := a.sentiments.LatestSample(ctx, t.ID, contracts.SourceReddit, cutoff)
	if err != nil && !errors.Is(err, contracts.ErrNotFound) {
		return in, fmt.Errorf("latest reddit sample: %w", err)
	}
	if reddit != nil {
		in.RedditMentions = reddit.Mentions
	}

	if trend != nil || reddit != nil {
		volume := in.TrendMentions + in.RedditMentions
		in.MentionVolume = &volume
	}

	records, err := a.velocities.Recent(ctx, t.ID, cutoff)
	if err != nil && !errors.Is(err, contracts.ErrNotFound) {
		return in, fmt.Errorf("recent velocity records: %w", err)
	}
	in.VelocityChangePct = peakVelocity(records)

	fund, err := a.fundamentals.Latest(ctx, t.ID)
	if err != nil && !errors.Is(err, contracts.ErrNotFound) {
		return in, fmt.Errorf("latest fundamentals: %w", err)
	}
	if fund != nil {
		health := fund.HealthScore
		in.HealthScore = &health
		in.MarketCap = fund.MarketCap
		in.Price = fund.CurrentPrice
	}

	return in, nil
}

// peakVelocity reduces per-subreddit velocity rows to the single value
// the engine scores: the newest record per subreddit, then the highest
// change across subreddits. Returns nil when there are no records.
// Records must arrive newest first; the first hit per subreddit wins.
func peakVelocity(records []*contracts.VelocityRecord) *float64 {
	seen := make(map[string]bool, len(records))
	var peak *float64
	for _, rec := range records {
		if seen[rec.Subreddit] {
			continue
		}
		seen[rec.Subreddit] = true
		if peak == nil || rec.ChangePct > *peak {
			pct := rec.ChangePct
			peak = &pct
		}
	}
	return peak
}
