package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/internal/external/apewisdom"
	"github.com/sentival/backend/internal/external/reddit"
	"github.com/sentival/backend/pkg/logger"
)

const maxTopPostsPerTicker = 5

// Discovery is the sentiment collection stage
// Scrapes the trending table, scans subreddits for mentions of the
// trending symbols and records mention velocity per ticker per
// subreddit. The velocity baseline is the previous window's count for
// the same subreddit; counts older than two windows never serve as a
// baseline.
type Discovery struct {
	apewisdom  *apewisdom.Client
	reddit     *reddit.Client
	tickers    contracts.TickerRepository
	sentiments contracts.SentimentRepository
	velocities contracts.VelocityRepository
	window     time.Duration
	logger     *logger.Logger
	now        func() time.Time
}

func New(
	apewisdomClient *apewisdom.Client,
	redditClient *reddit.Client,
	tickers contracts.TickerRepository,
	sentiments contracts.SentimentRepository,
	velocities contracts.VelocityRepository,
	window time.Duration,
	log *logger.Logger,
) *Discovery {
	return &Discovery{
		apewisdom:  apewisdomClient,
		reddit:     redditClient,
		tickers:    tickers,
		sentiments: sentiments,
		velocities: velocities,
		window:     window,
		logger:     log,
		now:        time.Now,
	}
}

// Result summarizes one discovery run
type Result struct {
	Trending        int
	RedditTickers   int
	VelocityRecords int
	Failed          int
}

// Run executes one collection pass
func (d *Discovery) Run(ctx context.Context) (*Result, error) {
	runStart := d.now()

	trending, err := d.apewisdom.FetchTrending(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch trending tickers: %w", err)
	}

	result := &Result{Trending: len(trending)}
	targets := make(map[string]int64, len(trending))

	for _, entry := range trending {
		ticker, err := d.tickers.Upsert(ctx, &contracts.Ticker{Symbol: entry.Symbol})
		if err != nil {
			result.Failed++
			d.logger.WithError(err).WithField("symbol", entry.Symbol).Error("Failed to register ticker")
			continue
		}
		targets[entry.Symbol] = ticker.ID

		rank := entry.Rank
		sample := &contracts.SentimentSample{
			TickerID:    ticker.ID,
			Source:      contracts.SourceApeWisdom,
			Rank:        &rank,
			Mentions:    entry.Mentions,
			Upvotes:     entry.Upvotes,
			CollectedAt: runStart,
		}
		if err := d.sentiments.InsertSample(ctx, sample); err != nil {
			result.Failed++
			d.logger.WithError(err).WithField("symbol", entry.Symbol).Error("Failed to store trend sample")
		}
	}

	stats := d.scanSubreddits(ctx, targets)
	result.RedditTickers = len(stats)

	for symbol, s := range stats {
		tickerID := targets[symbol]
		records, err := d.recordMentions(ctx, tickerID, s, runStart)
		if err != nil {
			result.Failed++
			d.logger.WithError(err).WithField("symbol", symbol).Error("Failed to record mentions")
			continue
		}
		result.VelocityRecords += records
	}

	d.logger.WithFields(map[string]interface{}{
		"trending":       result.Trending,
		"reddit_tickers": result.RedditTickers,
		"velocity":       result.VelocityRecords,
		"failed":         result.Failed,
	}).Info("Discovery run completed")

	return result, nil
}

// mentionStats accumulates per-ticker reddit activity for one run
type mentionStats struct {
	Mentions    int
	Upvotes     int
	BySubreddit map[string]int
	TopPosts    []reddit.Post
}

func (d *Discovery) scanSubreddits(ctx context.Context, targets map[string]int64) map[string]*mentionStats {
	stats := make(map[string]*mentionStats)

	for _, subreddit := range d.reddit.Subreddits() {
		posts, err := d.reddit.FetchRecentPosts(ctx, subreddit)
		if err != nil {
			d.logger.WithError(err).WithField("subreddit", subreddit).Warn("Skipping subreddit")
			continue
		}
		accumulateMentions(stats, posts, targets)
	}

	return stats
}

// accumulateMentions tallies posts into per-ticker stats, keeping only
// symbols present in targets
func accumulateMentions(stats map[string]*mentionStats, posts []reddit.Post, targets map[string]int64) {
	for _, post := range posts {
		for _, symbol := range reddit.ExtractTickers(post.Title + " " + post.Selftext) {
			if _, tracked := targets[symbol]; !tracked {
				continue
			}

			s, ok := stats[symbol]
			if !ok {
				s = &mentionStats{BySubreddit: make(map[string]int)}
				stats[symbol] = s
			}
			s.Mentions++
			s.Upvotes += post.Score
			s.BySubreddit[post.Subreddit]++
			if len(s.TopPosts) < maxTopPostsPerTicker {
				s.TopPosts = append(s.TopPosts, post)
			}
		}
	}
}

// recordMentions persists the reddit sample, one velocity record per
// subreddit and the supporting posts. Returns the number of velocity
// records written.
func (d *Discovery) recordMentions(ctx context.Context, tickerID int64, s *mentionStats, runStart time.Time) (int, error) {
	sample := &contracts.SentimentSample{
		TickerID:    tickerID,
		Source:      contracts.SourceReddit,
		Mentions:    s.Mentions,
		Upvotes:     s.Upvotes,
		CollectedAt: runStart,
	}
	if err := d.sentiments.InsertSample(ctx, sample); err != nil {
		return 0, fmt.Errorf("store reddit sample: %w", err)
	}

	baselineSince := runStart.Add(-2 * d.window)

	written := 0
	for subreddit, count := range s.BySubreddit {
		previousMentions := 0
		previous, err := d.velocities.Previous(ctx, tickerID, subreddit, baselineSince, runStart)
		if err != nil && !errors.Is(err, contracts.ErrNotFound) {
			return written, fmt.Errorf("load previous velocity for r/%s: %w", subreddit, err)
		}
		if previous != nil {
			previousMentions = previous.CurrentMentions
		}

		rec := &contracts.VelocityRecord{
			TickerID:         tickerID,
			Subreddit:        subreddit,
			CurrentMentions:  count,
			PreviousMentions: previousMentions,
			ChangePct:        contracts.ComputeVelocity(count, previousMentions),
			ComputedAt:       runStart,
		}
		if err := d.velocities.Insert(ctx, rec); err != nil {
			return written, fmt.Errorf("store velocity record for r/%s: %w", subreddit, err)
		}
		written++
	}

	for _, post := range s.TopPosts {
		topPost := &contracts.TopPost{
			TickerID:    tickerID,
			Subreddit:   post.Subreddit,
			Title:       post.Title,
			URL:         post.URL,
			Score:       post.Score,
			NumComments: post.NumComments,
			PostedAt:    post.CreatedAt,
			CollectedAt: runStart,
		}
		if err := d.sentiments.InsertTopPost(ctx, topPost); err != nil {
			d.logger.WithError(err).WithField("ticker_id", tickerID).Warn("Failed to store top post")
		}
	}

	return written, nil
}
