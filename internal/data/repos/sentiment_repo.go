package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/database"
)

// SentimentRepo implements contracts.SentimentRepository on PostgreSQL
// Samples and top posts are append-only.
type SentimentRepo struct {
	db *database.DB
}

func NewSentimentRepo(db *database.DB) *SentimentRepo {
	return &SentimentRepo{db: db}
}

func (r *SentimentRepo) InsertSample(ctx context.Context, sample *contracts.SentimentSample) error {
	query := `
		INSERT INTO sentiment_samples (ticker_id, source, rank, mentions, upvotes, collected_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.Pool.QueryRow(ctx, query,
		sample.TickerID, sample.Source, sample.Rank,
		sample.Mentions, sample.Upvotes, sample.CollectedAt,
	).Scan(&sample.ID)
	if err != nil {
		return fmt.Errorf("insert sentiment sample: %w", err)
	}
	return nil
}

// LatestSample returns the newest sample collected at or after since.
// Older samples exist in the table but are stale for evaluation purposes.
func (r *SentimentRepo) LatestSample(ctx context.Context, tickerID int64, source contracts.SentimentSource, since time.Time) (*contracts.SentimentSample, error) {
	query := `
		SELECT id, ticker_id, source, rank, mentions, upvotes, collected_at
		FROM sentiment_samples
		WHERE ticker_id = $1 AND source = $2 AND collected_at >= $3
		ORDER BY collected_at DESC
		LIMIT 1`

	return r.scanSample(r.db.Pool.QueryRow(ctx, query, tickerID, source, since))
}

func (r *SentimentRepo) InsertTopPost(ctx context.Context, post *contracts.TopPost) error {
	query := `
		INSERT INTO top_posts (ticker_id, subreddit, title, url, score, num_comments, posted_at, collected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.Pool.QueryRow(ctx, query,
		post.TickerID, post.Subreddit, post.Title, post.URL,
		post.Score, post.NumComments, post.PostedAt, post.CollectedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("insert top post: %w", err)
	}
	return nil
}

func (r *SentimentRepo) TopPosts(ctx context.Context, tickerID int64, limit int) ([]*contracts.TopPost, error) {
	query := `
		SELECT id, ticker_id, subreddit, title, url, score, num_comments, posted_at, collected_at
		FROM top_posts
		WHERE ticker_id = $1
		ORDER BY score DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, tickerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list top posts: %w", err)
	}
	defer rows.Close()

	var posts []*contracts.TopPost
	for rows.Next() {
		var p contracts.TopPost
		if err := rows.Scan(&p.ID, &p.TickerID, &p.Subreddit, &p.Title, &p.URL,
			&p.Score, &p.NumComments, &p.PostedAt, &p.CollectedAt); err != nil {
			return nil, fmt.Errorf("scan top post: %w", err)
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func (r *SentimentRepo) scanSample(row pgx.Row) (*contracts.SentimentSample, error) {
	var s contracts.SentimentSample
	err := row.Scan(&s.ID, &s.TickerID, &s.Source, &s.Rank, &s.Mentions, &s.Upvotes, &s.CollectedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("scan sentiment sample: %w", err)
	}
	return &s, nil
}
