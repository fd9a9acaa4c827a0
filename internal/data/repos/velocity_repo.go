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

// VelocityRepo implements contracts.VelocityRepository on PostgreSQL
// One row per ticker per subreddit per collection run, append-only.
type VelocityRepo struct {
	db *database.DB
}

func NewVelocityRepo(db *database.DB) *VelocityRepo {
	return &VelocityRepo{db: db}
}

func (r *VelocityRepo) Insert(ctx context.Context, rec *contracts.VelocityRecord) error {
	query := `
		INSERT INTO velocity_records (ticker_id, subreddit, current_mentions, previous_mentions, change_pct, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.Pool.QueryRow(ctx, query,
		rec.TickerID, rec.Subreddit, rec.CurrentMentions, rec.PreviousMentions, rec.ChangePct, rec.ComputedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert velocity record: %w", err)
	}
	return nil
}

// Previous returns the newest record for the (ticker, subreddit) pair
// computed in [since, before), used as the velocity baseline
func (r *VelocityRepo) Previous(ctx context.Context, tickerID int64, subreddit string, since, before time.Time) (*contracts.VelocityRecord, error) {
	query := `
		SELECT id, ticker_id, subreddit, current_mentions, previous_mentions, change_pct, computed_at
		FROM velocity_records
		WHERE ticker_id = $1 AND subreddit = $2 AND computed_at >= $3 AND computed_at < $4
		ORDER BY computed_at DESC
		LIMIT 1`

	var v contracts.VelocityRecord
	err := r.db.Pool.QueryRow(ctx, query, tickerID, subreddit, since, before).Scan(
		&v.ID, &v.TickerID, &v.Subreddit, &v.CurrentMentions, &v.PreviousMentions, &v.ChangePct, &v.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("previous velocity record: %w", err)
	}
	return &v, nil
}

// Recent returns all records for a ticker computed at or after since,
// newest first
func (r *VelocityRepo) Recent(ctx context.Context, tickerID int64, since time.Time) ([]*contracts.VelocityRecord, error) {
	query := `
		SELECT id, ticker_id, subreddit, current_mentions, previous_mentions, change_pct, computed_at
		FROM velocity_records
		WHERE ticker_id = $1 AND computed_at >= $2
		ORDER BY computed_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, tickerID, since)
	if err != nil {
		return nil, fmt.Errorf("recent velocity records: %w", err)
	}
	defer rows.Close()

	var records []*contracts.VelocityRecord
	for rows.Next() {
		var v contracts.VelocityRecord
		if err := rows.Scan(&v.ID, &v.TickerID, &v.Subreddit, &v.CurrentMentions,
			&v.PreviousMentions, &v.ChangePct, &v.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan velocity record: %w", err)
		}
		records = append(records, &v)
	}
	return records, rows.Err()
}
