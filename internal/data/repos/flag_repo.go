package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/database"
)

const pgUniqueViolation = "23505"

// FlagRepo implements contracts.FlagRepository on PostgreSQL
// The one-open-flag-per-ticker invariant is enforced by the partial
// unique index trading_flags_one_open; a violation surfaces as
// contracts.ErrOpenFlagExists.
type FlagRepo struct {
	db *database.DB
}

func NewFlagRepo(db *database.DB) *FlagRepo {
	return &FlagRepo{db: db}
}

func (r *FlagRepo) Create(ctx context.Context, flag *contracts.TradingFlag) (*contracts.TradingFlag, error) {
	metadata, err := json.Marshal(flag.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal flag metadata: %w", err)
	}

	query := `
		INSERT INTO trading_flags (
			ticker_id, flag_type, status, entry_price, confidence,
			rationale, metadata, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err = r.db.Pool.QueryRow(ctx, query,
		flag.TickerID, flag.Type, flag.Status, flag.EntryPrice,
		flag.Confidence, flag.Rationale, metadata, flag.CreatedAt,
	).Scan(&flag.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, contracts.ErrOpenFlagExists
		}
		return nil, fmt.Errorf("insert trading flag: %w", err)
	}
	return flag, nil
}

func (r *FlagRepo) GetByID(ctx context.Context, id int64) (*contracts.TradingFlag, error) {
	query := selectFlags + ` WHERE f.id = $1`
	flag, err := r.scanFlag(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("get flag %d: %w", id, err)
	}
	return flag, nil
}

// GetOpenByTicker returns the OPEN flag for a ticker, or (nil, nil)
// when there is none
func (r *FlagRepo) GetOpenByTicker(ctx context.Context, tickerID int64) (*contracts.TradingFlag, error) {
	query := selectFlags + ` WHERE f.ticker_id = $1 AND f.status = 'OPEN'`
	flag, err := r.scanFlag(r.db.Pool.QueryRow(ctx, query, tickerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open flag for ticker %d: %w", tickerID, err)
	}
	return flag, nil
}

func (r *FlagRepo) ListOpen(ctx context.Context) ([]*contracts.TradingFlag, error) {
	query := selectFlags + ` WHERE f.status = 'OPEN' ORDER BY f.created_at`
	return r.queryFlags(ctx, query)
}

func (r *FlagRepo) ListByStatus(ctx context.Context, status contracts.FlagStatus, limit int) ([]*contracts.TradingFlag, error) {
	query := selectFlags + ` WHERE f.status = $1 ORDER BY f.created_at DESC LIMIT $2`
	return r.queryFlags(ctx, query, status, limit)
}

func (r *FlagRepo) ListByTicker(ctx context.Context, tickerID int64) ([]*contracts.TradingFlag, error) {
	query := selectFlags + ` WHERE f.ticker_id = $1 ORDER BY f.created_at DESC`
	return r.queryFlags(ctx, query, tickerID)
}

// Close transitions an OPEN flag to a terminal status
// The status guard in the WHERE clause keeps closed flags immutable.
func (r *FlagRepo) Close(ctx context.Context, id int64, status contracts.FlagStatus, closedAt time.Time) error {
	if !contracts.StatusOpen.CanTransitionTo(status) {
		return fmt.Errorf("illegal flag transition to %s", status)
	}

	query := `
		UPDATE trading_flags
		SET status = $2, closed_at = $3
		WHERE id = $1 AND status = 'OPEN'`

	tag, err := r.db.Pool.Exec(ctx, query, id, status, closedAt)
	if err != nil {
		return fmt.Errorf("close flag %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

const selectFlags = `
	SELECT f.id, f.ticker_id, t.symbol, f.flag_type, f.status, f.entry_price,
	       f.confidence, f.rationale, f.metadata, f.created_at, f.closed_at
	FROM trading_flags f
	JOIN tickers t ON t.id = f.ticker_id`

func (r *FlagRepo) scanFlag(row pgx.Row) (*contracts.TradingFlag, error) {
	var f contracts.TradingFlag
	var metadata []byte

	err := row.Scan(&f.ID, &f.TickerID, &f.Symbol, &f.Type, &f.Status, &f.EntryPrice,
		&f.Confidence, &f.Rationale, &metadata, &f.CreatedAt, &f.ClosedAt)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &f.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal flag metadata: %w", err)
		}
	}
	return &f, nil
}

func (r *FlagRepo) queryFlags(ctx context.Context, query string, args ...interface{}) ([]*contracts.TradingFlag, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flags: %w", err)
	}
	defer rows.Close()

	var flags []*contracts.TradingFlag
	for rows.Next() {
		flag, err := r.scanFlag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		flags = append(flags, flag)
	}
	return flags, rows.Err()
}
