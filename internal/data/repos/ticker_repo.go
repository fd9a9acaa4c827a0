package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/database"
)

// TickerRepo implements contracts.TickerRepository on PostgreSQL
type TickerRepo struct {
	db *database.DB
}

func NewTickerRepo(db *database.DB) *TickerRepo {
	return &TickerRepo{db: db}
}

// Upsert inserts the ticker or returns the existing row for the symbol
func (r *TickerRepo) Upsert(ctx context.Context, ticker *contracts.Ticker) (*contracts.Ticker, error) {
	query := `
		INSERT INTO tickers (symbol, company_name, industry)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE SET symbol = EXCLUDED.symbol
		RETURNING id, symbol, company_name, industry, created_at`

	row := r.db.Pool.QueryRow(ctx, query, ticker.Symbol, ticker.CompanyName, ticker.Industry)

	var out contracts.Ticker
	if err := row.Scan(&out.ID, &out.Symbol, &out.CompanyName, &out.Industry, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("upsert ticker %s: %w", ticker.Symbol, err)
	}
	return &out, nil
}

func (r *TickerRepo) GetBySymbol(ctx context.Context, symbol string) (*contracts.Ticker, error) {
	query := `
		SELECT id, symbol, company_name, industry, created_at
		FROM tickers
		WHERE symbol = $1`

	return r.scanOne(r.db.Pool.QueryRow(ctx, query, symbol), symbol)
}

func (r *TickerRepo) GetByID(ctx context.Context, id int64) (*contracts.Ticker, error) {
	query := `
		SELECT id, symbol, company_name, industry, created_at
		FROM tickers
		WHERE id = $1`

	return r.scanOne(r.db.Pool.QueryRow(ctx, query, id), fmt.Sprintf("id=%d", id))
}

func (r *TickerRepo) List(ctx context.Context) ([]*contracts.Ticker, error) {
	query := `
		SELECT id, symbol, company_name, industry, created_at
		FROM tickers
		ORDER BY symbol`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	defer rows.Close()

	var tickers []*contracts.Ticker
	for rows.Next() {
		var t contracts.Ticker
		if err := rows.Scan(&t.ID, &t.Symbol, &t.CompanyName, &t.Industry, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, &t)
	}
	return tickers, rows.Err()
}

// UpdateMetadata fills in company name and industry once fundamentals land
func (r *TickerRepo) UpdateMetadata(ctx context.Context, id int64, companyName, industry string) error {
	query := `
		UPDATE tickers
		SET company_name = $2, industry = $3
		WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id, companyName, industry)
	if err != nil {
		return fmt.Errorf("update ticker metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

func (r *TickerRepo) scanOne(row pgx.Row, key string) (*contracts.Ticker, error) {
	var t contracts.Ticker
	if err := row.Scan(&t.ID, &t.Symbol, &t.CompanyName, &t.Industry, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("get ticker %s: %w", key, err)
	}
	return &t, nil
}
