package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/database"
)

// FundamentalRepo implements contracts.FundamentalRepository on PostgreSQL
// One snapshot per ticker per validation run, append-only.
type FundamentalRepo struct {
	db *database.DB
}

func NewFundamentalRepo(db *database.DB) *FundamentalRepo {
	return &FundamentalRepo{db: db}
}

func (r *FundamentalRepo) Insert(ctx context.Context, snap *contracts.FundamentalSnapshot) error {
	query := `
		INSERT INTO fundamental_snapshots (
			ticker_id, company_name, industry, market_cap, current_price,
			debt_to_equity, profit_margin_pct, revenue_growth_pct,
			pe_ratio, beta, health_score, collected_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := r.db.Pool.QueryRow(ctx, query,
		snap.TickerID, snap.CompanyName, snap.Industry, snap.MarketCap, snap.CurrentPrice,
		snap.DebtToEquity, snap.ProfitMarginPct, snap.RevenueGrowthPct,
		snap.PERatio, snap.Beta, snap.HealthScore, snap.CollectedAt,
	).Scan(&snap.ID)
	if err != nil {
		return fmt.Errorf("insert fundamental snapshot: %w", err)
	}
	return nil
}

func (r *FundamentalRepo) Latest(ctx context.Context, tickerID int64) (*contracts.FundamentalSnapshot, error) {
	query := `
		SELECT id, ticker_id, company_name, industry, market_cap, current_price,
		       debt_to_equity, profit_margin_pct, revenue_growth_pct,
		       pe_ratio, beta, health_score, collected_at
		FROM fundamental_snapshots
		WHERE ticker_id = $1
		ORDER BY collected_at DESC
		LIMIT 1`

	var s contracts.FundamentalSnapshot
	err := r.db.Pool.QueryRow(ctx, query, tickerID).Scan(
		&s.ID, &s.TickerID, &s.CompanyName, &s.Industry, &s.MarketCap, &s.CurrentPrice,
		&s.DebtToEquity, &s.ProfitMarginPct, &s.RevenueGrowthPct,
		&s.PERatio, &s.Beta, &s.HealthScore, &s.CollectedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("latest fundamental snapshot: %w", err)
	}
	return &s, nil
}
