package validator

import (
	"context"
	"fmt"
	"time"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/internal/external/yahoo"
	"github.com/sentival/backend/pkg/logger"
)

// Validator is the fundamental validation stage
// For every known ticker it fetches fundamentals, computes a health
// score and appends a snapshot. One snapshot per ticker per run.
type Validator struct {
	tickers      contracts.TickerRepository
	fundamentals contracts.FundamentalRepository
	yahoo        *yahoo.Client
	logger       *logger.Logger
	now          func() time.Time
}

func New(
	tickers contracts.TickerRepository,
	fundamentals contracts.FundamentalRepository,
	yahooClient *yahoo.Client,
	log *logger.Logger,
) *Validator {
	return &Validator{
		tickers:      tickers,
		fundamentals: fundamentals,
		yahoo:        yahooClient,
		logger:       log,
		now:          time.Now,
	}
}

// Result summarizes one validation run
type Result struct {
	Validated int
	Healthy   int
	Failed    int
}

// Run validates every known ticker
// Per-ticker failures are logged and skipped; they never abort the run.
func (v *Validator) Run(ctx context.Context) (*Result, error) {
	tickers, err := v.tickers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}

	result := &Result{}
	for _, t := range tickers {
		if err := v.validateOne(ctx, t, result); err != nil {
			result.Failed++
			v.logger.WithError(err).WithField("symbol", t.Symbol).Error("Validation failed")
		}
	}

	v.logger.WithFields(map[string]interface{}{
		"validated": result.Validated,
		"healthy":   result.Healthy,
		"failed":    result.Failed,
	}).Info("Validation run completed")

	return result, nil
}

func (v *Validator) validateOne(ctx context.Context, t *contracts.Ticker, result *Result) error {
	fund, err := v.yahoo.FetchFundamentals(ctx, t.Symbol)
	if err != nil {
		return fmt.Errorf("fetch fundamentals: %w", err)
	}

	health := ComputeHealth(fund)

	snap := &contracts.FundamentalSnapshot{
		TickerID:         t.ID,
		CompanyName:      fund.CompanyName,
		Industry:         fund.Industry,
		MarketCap:        fund.MarketCap,
		CurrentPrice:     fund.CurrentPrice,
		DebtToEquity:     fund.DebtToEquity,
		ProfitMarginPct:  fund.ProfitMarginPct,
		RevenueGrowthPct: fund.RevenueGrowthPct,
		PERatio:          fund.PERatio,
		Beta:             fund.Beta,
		HealthScore:      health.Score,
		CollectedAt:      v.now(),
	}
	if err := v.fundamentals.Insert(ctx, snap); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	// Backfill ticker metadata on first successful validation
	if fund.CompanyName != "" && t.CompanyName == "" {
		if err := v.tickers.UpdateMetadata(ctx, t.ID, fund.CompanyName, fund.Industry); err != nil {
			v.logger.WithError(err).WithField("symbol", t.Symbol).Warn("Failed to update ticker metadata")
		}
	}

	result.Validated++
	if health.Healthy {
		result.Healthy++
	} else {
		v.logger.WithFields(map[string]interface{}{
			"symbol":  t.Symbol,
			"score":   health.Score,
			"reasons": health.Reasons,
		}).Debug("Ticker failed health check")
	}

	return nil
}
