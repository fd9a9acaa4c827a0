package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/config"
	"github.com/sentival/backend/pkg/logger"
)

// Engine turns normalized ticker inputs into trading flags
// Evaluation is a single pass per invocation; all scoring is pure, the
// only state touched is the flag store.
type Engine struct {
	flags  contracts.FlagRepository
	cfg    config.EngineConfig
	logger *logger.Logger
	now    func() time.Time
}

// New creates an evaluation engine
func New(flags contracts.FlagRepository, cfg config.EngineConfig, log *logger.Logger) *Engine {
	return &Engine{
		flags:  flags,
		cfg:    cfg,
		logger: log,
		now:    time.Now,
	}
}

// RunResult summarizes one evaluation pass
type RunResult struct {
	Evaluated       int
	Created         int
	SkippedExisting int
	Ineligible      int
	BelowConfidence int
	Failed          int
	Flags           []*contracts.TradingFlag
}

// Run evaluates every ticker and creates flags for the qualifying ones
// Per-ticker failures are isolated: one bad ticker never aborts the pass.
func (e *Engine) Run(ctx context.Context, inputs []contracts.TickerInputs) (*RunResult, error) {
	result := &RunResult{}

	for _, in := range inputs {
		result.Evaluated++

		flag, outcome, err := e.evaluate(ctx, in)
		switch outcome {
		case outcomeIneligible:
			result.Ineligible++
		case outcomeBelowConfidence:
			result.BelowConfidence++
		case outcomeSkippedExisting:
			result.SkippedExisting++
		case outcomeCreated:
			result.Created++
			result.Flags = append(result.Flags, flag)
		case outcomeFailed:
			result.Failed++
			e.logger.WithError(err).WithField("symbol", in.Symbol).Error("Flag evaluation failed")
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"evaluated":        result.Evaluated,
		"created":          result.Created,
		"skipped_existing": result.SkippedExisting,
		"ineligible":       result.Ineligible,
		"below_confidence": result.BelowConfidence,
		"failed":           result.Failed,
	}).Info("Evaluation pass completed")

	return result, nil
}

type evalOutcome int

const (
	outcomeIneligible evalOutcome = iota
	outcomeBelowConfidence
	outcomeSkippedExisting
	outcomeCreated
	outcomeFailed
)

func (e *Engine) evaluate(ctx context.Context, in contracts.TickerInputs) (*contracts.TradingFlag, evalOutcome, error) {
	acceptance := CheckAcceptance(in, e.cfg)
	if !acceptance.Eligible {
		e.logger.WithFields(map[string]interface{}{
			"symbol":  in.Symbol,
			"reasons": strings.Join(acceptance.Reasons, "; "),
		}).Debug("Ticker not eligible")
		return nil, outcomeIneligible, nil
	}

	breakdown := Score(in)
	if breakdown.Total < e.cfg.MinConfidence {
		e.logger.WithFields(map[string]interface{}{
			"symbol":     in.Symbol,
			"confidence": breakdown.Total,
			"minimum":    e.cfg.MinConfidence,
		}).Debug("Confidence below minimum")
		return nil, outcomeBelowConfidence, nil
	}

	// A store read failure means we cannot know whether an open flag
	// exists; skip creation rather than risk a duplicate.
	existing, err := e.flags.GetOpenByTicker(ctx, in.TickerID)
	if err != nil {
		return nil, outcomeFailed, fmt.Errorf("open flag lookup for %s: %w", in.Symbol, err)
	}
	if existing != nil {
		e.logger.WithFields(map[string]interface{}{
			"symbol":  in.Symbol,
			"flag_id": existing.ID,
		}).Debug("Open flag already exists, skipping")
		return nil, outcomeSkippedExisting, nil
	}

	flag := e.buildFlag(in, breakdown)
	created, err := e.flags.Create(ctx, flag)
	if err != nil {
		// Lost the race against a concurrent pass; the invariant held.
		if errors.Is(err, contracts.ErrOpenFlagExists) {
			return nil, outcomeSkippedExisting, nil
		}
		return nil, outcomeFailed, fmt.Errorf("create flag for %s: %w", in.Symbol, err)
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol":     in.Symbol,
		"flag_id":    created.ID,
		"confidence": created.Confidence,
	}).Info("Trading flag created")

	return created, outcomeCreated, nil
}

func (e *Engine) buildFlag(in contracts.TickerInputs, breakdown contracts.ScoreBreakdown) *contracts.TradingFlag {
	return &contracts.TradingFlag{
		TickerID:   in.TickerID,
		Symbol:     in.Symbol,
		Type:       contracts.FlagBuy,
		Status:     contracts.StatusOpen,
		EntryPrice: in.Price,
		Confidence: breakdown.Total,
		Rationale:  e.buildRationale(in, breakdown),
		Metadata: contracts.FlagMetadata{
			TrendRank:         in.TrendRank,
			MentionVolume:     in.MentionVolume,
			VelocityChangePct: in.VelocityChangePct,
			HealthScore:       in.HealthScore,
			Price:             in.Price,
			Breakdown:         breakdown,
			Thresholds: contracts.ThresholdSnapshot{
				TopNRank:       e.cfg.TopNRank,
				MinVelocityPct: e.cfg.MinVelocityPct,
				MinHealthScore: e.cfg.MinHealthScore,
				MinConfidence:  e.cfg.MinConfidence,
			},
		},
		CreatedAt: e.now(),
	}
}

// buildRationale lists the thresholds the ticker met, with the literal
// values in effect at creation time
func (e *Engine) buildRationale(in contracts.TickerInputs, breakdown contracts.ScoreBreakdown) string {
	parts := []string{
		fmt.Sprintf("trend rank %d within top %d", *in.TrendRank, e.cfg.TopNRank),
		fmt.Sprintf("mention velocity %.1f%% >= %.1f%%", *in.VelocityChangePct, e.cfg.MinVelocityPct),
		fmt.Sprintf("health score %.1f >= %.1f", *in.HealthScore, e.cfg.MinHealthScore),
	}
	if in.MentionVolume != nil {
		parts = append(parts, fmt.Sprintf("mention volume %d", *in.MentionVolume))
	}
	parts = append(parts, fmt.Sprintf("confidence %.1f >= %.1f", breakdown.Total, e.cfg.MinConfidence))
	return strings.Join(parts, "; ")
}

// SweepExpired transitions OPEN flags older than MaxFlagAge to EXPIRED
// Idempotent: already-expired flags are no longer OPEN and are never
// touched again. Returns the number of flags expired this sweep.
func (e *Engine) SweepExpired(ctx context.Context) (int, error) {
	open, err := e.flags.ListOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("list open flags: %w", err)
	}

	now := e.now()
	expired := 0
	for _, flag := range open {
		if flag.Age(now) <= e.cfg.MaxFlagAge {
			continue
		}
		if err := e.flags.Close(ctx, flag.ID, contracts.StatusExpired, now); err != nil {
			e.logger.WithError(err).WithField("flag_id", flag.ID).Error("Failed to expire flag")
			continue
		}
		expired++
		e.logger.WithFields(map[string]interface{}{
			"flag_id": flag.ID,
			"symbol":  flag.Symbol,
			"age":     flag.Age(now).String(),
		}).Info("Flag expired")
	}

	return expired, nil
}
