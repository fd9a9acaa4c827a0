package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/config"
	"github.com/sentival/backend/pkg/logger"
)

// fakeFlagRepo is an in-memory FlagRepository enforcing the
// one-open-flag-per-ticker invariant the way the store does
type fakeFlagRepo struct {
	flags   map[int64]*contracts.TradingFlag
	nextID  int64
	readErr error
	// when set, Create fails with this error regardless of state
	createErr error
}

func newFakeFlagRepo() *fakeFlagRepo {
	return &fakeFlagRepo{flags: make(map[int64]*contracts.TradingFlag), nextID: 1}
}

func (r *fakeFlagRepo) Create(_ context.Context, flag *contracts.TradingFlag) (*contracts.TradingFlag, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, f := range r.flags {
		if f.TickerID == flag.TickerID && f.Status == contracts.StatusOpen {
			return nil, contracts.ErrOpenFlagExists
		}
	}
	stored := *flag
	stored.ID = r.nextID
	r.nextID++
	r.flags[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeFlagRepo) GetByID(_ context.Context, id int64) (*contracts.TradingFlag, error) {
	f, ok := r.flags[id]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return f, nil
}

func (r *fakeFlagRepo) GetOpenByTicker(_ context.Context, tickerID int64) (*contracts.TradingFlag, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	for _, f := range r.flags {
		if f.TickerID == tickerID && f.Status == contracts.StatusOpen {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeFlagRepo) ListOpen(_ context.Context) ([]*contracts.TradingFlag, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	var out []*contracts.TradingFlag
	for _, f := range r.flags {
		if f.Status == contracts.StatusOpen {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFlagRepo) ListByStatus(_ context.Context, status contracts.FlagStatus, _ int) ([]*contracts.TradingFlag, error) {
	var out []*contracts.TradingFlag
	for _, f := range r.flags {
		if f.Status == status {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFlagRepo) ListByTicker(_ context.Context, tickerID int64) ([]*contracts.TradingFlag, error) {
	var out []*contracts.TradingFlag
	for _, f := range r.flags {
		if f.TickerID == tickerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFlagRepo) Close(_ context.Context, id int64, status contracts.FlagStatus, closedAt time.Time) error {
	f, ok := r.flags[id]
	if !ok {
		return contracts.ErrNotFound
	}
	if !f.Status.CanTransitionTo(status) {
		return errors.New("illegal transition")
	}
	f.Status = status
	f.ClosedAt = &closedAt
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func testEngine(repo *fakeFlagRepo) *Engine {
	return New(repo, testEngineConfig(), testLogger())
}

func TestRunCreatesFlagForQualifyingTicker(t *testing.T) {
	repo := newFakeFlagRepo()
	eng := testEngine(repo)

	result, err := eng.Run(context.Background(), []contracts.TickerInputs{eligibleInputs()})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Created != 1 {
		t.Fatalf("Created = %d, want 1", result.Created)
	}
	flag := result.Flags[0]
	if flag.Status != contracts.StatusOpen {
		t.Errorf("Status = %s, want OPEN", flag.Status)
	}
	if flag.Type != contracts.FlagBuy {
		t.Errorf("Type = %s, want BUY", flag.Type)
	}
	if flag.Confidence != 97.5 {
		t.Errorf("Confidence = %v, want 97.5", flag.Confidence)
	}
	if flag.Rationale == "" {
		t.Error("rationale must not be empty")
	}
	if flag.Metadata.Thresholds.MinConfidence != 70 {
		t.Errorf("threshold snapshot missing: %+v", flag.Metadata.Thresholds)
	}
}

func TestRunSkipsExistingOpenFlag(t *testing.T) {
	repo := newFakeFlagRepo()
	eng := testEngine(repo)
	ctx := context.Background()

	first, err := eng.Run(ctx, []contracts.TickerInputs{eligibleInputs()})
	if err != nil || first.Created != 1 {
		t.Fatalf("first run: created=%d err=%v", first.Created, err)
	}
	existing := first.Flags[0]
	originalConfidence := existing.Confidence

	// Re-run with different inputs for the same ticker
	in := eligibleInputs()
	in.TrendRank = intPtr(1)
	second, err := eng.Run(ctx, []contracts.TickerInputs{in})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if second.Created != 0 {
		t.Errorf("second run Created = %d, want 0", second.Created)
	}
	if second.SkippedExisting != 1 {
		t.Errorf("SkippedExisting = %d, want 1", second.SkippedExisting)
	}
	if len(repo.flags) != 1 {
		t.Fatalf("repo holds %d flags, want 1", len(repo.flags))
	}
	// The existing flag must be left untouched
	if repo.flags[existing.ID].Confidence != originalConfidence {
		t.Error("existing open flag was modified by re-run")
	}
}

func TestRunTreatsCreateConflictAsSkip(t *testing.T) {
	repo := newFakeFlagRepo()
	repo.createErr = contracts.ErrOpenFlagExists
	eng := testEngine(repo)

	result, err := eng.Run(context.Background(), []contracts.TickerInputs{eligibleInputs()})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Failed != 0 {
		t.Errorf("Failed = %d, conflict must not count as failure", result.Failed)
	}
	if result.SkippedExisting != 1 {
		t.Errorf("SkippedExisting = %d, want 1", result.SkippedExisting)
	}
}

func TestRunSkipsOnOpenFlagReadError(t *testing.T) {
	repo := newFakeFlagRepo()
	repo.readErr = errors.New("connection reset")
	eng := testEngine(repo)

	result, err := eng.Run(context.Background(), []contracts.TickerInputs{eligibleInputs()})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if len(repo.flags) != 0 {
		t.Error("no flag may be created when the open-flag check cannot run")
	}
}

func TestRunIsolatesPerTickerFailure(t *testing.T) {
	repo := newFakeFlagRepo()
	eng := testEngine(repo)

	bad := eligibleInputs()
	bad.TickerID = 2
	bad.Symbol = "BAD"
	bad.HealthScore = nil // ineligible

	good := eligibleInputs()

	result, err := eng.Run(context.Background(), []contracts.TickerInputs{bad, good})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Created != 1 {
		t.Errorf("Created = %d, want 1", result.Created)
	}
	if result.Ineligible != 1 {
		t.Errorf("Ineligible = %d, want 1", result.Ineligible)
	}
}

func TestRunRejectsBelowThresholds(t *testing.T) {
	repo := newFakeFlagRepo()
	eng := testEngine(repo)
	ctx := context.Background()

	outsideTop := eligibleInputs()
	outsideTop.TrendRank = intPtr(25)

	slow := eligibleInputs()
	slow.TickerID = 2
	slow.Symbol = "SLOW"
	slow.VelocityChangePct = floatPtr(15)

	result, err := eng.Run(ctx, []contracts.TickerInputs{outsideTop, slow})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Created != 0 {
		t.Errorf("Created = %d, want 0", result.Created)
	}
	if result.Ineligible != 2 {
		t.Errorf("Ineligible = %d, want 2", result.Ineligible)
	}
}

func TestRunBelowConfidenceGate(t *testing.T) {
	repo := newFakeFlagRepo()
	eng := testEngine(repo)

	// Eligible but weak: rank 20 (20) + velocity 21 (20) + health 60 (15)
	// + no volume (0) = 55 < 70
	in := contracts.TickerInputs{
		TickerID:          1,
		Symbol:            "WEAK",
		TrendRank:         intPtr(20),
		VelocityChangePct: floatPtr(21),
		HealthScore:       floatPtr(60),
	}

	result, err := eng.Run(context.Background(), []contracts.TickerInputs{in})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.BelowConfidence != 1 {
		t.Errorf("BelowConfidence = %d, want 1", result.BelowConfidence)
	}
	if result.Created != 0 {
		t.Errorf("Created = %d, want 0", result.Created)
	}
}

func TestSweepExpired(t *testing.T) {
	repo := newFakeFlagRepo()
	eng := testEngine(repo)
	ctx := context.Background()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	eng.now = func() time.Time { return now }

	old := &contracts.TradingFlag{
		TickerID:  1,
		Symbol:    "OLD",
		Type:      contracts.FlagBuy,
		Status:    contracts.StatusOpen,
		CreatedAt: now.Add(-31 * 24 * time.Hour),
	}
	fresh := &contracts.TradingFlag{
		TickerID:  2,
		Symbol:    "NEW",
		Type:      contracts.FlagBuy,
		Status:    contracts.StatusOpen,
		CreatedAt: now.Add(-29 * 24 * time.Hour),
	}
	oldStored, _ := repo.Create(ctx, old)
	freshStored, _ := repo.Create(ctx, fresh)

	expired, err := eng.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}

	got := repo.flags[oldStored.ID]
	if got.Status != contracts.StatusExpired {
		t.Errorf("old flag status = %s, want EXPIRED", got.Status)
	}
	if got.ClosedAt == nil || !got.ClosedAt.Equal(now) {
		t.Errorf("closed_at = %v, want sweep time %v", got.ClosedAt, now)
	}
	if repo.flags[freshStored.ID].Status != contracts.StatusOpen {
		t.Error("fresh flag must stay OPEN")
	}

	// Idempotent: second sweep finds nothing
	expired, err = eng.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if expired != 0 {
		t.Errorf("second sweep expired = %d, want 0", expired)
	}
}
