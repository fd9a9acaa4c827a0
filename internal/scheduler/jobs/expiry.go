package jobs

import (
	"context"
	"fmt"

	"github.com/sentival/backend/internal/engine"
	"github.com/sentival/backend/pkg/logger"
)

// ExpiryJob sweeps stale open flags hourly
type ExpiryJob struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewExpiryJob creates a new expiry sweep job
func NewExpiryJob(eng *engine.Engine, log *logger.Logger) *ExpiryJob {
	return &ExpiryJob{
		engine: eng,
		logger: log,
	}
}

// Name returns the job name
func (j *ExpiryJob) Name() string {
	return "flag_expiry"
}

// Schedule returns the cron schedule (hourly at minute 30, offset from
// the pipeline run at minute 0)
func (j *ExpiryJob) Schedule() string {
	return "0 30 * * * *"
}

// Run executes the expiry sweep
func (j *ExpiryJob) Run(ctx context.Context) error {
	expired, err := j.engine.SweepExpired(ctx)
	if err != nil {
		return fmt.Errorf("expiry sweep: %w", err)
	}

	j.logger.WithField("expired", expired).Info("Expiry sweep completed")
	return nil
}
