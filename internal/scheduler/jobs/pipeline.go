package jobs

import (
	"context"
	"fmt"

	"github.com/sentival/backend/internal/pipeline"
	"github.com/sentival/backend/pkg/logger"
)

// PipelineJob runs the full collection and evaluation pipeline hourly
type PipelineJob struct {
	orchestrator *pipeline.Orchestrator
	logger       *logger.Logger
}

// NewPipelineJob creates a new pipeline job
func NewPipelineJob(orch *pipeline.Orchestrator, log *logger.Logger) *PipelineJob {
	return &PipelineJob{
		orchestrator: orch,
		logger:       log,
	}
}

// Name returns the job name
func (j *PipelineJob) Name() string {
	return "pipeline"
}

// Schedule returns the cron schedule (top of every hour)
func (j *PipelineJob) Schedule() string {
	return "0 0 * * * *"
}

// Run executes one pipeline pass
func (j *PipelineJob) Run(ctx context.Context) error {
	result, err := j.orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	// Stage errors are already logged; fail the job only when every
	// stage failed and nothing was produced.
	if result.Discovery == nil && result.Validation == nil && result.Evaluation == nil {
		return fmt.Errorf("pipeline run produced nothing: %d stage errors", len(result.StageErrs))
	}

	return nil
}
