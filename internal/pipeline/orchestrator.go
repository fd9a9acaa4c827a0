package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sentival/backend/internal/data"
	"github.com/sentival/backend/internal/discovery"
	"github.com/sentival/backend/internal/engine"
	"github.com/sentival/backend/internal/validator"
	"github.com/sentival/backend/pkg/logger"
)

// Orchestrator runs the three pipeline stages in order:
// discovery -> validation -> flag evaluation
// A failed stage is logged and the remaining stages still run on
// whatever data is already stored.
type Orchestrator struct {
	discovery  *discovery.Discovery
	validator  *validator.Validator
	aggregator *data.Aggregator
	engine     *engine.Engine
	logger     *logger.Logger
}

func New(
	disc *discovery.Discovery,
	val *validator.Validator,
	agg *data.Aggregator,
	eng *engine.Engine,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		discovery:  disc,
		validator:  val,
		aggregator: agg,
		engine:     eng,
		logger:     log,
	}
}

// Result collects the per-stage outcomes of one pipeline run
type Result struct {
	Discovery  *discovery.Result
	Validation *validator.Result
	Evaluation *engine.RunResult
	Duration   time.Duration
	StageErrs  []error
}

// Run executes a full pipeline pass
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	o.logger.Info("Pipeline run started")

	discResult, err := o.discovery.Run(ctx)
	if err != nil {
		result.StageErrs = append(result.StageErrs, fmt.Errorf("discovery: %w", err))
		o.logger.WithError(err).Error("Discovery stage failed, continuing with stored data")
	} else {
		result.Discovery = discResult
	}

	valResult, err := o.validator.Run(ctx)
	if err != nil {
		result.StageErrs = append(result.StageErrs, fmt.Errorf("validation: %w", err))
		o.logger.WithError(err).Error("Validation stage failed, continuing with stored data")
	} else {
		result.Validation = valResult
	}

	inputs, err := o.aggregator.Collect(ctx)
	if err != nil {
		result.StageErrs = append(result.StageErrs, fmt.Errorf("aggregation: %w", err))
		o.logger.WithError(err).Error("Input aggregation failed, skipping evaluation")
	} else {
		evalResult, err := o.engine.Run(ctx, inputs)
		if err != nil {
			result.StageErrs = append(result.StageErrs, fmt.Errorf("evaluation: %w", err))
			o.logger.WithError(err).Error("Evaluation stage failed")
		} else {
			result.Evaluation = evalResult
		}
	}

	result.Duration = time.Since(start)

	o.logger.WithFields(map[string]interface{}{
		"duration":     result.Duration.String(),
		"stage_errors": len(result.StageErrs),
	}).Info("Pipeline run completed")

	return result, nil
}

// Sweep expires stale open flags
func (o *Orchestrator) Sweep(ctx context.Context) (int, error) {
	return o.engine.SweepExpired(ctx)
}
