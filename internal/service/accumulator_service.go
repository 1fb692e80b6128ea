package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/match-analytics-service/internal/metrics"
	"github.com/cypherlabdev/match-analytics-service/internal/models"
	"github.com/cypherlabdev/match-analytics-service/pkg/accumulator"
)

// AccumulatorService assembles tiered accumulators from stored predictions.
type AccumulatorService struct {
	store   Store
	builder *accumulator.Builder
	metrics *metrics.PipelineMetrics
	logger  zerolog.Logger
}

// NewAccumulatorService creates a new accumulator service
func NewAccumulatorService(
	predictionStore Store,
	builder *accumulator.Builder,
	pipelineMetrics *metrics.PipelineMetrics,
	logger zerolog.Logger,
) *AccumulatorService {
	return &AccumulatorService{
		store:   predictionStore,
		builder: builder,
		metrics: pipelineMetrics,
		logger:  logger.With().Str("component", "accumulator_service").Logger(),
	}
}

// BuildAccumulator builds an accumulator from the day's prediction pool.
func (s *AccumulatorService) BuildAccumulator(ctx context.Context, matchDate string, opts accumulator.BuildOptions) (models.Accumulator, error) {
	predictions, err := s.store.ListByDate(ctx, matchDate, opts.Sport)
	if err != nil {
		s.metrics.RecordAccumulator("error", 0)
		return models.Accumulator{}, fmt.Errorf("failed to load prediction pool: %w", err)
	}

	picks := make([]models.Pick, 0, len(predictions))
	for _, prediction := range predictions {
		picks = append(picks, prediction.ToPick())
	}

	acc := s.builder.Build(picks, opts)
	s.metrics.RecordAccumulator(accumulatorStatus(acc), acc.TotalLegs)

	s.logger.Info().
		Str("match_date", matchDate).
		Int("pool", len(picks)).
		Int("legs", acc.TotalLegs).
		Float64("stake_pct", acc.StakePct).
		Msg("accumulator built")

	return acc, nil
}

// accumulatorStatus buckets a build result for metrics.
func accumulatorStatus(acc models.Accumulator) string {
	switch {
	case acc.TotalLegs == 0:
		return "empty"
	case acc.TotalLegs < acc.RequestedLegs:
		return "short"
	default:
		return "ok"
	}
}
