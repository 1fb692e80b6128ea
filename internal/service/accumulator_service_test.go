package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/match-analytics-service/internal/metrics"
	"github.com/cypherlabdev/match-analytics-service/internal/mocks"
	"github.com/cypherlabdev/match-analytics-service/internal/models"
	"github.com/cypherlabdev/match-analytics-service/pkg/accumulator"
)

// testAccumulatorServiceSetup is a helper struct to hold test dependencies
type testAccumulatorServiceSetup struct {
	service   *AccumulatorService
	mockStore *mocks.MockStore
	ctrl      *gomock.Controller
}

// setupTestAccumulatorService creates a service with a mocked store and a
// real builder.
func setupTestAccumulatorService(t *testing.T) *testAccumulatorServiceSetup {
	ctrl := gomock.NewController(t)

	mockStore := mocks.NewMockStore(ctrl)
	logger := zerolog.Nop()

	svc := NewAccumulatorService(
		mockStore,
		accumulator.NewBuilder(accumulator.DefaultParams(), logger),
		metrics.NewPipelineMetrics(),
		logger,
	)

	return &testAccumulatorServiceSetup{
		service:   svc,
		mockStore: mockStore,
		ctrl:      ctrl,
	}
}

// cleanup cleans up test resources
func (s *testAccumulatorServiceSetup) cleanup() {
	s.ctrl.Finish()
}

// accumulatorPool returns stored predictions across all three tiers.
func accumulatorPool() []*models.MatchPrediction {
	return []*models.MatchPrediction{
		{MatchKey: "a_vs_b", Sport: "football", PredictedWinner: "A", WinnerPct: 78, WinnerOdds: 1.5},
		{MatchKey: "c_vs_d", Sport: "football", PredictedWinner: "C", WinnerPct: 72, WinnerOdds: 1.8},
		{MatchKey: "e_vs_f", Sport: "cricket", PredictedWinner: "E", WinnerPct: 60, WinnerOdds: 2.2},
		{MatchKey: "g_vs_h", Sport: "football", PredictedWinner: "G", WinnerPct: 40, WinnerOdds: 3.0},
	}
}

// TestBuildAccumulator tests assembling a full accumulator from the day's pool.
func TestBuildAccumulator(t *testing.T) {
	setup := setupTestAccumulatorService(t)
	defer setup.cleanup()

	setup.mockStore.EXPECT().
		ListByDate(gomock.Any(), "2026-03-14", "").
		Return(accumulatorPool(), nil)

	acc, err := setup.service.BuildAccumulator(context.Background(), "2026-03-14", accumulator.BuildOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, acc.TotalLegs)
	assert.Equal(t, 2, acc.SafeCount)
	assert.Equal(t, 1, acc.MediumCount)
	assert.Equal(t, 1.0, acc.StakePct)
	assert.True(t, acc.CombinedOddsValid)
	assert.InDelta(t, 1.5*1.8*2.2, acc.CombinedOdds, 1e-9)

	// The Value-tier pick never makes the slip.
	for _, leg := range acc.Legs {
		assert.NotEqual(t, "g_vs_h", leg.Pick.MatchKey)
	}
}

// TestBuildAccumulator_SportFilter tests that the sport restriction reaches
// both the store query and the builder.
func TestBuildAccumulator_SportFilter(t *testing.T) {
	setup := setupTestAccumulatorService(t)
	defer setup.cleanup()

	setup.mockStore.EXPECT().
		ListByDate(gomock.Any(), "2026-03-14", "cricket").
		Return([]*models.MatchPrediction{
			{MatchKey: "e_vs_f", Sport: "cricket", PredictedWinner: "E", WinnerPct: 60, WinnerOdds: 2.2},
		}, nil)

	acc, err := setup.service.BuildAccumulator(context.Background(), "2026-03-14",
		accumulator.BuildOptions{Legs: 1, Sport: "cricket"})

	require.NoError(t, err)
	assert.Equal(t, 1, acc.TotalLegs)
	assert.Equal(t, "e_vs_f", acc.Legs[0].Pick.MatchKey)
}

// TestBuildAccumulator_ShortPool tests that a thin pool yields a shorter
// accumulator with a warning instead of an error.
func TestBuildAccumulator_ShortPool(t *testing.T) {
	setup := setupTestAccumulatorService(t)
	defer setup.cleanup()

	setup.mockStore.EXPECT().
		ListByDate(gomock.Any(), "2026-03-14", "").
		Return(accumulatorPool()[:2], nil)

	acc, err := setup.service.BuildAccumulator(context.Background(), "2026-03-14",
		accumulator.BuildOptions{Legs: 4})

	require.NoError(t, err)
	assert.Equal(t, 2, acc.TotalLegs)
	require.Len(t, acc.Warnings, 1)
	assert.Contains(t, acc.Warnings[0], "requested 4 legs")
}

// TestBuildAccumulator_EmptyPool tests a day with nothing stored.
func TestBuildAccumulator_EmptyPool(t *testing.T) {
	setup := setupTestAccumulatorService(t)
	defer setup.cleanup()

	setup.mockStore.EXPECT().
		ListByDate(gomock.Any(), "2026-03-15", "").
		Return([]*models.MatchPrediction{}, nil)

	acc, err := setup.service.BuildAccumulator(context.Background(), "2026-03-15", accumulator.BuildOptions{})

	require.NoError(t, err)
	assert.Zero(t, acc.TotalLegs)
	assert.Zero(t, acc.StakePct)
	assert.NotEmpty(t, acc.Warnings)
}

// TestBuildAccumulator_StoreError tests that a store failure surfaces.
func TestBuildAccumulator_StoreError(t *testing.T) {
	setup := setupTestAccumulatorService(t)
	defer setup.cleanup()

	setup.mockStore.EXPECT().
		ListByDate(gomock.Any(), "2026-03-14", "").
		Return(nil, errors.New("connection refused"))

	_, err := setup.service.BuildAccumulator(context.Background(), "2026-03-14", accumulator.BuildOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load prediction pool")
}
