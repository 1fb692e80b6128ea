package service

import (
	"context"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// FixtureProcessor is an interface that abstracts the fixture pipeline
// This allows the Kafka consumer to be tested against a mock
type FixtureProcessor interface {
	ProcessBatch(ctx context.Context, envelope models.FixtureEnvelope) ([]*models.MatchPrediction, error)
}
