package service

import (
	"context"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// Oracle is an interface that abstracts the LLM prediction client
// This allows for easier testing and mocking
type Oracle interface {
	Predict(ctx context.Context, record models.FixtureRecord) (*models.OraclePrediction, error)
	Healthy() bool
}
