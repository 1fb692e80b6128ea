package service

import (
	"context"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// Cache is an interface that abstracts prediction cache operations
// This allows for easier testing and mocking
type Cache interface {
	Set(ctx context.Context, prediction *models.MatchPrediction) error
	Get(ctx context.Context, matchKey, matchDate string) (*models.MatchPrediction, error)
	SetBatch(ctx context.Context, predictions []*models.MatchPrediction) error
	GetByDate(ctx context.Context, matchDate string) ([]*models.MatchPrediction, error)
	Ping(ctx context.Context) error
	Close() error
}
