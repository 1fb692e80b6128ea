package service

import (
	"context"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// Store is an interface that abstracts the durable prediction store
// This allows for easier testing and mocking
type Store interface {
	Upsert(ctx context.Context, prediction *models.MatchPrediction) error
	GetByKey(ctx context.Context, matchKey, matchDate string) (*models.MatchPrediction, error)
	ListByDate(ctx context.Context, matchDate, sport string) ([]*models.MatchPrediction, error)
	Ping(ctx context.Context) error
	Close() error
}
