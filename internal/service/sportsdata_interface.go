package service

import (
	"context"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
	"github.com/cypherlabdev/match-analytics-service/internal/sportsdata"
)

// SportsData is an interface that abstracts the fixtures/standings/statistics provider
// This allows for easier testing and mocking
type SportsData interface {
	FixturesByDate(ctx context.Context, date, sport string) ([]models.FixtureRecord, error)
	Standings(ctx context.Context, league, season string) ([]sportsdata.Standing, error)
	MatchStats(ctx context.Context, matchKey string) (*models.TeamMatchStats, error)
	Healthy() bool
}
