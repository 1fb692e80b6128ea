package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// ErrNotFound is returned when no prediction matches the lookup
var ErrNotFound = errors.New("prediction not found")

// PredictionStore persists match predictions in Postgres
type PredictionStore struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// PredictionStoreConfig holds Postgres store configuration
type PredictionStoreConfig struct {
	DSN             string
	AutoMigrate     bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to Postgres and optionally migrates the schema
func Open(config PredictionStoreConfig, logger zerolog.Logger) (*PredictionStore, error) {
	db, err := gorm.Open(postgres.Open(config.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	store := NewPredictionStore(db, logger)

	if config.AutoMigrate {
		if err := db.AutoMigrate(&models.MatchPrediction{}); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		store.logger.Info().Msg("migrated match_predictions schema")
	}

	return store, nil
}

// NewPredictionStore wraps an existing gorm connection
func NewPredictionStore(db *gorm.DB, logger zerolog.Logger) *PredictionStore {
	return &PredictionStore{
		db:     db,
		logger: logger.With().Str("component", "prediction_store").Logger(),
	}
}

// Upsert inserts a prediction, overwriting any earlier row for the same
// match and date
func (s *PredictionStore) Upsert(ctx context.Context, prediction *models.MatchPrediction) error {
	if prediction.ID == uuid.Nil {
		prediction.ID = uuid.New()
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "match_key"}, {Name: "match_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sport", "league", "season", "home_team", "away_team", "kickoff",
			"source", "home_win_pct", "draw_pct", "away_win_pct", "draw_score",
			"predicted_winner", "winner_pct", "tier", "winner_odds",
			"reasoning", "key_factors", "recent_form", "xg_advantage",
			"opponent_injuries", "home_advantage", "rest_days_advantage",
			"market_odds", "fair_odds", "analyses", "updated_at",
		}),
	}).Create(prediction).Error
	if err != nil {
		return fmt.Errorf("failed to upsert prediction: %w", err)
	}

	s.logger.Debug().
		Str("match_key", prediction.MatchKey).
		Str("match_date", prediction.MatchDate).
		Str("source", prediction.Source).
		Msg("upserted prediction")

	return nil
}

// GetByKey retrieves the prediction for one match on one date
func (s *PredictionStore) GetByKey(ctx context.Context, matchKey, matchDate string) (*models.MatchPrediction, error) {
	var prediction models.MatchPrediction
	err := s.db.WithContext(ctx).
		Where("match_key = ? AND match_date = ?", matchKey, matchDate).
		First(&prediction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return &prediction, nil
}

// ListByDate retrieves all predictions for a match date, optionally filtered
// by sport. Results are ordered by kickoff, then by match key for fixtures
// without one.
func (s *PredictionStore) ListByDate(ctx context.Context, matchDate, sport string) ([]*models.MatchPrediction, error) {
	query := s.db.WithContext(ctx).Where("match_date = ?", matchDate)
	if sport != "" {
		query = query.Where("sport = ?", sport)
	}

	var predictions []*models.MatchPrediction
	if err := query.Order("kickoff ASC NULLS LAST, match_key ASC").Find(&predictions).Error; err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	s.logger.Debug().
		Str("match_date", matchDate).
		Str("sport", sport).
		Int("count", len(predictions)).
		Msg("listed predictions by date")

	return predictions, nil
}

// Ping checks the Postgres connection
func (s *PredictionStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the Postgres connection
func (s *PredictionStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
