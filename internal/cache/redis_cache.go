package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// RedisCache caches match predictions in Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// RedisCacheConfig holds Redis cache configuration
type RedisCacheConfig struct {
	Addr     string // e.g., "localhost:6379"
	Password string
	DB       int
	TTL      time.Duration // e.g., 6 * time.Hour
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(config RedisCacheConfig, logger zerolog.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisCache{
		client: client,
		ttl:    config.TTL,
		logger: logger.With().Str("component", "redis_cache").Logger(),
	}
}

// Set caches a match prediction
func (c *RedisCache) Set(ctx context.Context, prediction *models.MatchPrediction) error {
	// Create Redis key: prediction:{match_key}:{match_date}
	key := fmt.Sprintf("prediction:%s:%s", prediction.MatchKey, prediction.MatchDate)

	// Serialize to JSON
	data, err := json.Marshal(prediction)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction: %w", err)
	}

	// Set in Redis with TTL
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in Redis: %w", err)
	}

	c.logger.Debug().
		Str("key", key).
		Dur("ttl", c.ttl).
		Msg("cached match prediction")

	return nil
}

// Get retrieves a cached match prediction
func (c *RedisCache) Get(ctx context.Context, matchKey, matchDate string) (*models.MatchPrediction, error) {
	key := fmt.Sprintf("prediction:%s:%s", matchKey, matchDate)

	// Get from Redis
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("prediction not found in cache")
	} else if err != nil {
		return nil, fmt.Errorf("failed to get from Redis: %w", err)
	}

	// Deserialize
	var prediction models.MatchPrediction
	if err := json.Unmarshal(data, &prediction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prediction: %w", err)
	}

	return &prediction, nil
}

// SetBatch caches multiple match predictions
func (c *RedisCache) SetBatch(ctx context.Context, predictions []*models.MatchPrediction) error {
	if len(predictions) == 0 {
		return nil
	}

	// Use pipeline for batch operations
	pipe := c.client.Pipeline()

	for _, prediction := range predictions {
		key := fmt.Sprintf("prediction:%s:%s", prediction.MatchKey, prediction.MatchDate)
		data, err := json.Marshal(prediction)
		if err != nil {
			c.logger.Error().Err(err).Msg("failed to marshal prediction")
			continue
		}
		pipe.Set(ctx, key, data, c.ttl)
	}

	// Execute pipeline
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute pipeline: %w", err)
	}

	c.logger.Info().
		Int("count", len(predictions)).
		Msg("cached batch of match predictions")

	return nil
}

// GetByDate retrieves all cached predictions for a match date
func (c *RedisCache) GetByDate(ctx context.Context, matchDate string) ([]*models.MatchPrediction, error) {
	pattern := fmt.Sprintf("prediction:*:%s", matchDate)

	// Scan for keys matching pattern
	var cursor uint64
	var keys []string

	for {
		var scanKeys []string
		var err error
		scanKeys, cursor, err = c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, scanKeys...)

		if cursor == 0 {
			break
		}
	}

	// Get all values
	predictions := make([]*models.MatchPrediction, 0, len(keys))
	for _, key := range keys {
		data, err := c.client.Get(ctx, key).Bytes()
		if err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to get key")
			continue
		}

		var prediction models.MatchPrediction
		if err := json.Unmarshal(data, &prediction); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to unmarshal prediction")
			continue
		}

		predictions = append(predictions, &prediction)
	}

	return predictions, nil
}

// Ping checks Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
