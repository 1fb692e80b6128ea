package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cypherlabdev/match-analytics-service/internal/cache"
	"github.com/cypherlabdev/match-analytics-service/internal/config"
	httpHandler "github.com/cypherlabdev/match-analytics-service/internal/handler/http"
	"github.com/cypherlabdev/match-analytics-service/internal/messaging"
	"github.com/cypherlabdev/match-analytics-service/internal/metrics"
	"github.com/cypherlabdev/match-analytics-service/internal/oracle"
	"github.com/cypherlabdev/match-analytics-service/internal/refdata"
	"github.com/cypherlabdev/match-analytics-service/internal/service"
	"github.com/cypherlabdev/match-analytics-service/internal/sportsdata"
	"github.com/cypherlabdev/match-analytics-service/internal/store"
	"github.com/cypherlabdev/match-analytics-service/pkg/accumulator"
	"github.com/cypherlabdev/match-analytics-service/pkg/analyzer"
	"github.com/cypherlabdev/match-analytics-service/pkg/calibrator"
)

// Connection pool settings for the prediction store.
const (
	dbMaxIdleConns    = 5
	dbMaxOpenConns    = 20
	dbConnMaxLifetime = 30 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	logger.Info().Msg("starting match-analytics-service")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the durable prediction store
	predictionStore, err := store.Open(
		store.PredictionStoreConfig{
			DSN:             cfg.Postgres.DSN,
			AutoMigrate:     cfg.Postgres.AutoMigrate,
			MaxIdleConns:    dbMaxIdleConns,
			MaxOpenConns:    dbMaxOpenConns,
			ConnMaxLifetime: dbConnMaxLifetime,
		},
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Postgres")
	}
	defer predictionStore.Close()
	logger.Info().Msg("connected to Postgres")

	// Create Redis cache
	redisCache := cache.NewRedisCache(
		cache.RedisCacheConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		},
		logger,
	)
	defer redisCache.Close()

	// Test Redis connection
	if err := redisCache.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// Create the LLM oracle client
	oracleClient := oracle.NewClient(
		oracle.ClientConfig{
			BaseURL:           cfg.Oracle.BaseURL,
			APIKey:            cfg.Oracle.APIKey,
			Model:             cfg.Oracle.Model,
			MaxTokens:         cfg.Oracle.MaxTokens,
			Temperature:       cfg.Oracle.Temperature,
			Timeout:           cfg.Oracle.Timeout,
			RequestsPerSecond: cfg.Oracle.RequestsPerSecond,
			MaxRetries:        cfg.Oracle.MaxRetries,
		},
		logger,
	)

	// Create the sports data client
	sportsClient := sportsdata.NewClient(
		sportsdata.ClientConfig{
			BaseURL: cfg.SportsData.BaseURL,
			APIKey:  cfg.SportsData.APIKey,
			Timeout: cfg.SportsData.Timeout,
		},
		logger,
	)

	// Load reference data
	catalog := refdata.NewCatalog(cfg.Analytics.MidTableRank, cfg.Refdata.MidTableRanks, cfg.Refdata.LeagueSports, logger)

	// Create the analytics engines
	cal := calibrator.New(cfg.Analytics.ToCalibratorParams(), logger)
	ana := analyzer.New(cfg.Analytics.ToAnalyzerParams(), logger)
	builder := accumulator.NewBuilder(cfg.Accumulator.ToBuilderParams(), logger)
	logger.Info().Msg("analytics engines initialized")

	pipelineMetrics := metrics.NewPipelineMetrics()

	// Create service layer
	predictionService := service.NewPredictionService(
		cal,
		ana,
		oracleClient,
		sportsClient,
		predictionStore,
		redisCache,
		catalog,
		pipelineMetrics,
		logger,
	)
	accumulatorService := service.NewAccumulatorService(predictionStore, builder, pipelineMetrics, logger)
	logger.Info().Msg("services initialized")

	// Create Kafka consumer
	consumer := messaging.NewKafkaConsumer(
		messaging.KafkaConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		},
		predictionService,
		logger,
	)
	defer consumer.Close()

	// Start Kafka consumer in goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("Kafka consumer failed")
		}
	}()

	// Initialize HTTP handler
	predictionsHandler := httpHandler.NewPredictionsHandler(predictionService, accumulatorService, logger)
	logger.Info().Msg("HTTP handler initialized")

	// Setup HTTP server routes
	mux := http.NewServeMux()

	// Health and monitoring endpoints
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		readyHandler(w, r, redisCache, predictionStore)
	})
	mux.Handle("/metrics", pipelineMetrics.Handler())

	// Register API routes
	predictionsHandler.RegisterRoutes(mux)
	logger.Info().Msg("API routes registered")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start HTTP server in goroutine
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down gracefully...")

	// Cancel context to stop consumer
	cancel()

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	logger.Info().Msg("shutdown complete")
}

// setupLogger configures the logger based on config
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set format
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return log.Logger.With().Str("service", "match-analytics").Logger()
}

// healthHandler returns 200 if service is running
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readyHandler returns 200 if service is ready to accept traffic
func readyHandler(w http.ResponseWriter, r *http.Request, cache *cache.RedisCache, store *store.PredictionStore) {
	// Check Redis connection
	if err := cache.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Redis unavailable"))
		return
	}

	// Check Postgres connection
	if err := store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Postgres unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
