package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cypherlabdev/match-analytics-service/pkg/accumulator"
	"github.com/cypherlabdev/match-analytics-service/pkg/analyzer"
	"github.com/cypherlabdev/match-analytics-service/pkg/calibrator"
)

// Config holds all configuration for match-analytics-service
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Oracle      OracleConfig      `mapstructure:"oracle"`
	SportsData  SportsDataConfig  `mapstructure:"sportsdata"`
	Analytics   AnalyticsConfig   `mapstructure:"analytics"`
	Accumulator AccumulatorConfig `mapstructure:"accumulator"`
	Refdata     RefdataConfig     `mapstructure:"refdata"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"` // Topic to consume from (fixture_events)
	GroupID string   `mapstructure:"group_id"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// PostgresConfig holds the durable prediction store configuration
type PostgresConfig struct {
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// OracleConfig holds LLM oracle client configuration
type OracleConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Temperature       float64       `mapstructure:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// SportsDataConfig holds the fixtures/standings/statistics API configuration
type SportsDataConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AnalyticsConfig holds calibrator and analyzer parameters
type AnalyticsConfig struct {
	MinProbability  float64 `mapstructure:"min_probability"`  // probability floor for recommendations
	MinValueGap     float64 `mapstructure:"min_value_gap"`    // value gap floor for recommendations
	KellyMultiplier float64 `mapstructure:"kelly_multiplier"` // 0.5 = half Kelly
	MaxGoals        int     `mapstructure:"max_goals"`        // scoreline grid cap per side
	MidTableRank    int     `mapstructure:"mid_table_rank"`   // league position from which a team is mid-table
}

// AccumulatorConfig holds accumulator builder parameters
type AccumulatorConfig struct {
	DefaultLegs      int     `mapstructure:"default_legs"`
	MinConfidencePct float64 `mapstructure:"min_confidence_pct"`
}

// RefdataConfig holds reference-data overrides
type RefdataConfig struct {
	MidTableRanks map[string]int    `mapstructure:"mid_table_ranks"` // per-league mid-table rank overrides
	LeagueSports  map[string]string `mapstructure:"league_sports"`   // league to sport routing overrides
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// A local .env is picked up when present, e.g. for API keys in dev.
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "fixture_events")
	v.SetDefault("kafka.group_id", "match-analytics")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 6*time.Hour)

	v.SetDefault("postgres.dsn", "host=localhost port=5432 user=postgres password=postgres dbname=match_analytics sslmode=disable")
	v.SetDefault("postgres.auto_migrate", true)

	v.SetDefault("oracle.base_url", "https://api.anthropic.com")
	v.SetDefault("oracle.api_key", "")
	v.SetDefault("oracle.model", "claude-3-5-sonnet-20241022")
	v.SetDefault("oracle.max_tokens", 1024)
	v.SetDefault("oracle.temperature", 0.3)
	v.SetDefault("oracle.timeout", 30*time.Second)
	v.SetDefault("oracle.requests_per_second", 1.0)
	v.SetDefault("oracle.max_retries", 3)

	v.SetDefault("sportsdata.base_url", "http://localhost:8090")
	v.SetDefault("sportsdata.api_key", "")
	v.SetDefault("sportsdata.timeout", 15*time.Second)

	v.SetDefault("analytics.min_probability", 0.55)
	v.SetDefault("analytics.min_value_gap", 0.08)
	v.SetDefault("analytics.kelly_multiplier", 0.5)
	v.SetDefault("analytics.max_goals", 10)
	v.SetDefault("analytics.mid_table_rank", 6)

	v.SetDefault("accumulator.default_legs", 3)
	v.SetDefault("accumulator.min_confidence_pct", 55.0)

	v.SetDefault("refdata.mid_table_ranks", map[string]int{})
	v.SetDefault("refdata.league_sports", map[string]string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvPrefix("MATCH_ANALYTICS")
	v.AutomaticEnv()
	// Replace . with _ for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal to struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// ToAnalyzerParams converts config to analyzer parameters
func (c *AnalyticsConfig) ToAnalyzerParams() analyzer.Params {
	return analyzer.Params{
		MinProbability:  c.MinProbability,
		MinValueGap:     c.MinValueGap,
		KellyMultiplier: c.KellyMultiplier,
	}
}

// ToCalibratorParams converts config to calibrator parameters
func (c *AnalyticsConfig) ToCalibratorParams() calibrator.Params {
	return calibrator.Params{
		MaxGoals:     c.MaxGoals,
		MidTableRank: c.MidTableRank,
	}
}

// ToBuilderParams converts config to accumulator builder parameters
func (c *AccumulatorConfig) ToBuilderParams() accumulator.Params {
	return accumulator.Params{
		DefaultLegs:      c.DefaultLegs,
		MinConfidencePct: c.MinConfidencePct,
	}
}
