package sportsdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// ErrNotFound is returned when the provider has no data for the request.
// Absence is expected for cup fixtures and fresh match keys, so it does not
// count against the circuit breaker.
var ErrNotFound = errors.New("sports data not found")

// Client fetches fixtures, standings, and match statistics from the
// sports data provider
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker
	logger     zerolog.Logger
}

// ClientConfig holds sports data client configuration
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Standing is one row of a league table
type Standing struct {
	Team     string `json:"team"`
	Position int    `json:"position"`
}

type fixturesResponse struct {
	Fixtures []models.FixtureRecord `json:"fixtures"`
	Count    int                    `json:"count"`
}

type standingsResponse struct {
	League    string     `json:"league"`
	Season    string     `json:"season"`
	Standings []Standing `json:"standings"`
}

// NewClient creates a new sports data client
func NewClient(config ClientConfig, logger zerolog.Logger) *Client {
	clientLogger := logger.With().Str("component", "sportsdata_client").Logger()

	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sportsdata-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			clientLogger.Warn().
				Str("circuit", name).
				Str("from_state", from.String()).
				Str("to_state", to.String()).
				Msg("sports data circuit breaker state changed")
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		breaker:    breaker,
		logger:     clientLogger,
	}
}

// FixturesByDate fetches fixtures for a date (YYYY-MM-DD), optionally
// filtered by sport
func (c *Client) FixturesByDate(ctx context.Context, date, sport string) ([]models.FixtureRecord, error) {
	query := url.Values{"date": {date}}
	if sport != "" {
		query.Set("sport", sport)
	}

	var response fixturesResponse
	if err := c.get(ctx, "/api/v1/fixtures", query, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("date", date).
		Str("sport", sport).
		Int("count", len(response.Fixtures)).
		Msg("fetched fixtures")

	return response.Fixtures, nil
}

// Standings fetches the league table for a league and season
func (c *Client) Standings(ctx context.Context, league, season string) ([]Standing, error) {
	query := url.Values{"league": {league}}
	if season != "" {
		query.Set("season", season)
	}

	var response standingsResponse
	if err := c.get(ctx, "/api/v1/standings", query, &response); err != nil {
		return nil, err
	}

	return response.Standings, nil
}

// MatchStats fetches pre-match statistics for one fixture
func (c *Client) MatchStats(ctx context.Context, matchKey string) (*models.TeamMatchStats, error) {
	query := url.Values{"match_key": {matchKey}}

	var stats models.TeamMatchStats
	if err := c.get(ctx, "/api/v1/stats", query, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// get makes a GET request through the circuit breaker and decodes the body.
// A 404 resolves to ErrNotFound without counting as a breaker failure.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			io.Copy(io.Discard, resp.Body)
			return nil, nil
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("sports data API error: status=%d, body=%s", resp.StatusCode, string(body))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return body, nil
	})
	if err != nil {
		return err
	}
	if result == nil {
		return ErrNotFound
	}

	if err := json.Unmarshal(result.([]byte), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Healthy reports whether the circuit breaker is closed
func (c *Client) Healthy() bool {
	return c.breaker.State() == gobreaker.StateClosed
}
