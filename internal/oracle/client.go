package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// Client calls an Anthropic-style messages API for match predictions.
// The oracle is treated as an opaque collaborator: one prompt in, one
// strict-JSON verdict out.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	maxRetries  int
	backoff     time.Duration
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	logger      zerolog.Logger
}

// ClientConfig holds oracle client configuration
type ClientConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	MaxTokens         int
	Temperature       float64
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
}

// message wire types for the messages API
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      apiUsage       `json:"usage"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewClient creates a new oracle client with rate limiting and a circuit breaker
func NewClient(config ClientConfig, logger zerolog.Logger) *Client {
	clientLogger := logger.With().Str("component", "oracle_client").Logger()

	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 1024
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 1.0
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "oracle-api",
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
				Msg("oracle circuit breaker state changed")
		},
	})

	return &Client{
		httpClient:  &http.Client{Timeout: config.Timeout},
		apiKey:      config.APIKey,
		baseURL:     strings.TrimSuffix(config.BaseURL, "/"),
		model:       config.Model,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		maxRetries:  config.MaxRetries,
		backoff:     time.Second,
		limiter:     rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		breaker:     breaker,
		logger:      clientLogger,
	}
}

// Predict asks the oracle for a verdict on one fixture
func (c *Client) Predict(ctx context.Context, record models.FixtureRecord) (*models.OraclePrediction, error) {
	raw, err := c.Complete(ctx, systemPrompt, buildPrompt(record))
	if err != nil {
		return nil, err
	}

	prediction, err := ParsePrediction(raw, record.Fixture.HomeTeam, record.Fixture.AwayTeam)
	if err != nil {
		return nil, fmt.Errorf("failed to parse oracle response: %w", err)
	}

	c.logger.Debug().
		Str("match_key", record.Fixture.MatchKey).
		Str("predicted_winner", prediction.PredictedWinner).
		Float64("home_win_pct", prediction.HomeWinPct).
		Float64("away_win_pct", prediction.AwayWinPct).
		Float64("draw_pct", prediction.DrawPct).
		Msg("oracle prediction parsed")

	return prediction, nil
}

// Complete sends a single prompt through the rate limiter and circuit breaker
// and returns the concatenated text content of the response
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	request := messagesRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		System:      system,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, request)
	})
	if err != nil {
		return "", fmt.Errorf("oracle request failed: %w", err)
	}

	response := result.(*messagesResponse)

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("oracle returned no text content")
	}

	c.logger.Debug().
		Int("input_tokens", response.Usage.InputTokens).
		Int("output_tokens", response.Usage.OutputTokens).
		Str("stop_reason", response.StopReason).
		Msg("oracle completion received")

	return text.String(), nil
}

// send handles the HTTP request with retries and exponential backoff
func (c *Client) send(ctx context.Context, request messagesRequest) (*messagesResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(1<<uint(attempt-1))):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(requestBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var response messagesResponse
			err := json.NewDecoder(resp.Body).Decode(&response)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to decode response: %w", err)
			}
			return &response, nil
		}

		var errResp apiError
		decodeErr := json.NewDecoder(resp.Body).Decode(&errResp)
		resp.Body.Close()
		if decodeErr != nil {
			lastErr = fmt.Errorf("oracle request failed with status %d", resp.StatusCode)
			continue
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("invalid oracle credentials: %s", errResp.Message)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("bad oracle request: %s", errResp.Message)
		case http.StatusTooManyRequests:
			lastErr = fmt.Errorf("oracle rate limit exceeded: %s", errResp.Message)
		default:
			lastErr = fmt.Errorf("oracle error (status %d): %s", resp.StatusCode, errResp.Message)
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

// Healthy reports whether the circuit breaker is closed
func (c *Client) Healthy() bool {
	return c.breaker.State() == gobreaker.StateClosed
}
