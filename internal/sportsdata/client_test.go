package sportsdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// setupTestClient creates a client pointed at a test server
func setupTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "stats-key",
	}, zerolog.Nop())
}

// TestFixturesByDate_Success tests fetching fixtures for a date
func TestFixturesByDate_Success(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/fixtures", r.URL.Path)
		assert.Equal(t, "2025-01-15", r.URL.Query().Get("date"))
		assert.Equal(t, "football", r.URL.Query().Get("sport"))
		assert.Equal(t, "stats-key", r.Header.Get("X-API-Key"))

		json.NewEncoder(w).Encode(fixturesResponse{
			Fixtures: []models.FixtureRecord{
				{
					Fixture: models.Fixture{
						MatchKey: "arsenal_vs_chelsea",
						Sport:    "football",
						HomeTeam: "Arsenal",
						AwayTeam: "Chelsea",
						Kickoff:  "2025-01-15T19:00:00Z",
					},
				},
			},
			Count: 1,
		})
	})

	fixtures, err := client.FixturesByDate(context.Background(), "2025-01-15", "football")

	require.NoError(t, err)
	require.Equal(t, 1, len(fixtures))
	assert.Equal(t, "arsenal_vs_chelsea", fixtures[0].Fixture.MatchKey)
	assert.Equal(t, "Arsenal", fixtures[0].Fixture.HomeTeam)
}

// TestFixturesByDate_NoSportFilter tests omitting the sport query parameter
func TestFixturesByDate_NoSportFilter(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("sport"))
		json.NewEncoder(w).Encode(fixturesResponse{})
	})

	fixtures, err := client.FixturesByDate(context.Background(), "2025-01-15", "")

	require.NoError(t, err)
	assert.Equal(t, 0, len(fixtures))
}

// TestStandings_Success tests fetching a league table
func TestStandings_Success(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/standings", r.URL.Path)
		assert.Equal(t, "premier_league", r.URL.Query().Get("league"))
		assert.Equal(t, "2024-25", r.URL.Query().Get("season"))

		json.NewEncoder(w).Encode(standingsResponse{
			League: "premier_league",
			Season: "2024-25",
			Standings: []Standing{
				{Team: "Arsenal", Position: 2},
				{Team: "Chelsea", Position: 7},
			},
		})
	})

	standings, err := client.Standings(context.Background(), "premier_league", "2024-25")

	require.NoError(t, err)
	require.Equal(t, 2, len(standings))
	assert.Equal(t, "Arsenal", standings[0].Team)
	assert.Equal(t, 2, standings[0].Position)
}

// TestMatchStats_Success tests fetching per-fixture statistics
func TestMatchStats_Success(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stats", r.URL.Path)
		assert.Equal(t, "arsenal_vs_chelsea", r.URL.Query().Get("match_key"))

		json.NewEncoder(w).Encode(models.TeamMatchStats{
			MatchKey:           "arsenal_vs_chelsea",
			XGHome:             1.8,
			XGAway:             1.1,
			PossessionHome:     58,
			PossessionAway:     42,
			ShotsOnTargetHome:  6,
			ShotsOnTargetAway:  3,
			HeadToHeadDrawRate: 0.25,
		})
	})

	stats, err := client.MatchStats(context.Background(), "arsenal_vs_chelsea")

	require.NoError(t, err)
	assert.Equal(t, "arsenal_vs_chelsea", stats.MatchKey)
	assert.Equal(t, 1.8, stats.XGHome)
	assert.Equal(t, 0.25, stats.HeadToHeadDrawRate)
}

// TestMatchStats_NotFound tests that a 404 maps to ErrNotFound
func TestMatchStats_NotFound(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	stats, err := client.MatchStats(context.Background(), "unknown_match")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, stats)
}

// TestGet_ServerError tests that provider errors surface with status and body
func TestGet_ServerError(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream down"))
	})

	_, err := client.FixturesByDate(context.Background(), "2025-01-15", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
}

// TestGet_MalformedBody tests an undecodable response body
func TestGet_MalformedBody(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.FixturesByDate(context.Background(), "2025-01-15", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

// TestClient_BreakerOpensOnRepeatedFailures tests fail-fast after provider outage
func TestClient_BreakerOpensOnRepeatedFailures(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.True(t, client.Healthy())

	for i := 0; i < 4; i++ {
		_, err := client.FixturesByDate(context.Background(), "2025-01-15", "")
		assert.Error(t, err)
	}

	assert.False(t, client.Healthy())
}

// TestClient_NotFoundDoesNotTripBreaker tests that absence is not an outage
func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 6; i++ {
		_, err := client.MatchStats(context.Background(), "unknown_match")
		assert.ErrorIs(t, err, ErrNotFound)
	}

	assert.True(t, client.Healthy())
}
