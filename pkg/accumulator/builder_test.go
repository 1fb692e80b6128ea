package accumulator

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

var testBuildTime = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// setupTestBuilder creates a builder with a frozen clock
func setupTestBuilder() *Builder {
	b := NewBuilder(DefaultParams(), zerolog.Nop())
	b.now = func() time.Time { return testBuildTime }
	return b
}

// footballPick builds a minimal eligible pick
func footballPick(winner string, pct, odds float64) models.Pick {
	return models.Pick{
		MatchKey:          strings.ToLower(winner),
		Sport:             "football",
		Winner:            winner,
		WinProbabilityPct: pct,
		Odds:              odds,
	}
}

// TestNewBuilder tests parameter defaulting
func TestNewBuilder(t *testing.T) {
	b := NewBuilder(Params{}, zerolog.Nop())
	assert.Equal(t, DefaultLegs, b.params.DefaultLegs)
	assert.Equal(t, models.MediumMinPct, b.params.MinConfidencePct)
	assert.NotNil(t, b.now)
}

// TestBuild_SafeFirstDescending tests selection order from a mixed pool
func TestBuild_SafeFirstDescending(t *testing.T) {
	b := setupTestBuilder()

	// Jumbled input order; the builder must pick 90, 85, 72.
	pool := []models.Pick{
		footballPick("Lyon", 60, 1.55),
		footballPick("Arsenal", 90, 1.30),
		footballPick("Derby", 50, 2.80),
		footballPick("City", 85, 1.40),
		footballPick("Villa", 72, 1.85),
	}

	acc := b.Build(pool, BuildOptions{Legs: 3})

	require.Equal(t, 3, acc.TotalLegs)
	assert.Equal(t, "Arsenal", acc.Legs[0].Pick.Winner)
	assert.Equal(t, "City", acc.Legs[1].Pick.Winner)
	assert.Equal(t, "Villa", acc.Legs[2].Pick.Winner)
	assert.Equal(t, 3, acc.SafeCount)
	assert.Equal(t, 0, acc.MediumCount)
	assert.InDelta(t, 2.0, acc.StakePct, 1e-9)
	assert.Empty(t, acc.Warnings)
}

// TestBuild_MediumFallback tests the short-pool fallback composition
func TestBuild_MediumFallback(t *testing.T) {
	b := setupTestBuilder()

	pool := []models.Pick{
		footballPick("Villa", 72, 1.85),
		footballPick("Leeds", 58, 2.10),
	}

	acc := b.Build(pool, BuildOptions{Legs: 3})

	assert.Equal(t, 3, acc.RequestedLegs)
	assert.Equal(t, 2, acc.TotalLegs)
	assert.Equal(t, 1, acc.SafeCount)
	assert.Equal(t, 1, acc.MediumCount)
	assert.InDelta(t, 1.0, acc.StakePct, 1e-9)
	require.Len(t, acc.Warnings, 1)
	assert.Equal(t, "requested 3 legs, only 2 eligible picks", acc.Warnings[0])
}

// TestBuild_ValueNeverSelected tests the hard 55% floor
func TestBuild_ValueNeverSelected(t *testing.T) {
	b := setupTestBuilder()

	pool := []models.Pick{
		footballPick("Arsenal", 90, 1.30),
		footballPick("Derby", 54.9, 2.80),
		footballPick("Barnsley", 40, 3.50),
	}

	// Even an explicitly lowered bar cannot admit Value-tier picks.
	acc := b.Build(pool, BuildOptions{Legs: 3, MinConfidencePct: 30})

	assert.Equal(t, 1, acc.TotalLegs)
	assert.Equal(t, "Arsenal", acc.Legs[0].Pick.Winner)
}

// TestBuild_MinConfidenceRaised tests raising the Medium bar
func TestBuild_MinConfidenceRaised(t *testing.T) {
	b := setupTestBuilder()

	pool := []models.Pick{
		footballPick("Villa", 66, 1.95),
		footballPick("Leeds", 60, 2.10),
		footballPick("Stoke", 58, 2.30),
	}

	acc := b.Build(pool, BuildOptions{Legs: 3, MinConfidencePct: 65})

	require.Equal(t, 1, acc.TotalLegs)
	assert.Equal(t, "Villa", acc.Legs[0].Pick.Winner)
}

// TestBuild_SportFilter tests the case-insensitive sport filter
func TestBuild_SportFilter(t *testing.T) {
	b := setupTestBuilder()

	cricket := footballPick("Mumbai Indians", 78, 1.65)
	cricket.Sport = "cricket"
	pool := []models.Pick{
		footballPick("Arsenal", 90, 1.30),
		cricket,
	}

	acc := b.Build(pool, BuildOptions{Legs: 3, Sport: "Cricket"})

	require.Equal(t, 1, acc.TotalLegs)
	assert.Equal(t, "Mumbai Indians", acc.Legs[0].Pick.Winner)
}

// TestBuild_TieBreakStable tests that equal probabilities keep input order
func TestBuild_TieBreakStable(t *testing.T) {
	b := setupTestBuilder()

	pool := []models.Pick{
		footballPick("First", 72, 1.80),
		footballPick("Second", 72, 1.90),
	}

	acc := b.Build(pool, BuildOptions{Legs: 2})

	require.Equal(t, 2, acc.TotalLegs)
	assert.Equal(t, "First", acc.Legs[0].Pick.Winner)
	assert.Equal(t, "Second", acc.Legs[1].Pick.Winner)
}

// TestBuild_StakeSteps tests every band of the stake step function
func TestBuild_StakeSteps(t *testing.T) {
	tests := []struct {
		name     string
		pcts     []float64
		legs     int
		expected float64
	}{
		{"All Safe", []float64{90, 85}, 2, 2.0},
		{"Three quarters Safe", []float64{90, 85, 72, 60}, 4, 1.5},
		{"Two thirds Safe", []float64{90, 85, 60}, 3, 1.0},
		{"Half Safe", []float64{72, 58}, 2, 1.0},
		{"No Safe", []float64{60, 58}, 2, 0.5},
		{"Empty", nil, 3, 0.0},
	}

	b := setupTestBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pool []models.Pick
			for i, pct := range tt.pcts {
				pool = append(pool, footballPick(strings.Repeat("x", i+1), pct, 1.80))
			}
			acc := b.Build(pool, BuildOptions{Legs: tt.legs})
			assert.InDelta(t, tt.expected, acc.StakePct, 1e-9)
		})
	}
}

// TestBuild_CombinedOdds tests the all-or-nothing combined odds product
func TestBuild_CombinedOdds(t *testing.T) {
	b := setupTestBuilder()

	pool := []models.Pick{
		footballPick("Arsenal", 90, 1.65),
		footballPick("City", 85, 1.72),
		footballPick("Villa", 72, 2.10),
	}

	acc := b.Build(pool, BuildOptions{Legs: 3})

	require.True(t, acc.CombinedOddsValid)
	assert.InDelta(t, 1.65*1.72*2.10, acc.CombinedOdds, 1e-9)
	assert.InDelta(t, 0.90*0.85*0.72, acc.CombinedProbability, 1e-9)
}

// TestBuild_CombinedOddsAbsent tests that one missing quote voids the product
func TestBuild_CombinedOddsAbsent(t *testing.T) {
	b := setupTestBuilder()

	pool := []models.Pick{
		footballPick("Arsenal", 90, 1.65),
		footballPick("City", 85, 0), // no quote
	}

	acc := b.Build(pool, BuildOptions{Legs: 2})

	assert.False(t, acc.CombinedOddsValid)
	assert.Zero(t, acc.CombinedOdds)
	// Probability is always computable.
	assert.InDelta(t, 0.90*0.85, acc.CombinedProbability, 1e-9)
}

// TestBuild_InvalidProbabilitySkipped tests that out-of-range picks are dropped
func TestBuild_InvalidProbabilitySkipped(t *testing.T) {
	b := setupTestBuilder()

	pool := []models.Pick{
		footballPick("Arsenal", 90, 1.30),
		footballPick("Glitch", 850, 1.10),
	}

	acc := b.Build(pool, BuildOptions{Legs: 2})

	assert.Equal(t, 1, acc.TotalLegs)
	require.NotEmpty(t, acc.Warnings)
	assert.Contains(t, acc.Warnings[0], "out of range")
}

// TestBuild_PlaceholderFields tests degradation of missing display fields
func TestBuild_PlaceholderFields(t *testing.T) {
	b := setupTestBuilder()

	pool := []models.Pick{{Sport: "football", WinProbabilityPct: 72}}

	acc := b.Build(pool, BuildOptions{Legs: 1})

	require.Equal(t, 1, acc.TotalLegs)
	leg := acc.Legs[0]
	assert.Equal(t, models.PlaceholderWinner, leg.Pick.Winner)
	assert.Equal(t, models.PlaceholderReasoning, leg.Pick.Reasoning)
	assert.Equal(t, models.PlaceholderKickoff, leg.KickoffDisplay)
	assert.Equal(t, "reliable pick", leg.Justification)
}

// TestBuild_GeneratedAt tests the injectable clock
func TestBuild_GeneratedAt(t *testing.T) {
	b := setupTestBuilder()

	acc := b.Build(nil, BuildOptions{})

	assert.Equal(t, testBuildTime, acc.GeneratedAt)
	assert.Equal(t, DefaultLegs, acc.RequestedLegs)
}

// TestJustification_KeyFactorsFirst tests the fragment priority order
func TestJustification_KeyFactorsFirst(t *testing.T) {
	p := footballPick("Arsenal", 90, 1.30)
	p.KeyFactors = []string{"unbeaten in 12", "top scorer fit", "weak away defence", "extra factor"}
	p.RecentForm = "WWWWW"

	assert.Equal(t, "unbeaten in 12, top scorer fit, weak away defence", justification(p))
}

// TestJustification_MixedSignals tests filling from lower-priority signals
func TestJustification_MixedSignals(t *testing.T) {
	p := footballPick("Villa", 72, 1.85)
	p.KeyFactors = []string{"set-piece threat"}
	p.RecentForm = "WWDLW"
	p.XGAdvantage = 0.4
	p.HomeAdvantage = true

	assert.Equal(t, "set-piece threat, recent form WWDLW, xG advantage +0.4", justification(p))
}

// TestJustification_FlagSignals tests the boolean and rest-day fragments
func TestJustification_FlagSignals(t *testing.T) {
	p := footballPick("Leeds", 60, 2.10)
	p.OpponentInjuries = true
	p.HomeAdvantage = true
	p.RestDaysAdvantage = 2

	assert.Equal(t, "opponent injury concerns, home advantage, 2 extra rest days", justification(p))
}

// TestJustification_Fallback tests the probability-band fallback phrases
func TestJustification_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		pct      float64
		expected string
	}{
		{"Strong favourite band", 85, "strong favourite"},
		{"Strong favourite boundary", 80, "strong favourite"},
		{"Reliable band", 72, "reliable pick"},
		{"Reliable boundary", 70, "reliable pick"},
		{"Value phrase", 60, "good value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, justification(footballPick("X", tt.pct, 1.50)))
		})
	}
}

// TestFormatKickoff tests the IST 12-hour clock conversion
func TestFormatKickoff(t *testing.T) {
	tests := []struct {
		name     string
		utc      *time.Time
		expected string
	}{
		{"Absent kickoff", nil, "TBD"},
		{"Evening IST", timePtr(time.Date(2025, 3, 14, 14, 0, 0, 0, time.UTC)), "7:30 PM"},
		{"Morning IST", timePtr(time.Date(2025, 3, 14, 3, 10, 0, 0, time.UTC)), "8:40 AM"},
		{"Past midnight IST", timePtr(time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC)), "12:30 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatKickoff(tt.utc))
		})
	}
}

// TestFormatKickoff_AwareZone tests conversion from a non-UTC source zone
func TestFormatKickoff_AwareZone(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	kickoff := time.Date(2025, 3, 14, 9, 0, 0, 0, est) // 14:00 UTC

	assert.Equal(t, "7:30 PM", formatKickoff(&kickoff))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
