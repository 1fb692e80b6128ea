package refdata

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// TestMidTableRank_Default tests fallback to the default rank
func TestMidTableRank_Default(t *testing.T) {
	catalog := NewCatalog(6, nil, nil, zerolog.Nop())

	assert.Equal(t, 6, catalog.MidTableRank("premier_league"))
	assert.Equal(t, 6, catalog.MidTableRank(""))
}

// TestMidTableRank_Override tests per-league overrides
func TestMidTableRank_Override(t *testing.T) {
	overrides := map[string]int{
		"premier_league": 7,
		"La Liga":        8,
	}
	catalog := NewCatalog(6, overrides, nil, zerolog.Nop())

	assert.Equal(t, 7, catalog.MidTableRank("premier_league"))
	assert.Equal(t, 8, catalog.MidTableRank("la_liga"))
	assert.Equal(t, 6, catalog.MidTableRank("bundesliga"))
}

// TestMidTableRank_NormalizedLookup tests that lookup ignores case and separators
func TestMidTableRank_NormalizedLookup(t *testing.T) {
	overrides := map[string]int{
		"premier_league": 7,
	}
	catalog := NewCatalog(6, overrides, nil, zerolog.Nop())

	tests := []struct {
		name   string
		league string
		want   int
	}{
		{
			name:   "exact key",
			league: "premier_league",
			want:   7,
		},
		{
			name:   "spaces and title case",
			league: "Premier League",
			want:   7,
		},
		{
			name:   "hyphenated",
			league: "premier-league",
			want:   7,
		},
		{
			name:   "surrounding whitespace",
			league: "  premier league ",
			want:   7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.MidTableRank(tt.league))
		})
	}
}

// TestNewCatalog_IgnoresInvalidOverrides tests that non-positive ranks are dropped
func TestNewCatalog_IgnoresInvalidOverrides(t *testing.T) {
	overrides := map[string]int{
		"premier_league": 0,
		"la_liga":        -3,
		"serie_a":        9,
	}
	catalog := NewCatalog(6, overrides, nil, zerolog.Nop())

	assert.Equal(t, 6, catalog.MidTableRank("premier_league"))
	assert.Equal(t, 6, catalog.MidTableRank("la_liga"))
	assert.Equal(t, 9, catalog.MidTableRank("serie_a"))
}

// TestSportForLeague_BuiltIn tests routing for leagues the catalog already knows
func TestSportForLeague_BuiltIn(t *testing.T) {
	catalog := NewCatalog(6, nil, nil, zerolog.Nop())

	assert.Equal(t, "football", catalog.SportForLeague("premier_league"))
	assert.Equal(t, "football", catalog.SportForLeague("Serie A"))
	assert.Equal(t, "cricket", catalog.SportForLeague("IPL"))
	assert.Equal(t, "", catalog.SportForLeague("nba"))
	assert.Equal(t, "", catalog.SportForLeague(""))
}

// TestSportForLeague_Overrides tests that configured sports extend and win over the built-ins
func TestSportForLeague_Overrides(t *testing.T) {
	overrides := map[string]string{
		"Sheffield Shield": "cricket",
		"premier_league":   "FOOTBALL",
		"mls":              "  ",
	}
	catalog := NewCatalog(6, nil, overrides, zerolog.Nop())

	assert.Equal(t, "cricket", catalog.SportForLeague("sheffield_shield"))
	assert.Equal(t, "football", catalog.SportForLeague("premier_league"))
	assert.Equal(t, "", catalog.SportForLeague("mls"))
}

// TestNormalizeLeague tests league name canonicalization
func TestNormalizeLeague(t *testing.T) {
	assert.Equal(t, "premier_league", NormalizeLeague("Premier League"))
	assert.Equal(t, "premier_league", NormalizeLeague("premier-league"))
	assert.Equal(t, "ligue_1", NormalizeLeague(" Ligue 1 "))
	assert.Equal(t, "", NormalizeLeague(""))
}
