package refdata

import (
	"strings"

	"github.com/rs/zerolog"
)

// baseLeagueSports routes leagues whose fixture feeds regularly omit the
// sport code. Configured overrides are layered on top.
var baseLeagueSports = map[string]string{
	"premier_league":   "football",
	"championship":     "football",
	"la_liga":          "football",
	"serie_a":          "football",
	"bundesliga":       "football",
	"ligue_1":          "football",
	"eredivisie":       "football",
	"champions_league": "football",
	"europa_league":    "football",
	"ipl":              "cricket",
	"big_bash_league":  "cricket",
	"the_hundred":      "cricket",
	"t20_blast":        "cricket",
}

// Catalog resolves per-league reference data for the analytics pipeline.
// Leagues without an override fall back to the default values.
type Catalog struct {
	defaultMidTableRank int
	midTableRanks       map[string]int
	leagueSports        map[string]string
	logger              zerolog.Logger
}

// NewCatalog creates a catalog from configured overrides. League keys are
// normalized so "Premier League" and "premier_league" resolve identically.
func NewCatalog(defaultMidTableRank int, midTableRanks map[string]int, leagueSports map[string]string, logger zerolog.Logger) *Catalog {
	ranks := make(map[string]int, len(midTableRanks))
	for league, rank := range midTableRanks {
		if rank <= 0 {
			logger.Warn().
				Str("league", league).
				Int("rank", rank).
				Msg("ignoring non-positive mid-table rank override")
			continue
		}
		ranks[NormalizeLeague(league)] = rank
	}

	sports := make(map[string]string, len(baseLeagueSports)+len(leagueSports))
	for league, sport := range baseLeagueSports {
		sports[league] = sport
	}
	for league, sport := range leagueSports {
		sport = strings.ToLower(strings.TrimSpace(sport))
		if sport == "" {
			logger.Warn().
				Str("league", league).
				Msg("ignoring empty sport override")
			continue
		}
		sports[NormalizeLeague(league)] = sport
	}

	return &Catalog{
		defaultMidTableRank: defaultMidTableRank,
		midTableRanks:       ranks,
		leagueSports:        sports,
		logger:              logger.With().Str("component", "refdata_catalog").Logger(),
	}
}

// MidTableRank returns the league position from which a team counts as
// mid-table or lower, for the given league.
func (c *Catalog) MidTableRank(league string) int {
	if rank, ok := c.midTableRanks[NormalizeLeague(league)]; ok {
		return rank
	}
	return c.defaultMidTableRank
}

// SportForLeague returns the sport a league belongs to, or an empty string
// when the league is unknown to the catalog.
func (c *Catalog) SportForLeague(league string) string {
	return c.leagueSports[NormalizeLeague(league)]
}

// NormalizeLeague canonicalizes a league name for lookup.
func NormalizeLeague(league string) string {
	league = strings.TrimSpace(strings.ToLower(league))
	league = strings.ReplaceAll(league, " ", "_")
	league = strings.ReplaceAll(league, "-", "_")
	return league
}
