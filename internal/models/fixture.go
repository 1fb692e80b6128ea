package models

import (
	"time"
)

// SportFootball is the sport code routed through the scoreline calibrator.
// Fixtures for every other sport go through the oracle.
const SportFootball = "football"

// Fixture represents one scheduled match as received from upstream feeds.
type Fixture struct {
	MatchKey string `json:"match_key"`
	Sport    string `json:"sport"`
	League   string `json:"league,omitempty"`
	Season   string `json:"season,omitempty"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Kickoff  string `json:"kickoff,omitempty"` // raw feed timestamp, parsed via ParseKickoff
	Venue    string `json:"venue,omitempty"`
}

// KickoffTime parses the raw kickoff timestamp, nil when absent or unparseable.
func (f Fixture) KickoffTime() *time.Time {
	return ParseKickoff(f.Kickoff)
}

// MatchDate returns the kickoff date in YYYY-MM-DD form, or "" when unknown.
func (f Fixture) MatchDate() string {
	t := f.KickoffTime()
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// kickoffLayouts are tried in order when parsing feed timestamps.
// Layouts without a zone are interpreted as UTC.
var kickoffLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseKickoff parses a feed timestamp into UTC. Returns nil for an empty
// or unrecognized value so callers can degrade to a TBD display.
func ParseKickoff(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range kickoffLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// TeamMatchStats carries the pre-match statistics used by the draw calibrator
// and for building pick justifications. League positions are optional because
// cup fixtures have none.
type TeamMatchStats struct {
	MatchKey           string  `json:"match_key"`
	XGHome             float64 `json:"xg_home"`
	XGAway             float64 `json:"xg_away"`
	PossessionHome     float64 `json:"possession_home"`
	PossessionAway     float64 `json:"possession_away"`
	ShotsOnTargetHome  int     `json:"shots_on_target_home"`
	ShotsOnTargetAway  int     `json:"shots_on_target_away"`
	HeadToHeadDrawRate float64 `json:"head_to_head_draw_rate"`
	PositionHome       *int    `json:"position_home,omitempty"`
	PositionAway       *int    `json:"position_away,omitempty"`
	RecentFormHome     string  `json:"recent_form_home,omitempty"`
	RecentFormAway     string  `json:"recent_form_away,omitempty"`
	InjuriesHome       int     `json:"injuries_home,omitempty"`
	InjuriesAway       int     `json:"injuries_away,omitempty"`
	RestDaysHome       int     `json:"rest_days_home,omitempty"`
	RestDaysAway       int     `json:"rest_days_away,omitempty"`
}

// FixtureRecord bundles a fixture with whatever odds and stats the feed had.
type FixtureRecord struct {
	Fixture Fixture         `json:"fixture"`
	Odds    *RawMarketOdds  `json:"odds,omitempty"`
	Stats   *TeamMatchStats `json:"stats,omitempty"`
}

// FixtureEnvelope represents the Kafka message from the fixture feed.
type FixtureEnvelope struct {
	Fixtures  []FixtureRecord `json:"fixtures"`
	Timestamp time.Time       `json:"timestamp"`
	BatchID   string          `json:"batch_id"`
}
