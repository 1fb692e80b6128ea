package models

import (
	"time"
)

// ConfidenceTier buckets a pick by its win probability.
type ConfidenceTier string

const (
	TierSafe   ConfidenceTier = "Safe"   // 70% and above
	TierMedium ConfidenceTier = "Medium" // 55% to below 70%
	TierValue  ConfidenceTier = "Value"  // below 55%, never selected for accumulators
)

// Probability bands, expressed as percentages.
const (
	SafeMinPct            = 70.0
	MediumMinPct          = 55.0
	StrongFavouriteMinPct = 80.0
)

// TierForPct maps a win probability percentage onto its confidence tier.
func TierForPct(pct float64) ConfidenceTier {
	switch {
	case pct >= SafeMinPct:
		return TierSafe
	case pct >= MediumMinPct:
		return TierMedium
	default:
		return TierValue
	}
}

// Display placeholders substituted for missing pick fields.
const (
	PlaceholderWinner    = "Unknown"
	PlaceholderKickoff   = "TBD"
	PlaceholderReasoning = "Analysis pending"
)

// Pick is one candidate selection for an accumulator: the predicted winner
// of a match plus the signals that justify it.
type Pick struct {
	MatchKey          string     `json:"match_key"`
	Sport             string     `json:"sport"`
	League            string     `json:"league,omitempty"`
	HomeTeam          string     `json:"home_team,omitempty"`
	AwayTeam          string     `json:"away_team,omitempty"`
	Winner            string     `json:"winner"`
	WinProbabilityPct float64    `json:"win_probability_pct"`
	Odds              float64    `json:"odds,omitempty"` // decimal odds for the winner, 0 when unknown
	Kickoff           *time.Time `json:"kickoff,omitempty"`
	Reasoning         string     `json:"reasoning,omitempty"`
	KeyFactors        []string   `json:"key_factors,omitempty"`
	RecentForm        string     `json:"recent_form,omitempty"`
	XGAdvantage       float64    `json:"xg_advantage,omitempty"`
	OpponentInjuries  bool       `json:"opponent_injuries,omitempty"`
	HomeAdvantage     bool       `json:"home_advantage,omitempty"`
	RestDaysAdvantage int        `json:"rest_days_advantage,omitempty"`
}

// AccumulatorLeg is a selected pick with its display fields resolved.
type AccumulatorLeg struct {
	Pick           Pick           `json:"pick"`
	Tier           ConfidenceTier `json:"tier"`
	Justification  string         `json:"justification"`
	KickoffDisplay string         `json:"kickoff_display"`
}

// Accumulator is a multi-leg selection with combined pricing and staking advice.
// CombinedOdds is only meaningful when CombinedOddsValid is true; it is left
// unset when any leg lacks usable odds.
type Accumulator struct {
	Legs                []AccumulatorLeg `json:"legs"`
	RequestedLegs       int              `json:"requested_legs"`
	TotalLegs           int              `json:"total_legs"`
	SafeCount           int              `json:"safe_count"`
	MediumCount         int              `json:"medium_count"`
	CombinedOdds        float64          `json:"combined_odds,omitempty"`
	CombinedOddsValid   bool             `json:"combined_odds_valid"`
	CombinedProbability float64          `json:"combined_probability"`
	StakePct            float64          `json:"stake_pct"`
	Warnings            []string         `json:"warnings,omitempty"`
	GeneratedAt         time.Time        `json:"generated_at"`
}
