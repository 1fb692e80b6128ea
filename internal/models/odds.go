package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// Outcome identifies one side of a 1X2 match market.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// AllOutcomes lists the three 1X2 outcomes in display order.
var AllOutcomes = []Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}

// Anomaly codes attached to a BetAnalysis when inputs were degenerate.
const (
	AnomalyInvalidOdds        = "invalid_odds"
	AnomalyInvalidProbability = "invalid_probability"
)

// MarketOdds holds decimal odds for a three-way match market.
// A value is considered valid only when strictly greater than 1.0.
type MarketOdds struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Valid reports whether all three quotes are usable decimal odds.
func (o MarketOdds) Valid() bool {
	return o.Home > 1.0 && o.Draw > 1.0 && o.Away > 1.0
}

// Of returns the quote for a single outcome.
func (o MarketOdds) Of(outcome Outcome) float64 {
	switch outcome {
	case OutcomeHome:
		return o.Home
	case OutcomeDraw:
		return o.Draw
	case OutcomeAway:
		return o.Away
	default:
		return 0
	}
}

// RawMarketOdds carries bookmaker quotes exactly as received on the wire.
// Prices stay in decimal.Decimal until the math layer converts them.
type RawMarketOdds struct {
	Home decimal.Decimal `json:"home"`
	Draw decimal.Decimal `json:"draw"`
	Away decimal.Decimal `json:"away"`
}

// ToMarketOdds converts wire prices to the float form used by the math layer.
func (r RawMarketOdds) ToMarketOdds() MarketOdds {
	return MarketOdds{
		Home: r.Home.InexactFloat64(),
		Draw: r.Draw.InexactFloat64(),
		Away: r.Away.InexactFloat64(),
	}
}

// ProbabilityTriple holds three-way outcome probabilities as fractions in [0, 1].
// AsPercentages converts to the 0-100 convention used on API responses.
type ProbabilityTriple struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Sum returns the total probability mass of the triple.
func (t ProbabilityTriple) Sum() float64 {
	return t.Home + t.Draw + t.Away
}

// Of returns the probability for a single outcome.
func (t ProbabilityTriple) Of(outcome Outcome) float64 {
	switch outcome {
	case OutcomeHome:
		return t.Home
	case OutcomeDraw:
		return t.Draw
	case OutcomeAway:
		return t.Away
	default:
		return 0
	}
}

// AsPercentages returns the triple scaled to percentages rounded to one decimal.
func (t ProbabilityTriple) AsPercentages() ProbabilityTriple {
	return ProbabilityTriple{
		Home: RoundPct(t.Home * 100),
		Draw: RoundPct(t.Draw * 100),
		Away: RoundPct(t.Away * 100),
	}
}

// Favourite returns the outcome with the highest probability.
// Ties resolve in home, draw, away order.
func (t ProbabilityTriple) Favourite() Outcome {
	best := OutcomeHome
	max := t.Home
	if t.Draw > max {
		best, max = OutcomeDraw, t.Draw
	}
	if t.Away > max {
		best = OutcomeAway
	}
	return best
}

// RoundPct rounds a percentage to one decimal place.
func RoundPct(v float64) float64 {
	return math.Round(v*10) / 10
}

// BetAnalysis is the full value breakdown for a single selection.
type BetAnalysis struct {
	WinProbability     float64  `json:"win_probability"`
	ImpliedProbability float64  `json:"implied_probability"`
	FairOdds           float64  `json:"fair_odds"`
	ExpectedValue      float64  `json:"expected_value"`
	ValueGap           float64  `json:"value_gap"`
	KellyFraction      float64  `json:"kelly_fraction"`
	KellyStake         float64  `json:"kelly_stake,omitempty"`
	Recommendation     string   `json:"recommendation"`
	Anomalies          []string `json:"anomalies,omitempty"`
}
