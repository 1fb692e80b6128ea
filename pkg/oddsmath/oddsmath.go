// Package oddsmath provides the betting math primitives shared across the
// analytics pipeline: implied probability, margin removal, expected value
// and Kelly staking. All functions work on decimal odds and fractional
// probabilities.
package oddsmath

import (
	"errors"
	"math"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// Degenerate inputs are flagged with these sentinels. Functions still return
// a usable zero value alongside them so callers can degrade instead of abort.
var (
	ErrInvalidOdds        = errors.New("oddsmath: invalid odds")
	ErrInvalidProbability = errors.New("oddsmath: invalid probability")
)

// DefaultKellyMultiplier scales the full Kelly stake down to half Kelly.
const DefaultKellyMultiplier = 0.5

// NormalizeProbability coerces a probability into [0, 1]. Values above 1 are
// interpreted as percentages and divided by 100; anything still out of range
// clamps to the nearest bound.
func NormalizeProbability(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	if p > 1.0 {
		p = p / 100.0
	}
	if p < 0.0 {
		return 0.0
	}
	if p > 1.0 {
		return 1.0
	}
	return p
}

// ImpliedProbability converts decimal odds to the bookmaker's implied
// probability. Example: 2.50 odds = 1/2.50 = 0.40 = 40%.
func ImpliedProbability(odds float64) (float64, error) {
	if odds <= 0 || math.IsNaN(odds) || math.IsInf(odds, 0) {
		return 0, ErrInvalidOdds
	}
	return 1.0 / odds, nil
}

// FairOdds converts a true probability to margin-free decimal odds.
// Example: 40% probability = 1/0.40 = 2.50 odds.
func FairOdds(p float64) (float64, error) {
	p = NormalizeProbability(p)
	if p <= 0 {
		return 0, ErrInvalidProbability
	}
	return 1.0 / p, nil
}

// ExpectedValue returns the expected profit per unit staked:
// p*(odds-1) - (1-p). Negative means the bet loses money long run.
func ExpectedValue(p, odds float64) float64 {
	p = NormalizeProbability(p)
	return p*(odds-1.0) - (1.0 - p)
}

// ValueGap returns the model's probability edge over the market:
// model probability minus implied probability.
func ValueGap(modelProb, odds float64) (float64, error) {
	implied, err := ImpliedProbability(odds)
	if err != nil {
		return 0, err
	}
	return NormalizeProbability(modelProb) - implied, nil
}

// KellyFraction returns the fraction of bankroll to stake under the Kelly
// criterion, scaled by multiplier (0.5 = half Kelly). The result is floored
// at zero so a losing edge never suggests a stake.
func KellyFraction(p, odds, multiplier float64) (float64, error) {
	p = NormalizeProbability(p)
	if odds <= 1.0 || math.IsNaN(odds) || math.IsInf(odds, 0) {
		return 0, ErrInvalidOdds
	}
	b := odds - 1.0
	q := 1.0 - p
	full := (b*p - q) / b
	if full < 0 {
		full = 0
	}
	return full * multiplier, nil
}

// KellyStake converts the Kelly fraction into an absolute stake for a given
// bankroll. A non-positive bankroll yields a zero stake.
func KellyStake(p, odds, multiplier, bankroll float64) (float64, error) {
	frac, err := KellyFraction(p, odds, multiplier)
	if err != nil {
		return 0, err
	}
	if bankroll <= 0 {
		return 0, nil
	}
	return frac * bankroll, nil
}

// Margin returns the bookmaker overround of a three-way market, e.g. 0.05
// for a 105% book. Zero when any quote is unusable.
func Margin(o models.MarketOdds) float64 {
	if !o.Valid() {
		return 0
	}
	return 1.0/o.Home + 1.0/o.Draw + 1.0/o.Away - 1.0
}

// RemoveMargin rescales a three-way market to a margin-free book whose
// implied probabilities sum to one. Quotes at or below 1.0 carry no
// probability mass and zero out in the result, flagged with ErrInvalidOdds.
// When there is no overround to strip the input comes back unchanged.
func RemoveMargin(o models.MarketOdds) (models.MarketOdds, error) {
	legs := [3]float64{o.Home, o.Draw, o.Away}

	var probs [3]float64
	var total float64
	var err error
	for i, leg := range legs {
		if leg <= 1.0 || math.IsNaN(leg) || math.IsInf(leg, 0) {
			err = ErrInvalidOdds
			continue
		}
		probs[i] = 1.0 / leg
		total += probs[i]
	}

	if total <= 1.0 {
		return o, err
	}

	// Fair odds = 1 / (implied / total) = original odds * total.
	var fair [3]float64
	for i := range probs {
		if probs[i] <= 0 {
			continue
		}
		fair[i] = total / probs[i]
	}
	return models.MarketOdds{Home: fair[0], Draw: fair[1], Away: fair[2]}, err
}
