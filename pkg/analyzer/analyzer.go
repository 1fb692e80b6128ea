// Package analyzer turns model probabilities and market prices into
// per-outcome bet recommendations.
package analyzer

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
	"github.com/cypherlabdev/match-analytics-service/pkg/oddsmath"
)

// Default decision thresholds.
const (
	DefaultMinProbability = 0.55
	DefaultMinValueGap    = 0.08
)

// Params configures the analyzer's decision thresholds.
type Params struct {
	MinProbability  float64 // below this no bet is recommended
	MinValueGap     float64 // minimum model edge over the market
	KellyMultiplier float64 // scale on the full Kelly stake
}

// DefaultParams returns the standard analyzer configuration.
func DefaultParams() Params {
	return Params{
		MinProbability:  DefaultMinProbability,
		MinValueGap:     DefaultMinValueGap,
		KellyMultiplier: oddsmath.DefaultKellyMultiplier,
	}
}

// Analyzer scores individual selections and whole 1X2 markets.
type Analyzer struct {
	params Params
	logger zerolog.Logger
}

// New creates an analyzer, falling back to defaults for unset parameters.
func New(params Params, logger zerolog.Logger) *Analyzer {
	if params.MinProbability <= 0 {
		params.MinProbability = DefaultMinProbability
	}
	if params.MinValueGap <= 0 {
		params.MinValueGap = DefaultMinValueGap
	}
	if params.KellyMultiplier <= 0 {
		params.KellyMultiplier = oddsmath.DefaultKellyMultiplier
	}
	return &Analyzer{
		params: params,
		logger: logger.With().Str("component", "analyzer").Logger(),
	}
}

// AnalyzeBet scores a single selection. Degenerate inputs never abort the
// analysis: affected figures come back as zero and the anomaly list says
// what was wrong. Pass a zero bankroll to skip the absolute stake.
func (a *Analyzer) AnalyzeBet(winProb, odds, bankroll float64) models.BetAnalysis {
	analysis := models.BetAnalysis{
		WinProbability: oddsmath.NormalizeProbability(winProb),
	}

	var badOdds, badProb bool

	implied, err := oddsmath.ImpliedProbability(odds)
	if err != nil {
		badOdds = true
	}
	analysis.ImpliedProbability = implied

	fair, err := oddsmath.FairOdds(analysis.WinProbability)
	if err != nil {
		badProb = true
	}
	analysis.FairOdds = fair

	analysis.ExpectedValue = oddsmath.ExpectedValue(analysis.WinProbability, odds)
	analysis.ValueGap = analysis.WinProbability - implied

	frac, err := oddsmath.KellyFraction(analysis.WinProbability, odds, a.params.KellyMultiplier)
	if err != nil {
		badOdds = true
	}
	analysis.KellyFraction = frac
	if bankroll > 0 {
		analysis.KellyStake = frac * bankroll
	}

	if badOdds {
		analysis.Anomalies = append(analysis.Anomalies, models.AnomalyInvalidOdds)
	}
	if badProb {
		analysis.Anomalies = append(analysis.Anomalies, models.AnomalyInvalidProbability)
	}

	analysis.Recommendation = a.recommend(analysis)
	return analysis
}

// recommend applies the decision ladder in priority order.
func (a *Analyzer) recommend(analysis models.BetAnalysis) string {
	switch {
	case analysis.WinProbability < a.params.MinProbability:
		return "probability too low for recommendation"
	case analysis.ValueGap < a.params.MinValueGap:
		return "insufficient value gap"
	case analysis.ExpectedValue <= 0:
		return "negative expected value"
	case analysis.KellyFraction <= 0:
		return "no Kelly stake recommended"
	default:
		label := "Medium"
		if analysis.WinProbability*100 >= models.SafeMinPct {
			label = "Safe"
		}
		return fmt.Sprintf("%s bet: value gap %.1f%%, EV %.2f, stake %.1f%% of bankroll",
			label, analysis.ValueGap*100, analysis.ExpectedValue, analysis.KellyFraction*100)
	}
}

// AnalyzeMatchOdds scores all three outcomes of a 1X2 market against the
// model's probability triple.
func (a *Analyzer) AnalyzeMatchOdds(market models.MarketOdds, probs models.ProbabilityTriple, bankroll float64) map[models.Outcome]models.BetAnalysis {
	probFor := map[models.Outcome]float64{
		models.OutcomeHome: probs.Home,
		models.OutcomeDraw: probs.Draw,
		models.OutcomeAway: probs.Away,
	}

	analyses := make(map[models.Outcome]models.BetAnalysis, len(models.AllOutcomes))
	for _, outcome := range models.AllOutcomes {
		analyses[outcome] = a.AnalyzeBet(probFor[outcome], market.Of(outcome), bankroll)
	}

	a.logger.Debug().
		Float64("margin", oddsmath.Margin(market)).
		Int("outcomes", len(analyses)).
		Msg("market analyzed")

	return analyses
}
