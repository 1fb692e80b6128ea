// Package accumulator deterministically assembles multi-leg selections
// from a pool of match picks, with tier-based staking advice.
package accumulator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// DefaultLegs is the accumulator size when the caller does not ask for one.
const DefaultLegs = 3

// maxFragments caps the justification at three signal fragments.
const maxFragments = 3

// safeShareForMidStake is the Safe-leg share that unlocks the 1.5% stake.
const safeShareForMidStake = 0.67

// istZone is the fixed display zone for kickoff times (UTC+5:30).
var istZone = time.FixedZone("IST", 5*3600+30*60)

// kickoffLayout renders a 12-hour clock with meridiem, e.g. "7:30 PM".
const kickoffLayout = "3:04 PM"

// Params configures the builder.
type Params struct {
	DefaultLegs      int
	MinConfidencePct float64
}

// DefaultParams returns the standard builder configuration.
func DefaultParams() Params {
	return Params{
		DefaultLegs:      DefaultLegs,
		MinConfidencePct: models.MediumMinPct,
	}
}

// BuildOptions tune a single build call. Zero values fall back to Params.
type BuildOptions struct {
	Legs             int
	Sport            string
	MinConfidencePct float64
}

// Builder assembles accumulators from pick pools. The clock is injectable
// so builds stay deterministic under test.
type Builder struct {
	params Params
	logger zerolog.Logger
	now    func() time.Time
}

// NewBuilder creates a builder, falling back to defaults for unset parameters.
func NewBuilder(params Params, logger zerolog.Logger) *Builder {
	if params.DefaultLegs <= 0 {
		params.DefaultLegs = DefaultLegs
	}
	if params.MinConfidencePct <= 0 {
		params.MinConfidencePct = models.MediumMinPct
	}
	return &Builder{
		params: params,
		logger: logger.With().Str("component", "accumulator").Logger(),
		now:    time.Now,
	}
}

// Build constructs an accumulator from the pick pool. Safe picks fill first
// in probability order, then Medium; Value-tier picks are never selected. A
// pool too small for the requested legs yields a shorter accumulator with a
// warning instead of an error.
func (b *Builder) Build(picks []models.Pick, opts BuildOptions) models.Accumulator {
	legsWanted := opts.Legs
	if legsWanted <= 0 {
		legsWanted = b.params.DefaultLegs
	}
	minConfidence := opts.MinConfidencePct
	if minConfidence <= 0 {
		minConfidence = b.params.MinConfidencePct
	}
	// The confidence bar can only be raised: below 55% is never selected.
	if minConfidence < models.MediumMinPct {
		minConfidence = models.MediumMinPct
	}

	acc := models.Accumulator{
		RequestedLegs: legsWanted,
		GeneratedAt:   b.now().UTC(),
	}

	var safe, medium []models.Pick
	for _, pick := range picks {
		if opts.Sport != "" && !strings.EqualFold(pick.Sport, opts.Sport) {
			continue
		}
		pct := pick.WinProbabilityPct
		switch {
		case pct < 0 || pct > 100:
			acc.Warnings = append(acc.Warnings,
				fmt.Sprintf("skipped %s: win probability %.1f out of range", pickName(pick), pct))
		case pct >= models.SafeMinPct:
			safe = append(safe, pick)
		case pct >= minConfidence:
			medium = append(medium, pick)
		}
	}

	// Stable sort: equal probabilities keep their input order.
	sort.SliceStable(safe, func(i, j int) bool {
		return safe[i].WinProbabilityPct > safe[j].WinProbabilityPct
	})
	sort.SliceStable(medium, func(i, j int) bool {
		return medium[i].WinProbabilityPct > medium[j].WinProbabilityPct
	})

	selected := safe
	if len(selected) > legsWanted {
		selected = selected[:legsWanted]
	}
	acc.SafeCount = len(selected)

	if shortfall := legsWanted - len(selected); shortfall > 0 {
		take := shortfall
		if take > len(medium) {
			take = len(medium)
		}
		selected = append(selected, medium[:take]...)
		acc.MediumCount = take
	}
	acc.TotalLegs = len(selected)

	if acc.TotalLegs < legsWanted {
		acc.Warnings = append(acc.Warnings,
			fmt.Sprintf("requested %d legs, only %d eligible picks", legsWanted, acc.TotalLegs))
		b.logger.Warn().
			Int("requested", legsWanted).
			Int("eligible", acc.TotalLegs).
			Msg("accumulator short of requested legs")
	}

	combined := 1.0
	combinedValid := acc.TotalLegs > 0
	probability := 1.0
	for _, pick := range selected {
		leg := models.AccumulatorLeg{
			Pick:           pick,
			Tier:           models.TierForPct(pick.WinProbabilityPct),
			Justification:  justification(pick),
			KickoffDisplay: formatKickoff(pick.Kickoff),
		}
		// Malformed display fields degrade to placeholders, never abort.
		if leg.Pick.Winner == "" {
			leg.Pick.Winner = models.PlaceholderWinner
		}
		if leg.Pick.Reasoning == "" {
			leg.Pick.Reasoning = models.PlaceholderReasoning
		}
		acc.Legs = append(acc.Legs, leg)

		probability *= pick.WinProbabilityPct / 100.0
		// Combined odds are all-or-nothing: one leg without a usable quote
		// leaves them absent rather than a partial product.
		if pick.Odds > 1.0 {
			combined *= pick.Odds
		} else {
			combinedValid = false
		}
	}

	if combinedValid {
		acc.CombinedOdds = combined
		acc.CombinedOddsValid = true
	}
	if acc.TotalLegs > 0 {
		acc.CombinedProbability = probability
	}
	acc.StakePct = stakePct(acc.SafeCount, acc.TotalLegs)

	b.logger.Info().
		Int("legs", acc.TotalLegs).
		Int("safe", acc.SafeCount).
		Int("medium", acc.MediumCount).
		Float64("stake_pct", acc.StakePct).
		Msg("accumulator built")

	return acc
}

// stakePct is a step function of the Safe-leg composition.
func stakePct(safeCount, totalLegs int) float64 {
	switch {
	case totalLegs == 0:
		return 0.0
	case safeCount == totalLegs:
		return 2.0
	case float64(safeCount)/float64(totalLegs) >= safeShareForMidStake:
		return 1.5
	case safeCount > 0:
		return 1.0
	default:
		return 0.5
	}
}

// justification builds the one-line leg rationale from up to three signals,
// in fixed priority order. With no signals at all it falls back to a generic
// phrase keyed off the probability band.
func justification(p models.Pick) string {
	var frags []string
	for _, factor := range p.KeyFactors {
		if len(frags) == maxFragments {
			break
		}
		if factor = strings.TrimSpace(factor); factor != "" {
			frags = append(frags, factor)
		}
	}
	if len(frags) < maxFragments && p.RecentForm != "" {
		frags = append(frags, fmt.Sprintf("recent form %s", p.RecentForm))
	}
	if len(frags) < maxFragments && p.XGAdvantage > 0 {
		frags = append(frags, fmt.Sprintf("xG advantage +%.1f", p.XGAdvantage))
	}
	if len(frags) < maxFragments && p.OpponentInjuries {
		frags = append(frags, "opponent injury concerns")
	}
	if len(frags) < maxFragments && p.HomeAdvantage {
		frags = append(frags, "home advantage")
	}
	if len(frags) < maxFragments && p.RestDaysAdvantage > 0 {
		frags = append(frags, fmt.Sprintf("%d extra rest days", p.RestDaysAdvantage))
	}

	if len(frags) == 0 {
		switch {
		case p.WinProbabilityPct >= models.StrongFavouriteMinPct:
			return "strong favourite"
		case p.WinProbabilityPct >= models.SafeMinPct:
			return "reliable pick"
		default:
			return "good value"
		}
	}
	return strings.Join(frags, ", ")
}

// formatKickoff renders a kickoff on the IST 12-hour clock, "TBD" when unknown.
func formatKickoff(t *time.Time) string {
	if t == nil {
		return models.PlaceholderKickoff
	}
	return t.In(istZone).Format(kickoffLayout)
}

// pickName labels a pick in warnings.
func pickName(p models.Pick) string {
	if p.MatchKey != "" {
		return p.MatchKey
	}
	if p.Winner != "" {
		return p.Winner
	}
	return "pick"
}
