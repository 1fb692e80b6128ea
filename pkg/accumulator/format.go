package accumulator

import (
	"fmt"
	"strings"
	"time"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// LegRecord is the wire form of one accumulator leg.
type LegRecord struct {
	MatchKey          string                `json:"match_key,omitempty"`
	Sport             string                `json:"sport,omitempty"`
	League            string                `json:"league,omitempty"`
	HomeTeam          string                `json:"home_team,omitempty"`
	AwayTeam          string                `json:"away_team,omitempty"`
	Winner            string                `json:"winner"`
	WinProbabilityPct float64               `json:"win_probability_pct"`
	Odds              *float64              `json:"odds,omitempty"`
	Tier              models.ConfidenceTier `json:"tier"`
	Kickoff           string                `json:"kickoff"`
	Justification     string                `json:"justification"`
	Reasoning         string                `json:"reasoning,omitempty"`
}

// AccumulatorRecord is the wire form of a full accumulator.
type AccumulatorRecord struct {
	Legs                   []LegRecord `json:"legs"`
	RequestedLegs          int         `json:"requested_legs"`
	TotalLegs              int         `json:"total_legs"`
	SafePicksCount         int         `json:"safe_picks_count"`
	MediumPicksCount       int         `json:"medium_picks_count"`
	CombinedOdds           *float64    `json:"combined_odds,omitempty"`
	CombinedProbabilityPct float64     `json:"combined_probability_pct"`
	RecommendedStakePct    float64     `json:"recommended_stake_pct"`
	Warnings               []string    `json:"warnings,omitempty"`
	GeneratedAt            time.Time   `json:"generated_at"`
}

// FormatJSON converts an accumulator into its wire record. Absent combined
// odds serialize as a missing field, never as zero.
func FormatJSON(acc models.Accumulator) AccumulatorRecord {
	record := AccumulatorRecord{
		Legs:                   make([]LegRecord, 0, len(acc.Legs)),
		RequestedLegs:          acc.RequestedLegs,
		TotalLegs:              acc.TotalLegs,
		SafePicksCount:         acc.SafeCount,
		MediumPicksCount:       acc.MediumCount,
		CombinedProbabilityPct: models.RoundPct(acc.CombinedProbability * 100),
		RecommendedStakePct:    acc.StakePct,
		Warnings:               acc.Warnings,
		GeneratedAt:            acc.GeneratedAt,
	}
	if acc.CombinedOddsValid {
		odds := acc.CombinedOdds
		record.CombinedOdds = &odds
	}

	for _, leg := range acc.Legs {
		rec := LegRecord{
			MatchKey:          leg.Pick.MatchKey,
			Sport:             leg.Pick.Sport,
			League:            leg.Pick.League,
			HomeTeam:          leg.Pick.HomeTeam,
			AwayTeam:          leg.Pick.AwayTeam,
			Winner:            leg.Pick.Winner,
			WinProbabilityPct: leg.Pick.WinProbabilityPct,
			Tier:              leg.Tier,
			Kickoff:           leg.KickoffDisplay,
			Justification:     leg.Justification,
			Reasoning:         leg.Pick.Reasoning,
		}
		if leg.Pick.Odds > 0 {
			odds := leg.Pick.Odds
			rec.Odds = &odds
		}
		record.Legs = append(record.Legs, rec)
	}
	return record
}

// FormatText renders an accumulator as a human-readable ticket.
func FormatText(acc models.Accumulator) string {
	var sb strings.Builder

	if acc.TotalLegs == 0 {
		sb.WriteString("No eligible picks for an accumulator.\n")
		for _, w := range acc.Warnings {
			fmt.Fprintf(&sb, "! %s\n", w)
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "%d-Leg Accumulator (%d Safe / %d Medium)\n\n",
		acc.TotalLegs, acc.SafeCount, acc.MediumCount)

	for i, leg := range acc.Legs {
		fmt.Fprintf(&sb, "%d. %s [%s] %.1f%%", i+1, leg.Pick.Winner, leg.Tier, leg.Pick.WinProbabilityPct)
		if leg.Pick.Odds > 0 {
			fmt.Fprintf(&sb, " @ %.2f", leg.Pick.Odds)
		}
		fmt.Fprintf(&sb, " | %s\n", leg.KickoffDisplay)
		fmt.Fprintf(&sb, "   %s\n", leg.Justification)
	}

	sb.WriteString("\n")
	if acc.CombinedOddsValid {
		fmt.Fprintf(&sb, "Combined odds: %.2f\n", acc.CombinedOdds)
	} else {
		sb.WriteString("Combined odds: n/a\n")
	}
	fmt.Fprintf(&sb, "Combined probability: %.1f%%\n", acc.CombinedProbability*100)
	fmt.Fprintf(&sb, "Recommended stake: %.1f%% of bankroll\n", acc.StakePct)

	for _, w := range acc.Warnings {
		fmt.Fprintf(&sb, "! %s\n", w)
	}
	return sb.String()
}
