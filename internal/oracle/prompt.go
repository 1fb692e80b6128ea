package oracle

import (
	"fmt"
	"strings"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// systemPrompt pins the oracle to the JSON contract ParsePrediction expects.
const systemPrompt = `You are a sports match analyst. Respond with a single JSON object and nothing else, using exactly these keys:
{"predicted_winner": "<team name or Draw>", "home_win_pct": <0-100>, "away_win_pct": <0-100>, "draw_pct": <0-100>, "confidence": "<high|medium|low>", "reasoning": "<one or two sentences>", "key_factors": ["<factor>", ...]}
The three percentages must sum to 100.`

// buildPrompt renders one fixture into the analyst prompt
func buildPrompt(record models.FixtureRecord) string {
	var b strings.Builder

	fixture := record.Fixture
	fmt.Fprintf(&b, "Predict the outcome of this %s match.\n\n", fixture.Sport)
	fmt.Fprintf(&b, "Match: %s vs %s\n", fixture.HomeTeam, fixture.AwayTeam)
	if fixture.League != "" {
		fmt.Fprintf(&b, "League: %s\n", fixture.League)
	}
	if fixture.Season != "" {
		fmt.Fprintf(&b, "Season: %s\n", fixture.Season)
	}
	if fixture.Venue != "" {
		fmt.Fprintf(&b, "Venue: %s\n", fixture.Venue)
	}
	if kickoff := fixture.KickoffTime(); kickoff != nil {
		fmt.Fprintf(&b, "Kickoff: %s\n", kickoff.Format("2006-01-02 15:04 MST"))
	}

	if record.Odds != nil {
		odds := record.Odds.ToMarketOdds()
		if odds.Valid() {
			fmt.Fprintf(&b, "\nBookmaker odds: home %.2f, draw %.2f, away %.2f\n",
				odds.Home, odds.Draw, odds.Away)
		}
	}

	if stats := record.Stats; stats != nil {
		b.WriteString("\nPre-match statistics:\n")
		fmt.Fprintf(&b, "- Expected goals: %s %.2f, %s %.2f\n",
			fixture.HomeTeam, stats.XGHome, fixture.AwayTeam, stats.XGAway)
		if stats.RecentFormHome != "" || stats.RecentFormAway != "" {
			fmt.Fprintf(&b, "- Recent form: %s %s, %s %s\n",
				fixture.HomeTeam, stats.RecentFormHome, fixture.AwayTeam, stats.RecentFormAway)
		}
		if stats.PositionHome != nil && stats.PositionAway != nil {
			fmt.Fprintf(&b, "- League positions: %s %d, %s %d\n",
				fixture.HomeTeam, *stats.PositionHome, fixture.AwayTeam, *stats.PositionAway)
		}
		if stats.InjuriesHome > 0 || stats.InjuriesAway > 0 {
			fmt.Fprintf(&b, "- Injuries: %s %d, %s %d\n",
				fixture.HomeTeam, stats.InjuriesHome, fixture.AwayTeam, stats.InjuriesAway)
		}
		if stats.RestDaysHome > 0 || stats.RestDaysAway > 0 {
			fmt.Fprintf(&b, "- Rest days: %s %d, %s %d\n",
				fixture.HomeTeam, stats.RestDaysHome, fixture.AwayTeam, stats.RestDaysAway)
		}
	}

	b.WriteString("\nRespond with the JSON object only.")

	return b.String()
}
