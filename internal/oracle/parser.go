package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// ParsePrediction extracts the JSON verdict from an oracle response.
// Responses wrapped in markdown fences or surrounded by prose are tolerated;
// fraction-style probabilities are converted to percentages; a missing winner
// is derived from the strongest side.
func ParsePrediction(raw, homeTeam, awayTeam string) (*models.OraclePrediction, error) {
	jsonStr := extractJSON(stripMarkdownCodeBlocks(raw))
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON object in oracle response")
	}

	var prediction models.OraclePrediction
	if err := json.Unmarshal([]byte(jsonStr), &prediction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oracle JSON: %w", err)
	}

	// Fraction convention: all three at most 1 means 0.62-style values.
	if prediction.HomeWinPct <= 1 && prediction.AwayWinPct <= 1 && prediction.DrawPct <= 1 {
		prediction.HomeWinPct *= 100
		prediction.AwayWinPct *= 100
		prediction.DrawPct *= 100
	}

	prediction.HomeWinPct = clampPct(prediction.HomeWinPct)
	prediction.AwayWinPct = clampPct(prediction.AwayWinPct)
	prediction.DrawPct = clampPct(prediction.DrawPct)

	total := prediction.HomeWinPct + prediction.AwayWinPct + prediction.DrawPct
	if total <= 0 {
		return nil, fmt.Errorf("oracle prediction has no probabilities")
	}

	if prediction.PredictedWinner == "" {
		prediction.PredictedWinner = strongestSide(&prediction, homeTeam, awayTeam)
	}

	return &prediction, nil
}

// stripMarkdownCodeBlocks removes ```json ... ``` wrappers
func stripMarkdownCodeBlocks(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// extractJSON finds the first complete JSON object in a string
func extractJSON(s string) string {
	start := -1
	braceCount := 0

	for i, c := range s {
		if c == '{' {
			if start == -1 {
				start = i
			}
			braceCount++
		} else if c == '}' {
			braceCount--
			if braceCount == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func strongestSide(p *models.OraclePrediction, homeTeam, awayTeam string) string {
	switch {
	case p.HomeWinPct >= p.AwayWinPct && p.HomeWinPct >= p.DrawPct:
		return homeTeam
	case p.AwayWinPct >= p.DrawPct:
		return awayTeam
	default:
		return "Draw"
	}
}
