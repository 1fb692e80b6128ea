package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePrediction_BareJSON tests parsing an unwrapped JSON verdict
func TestParsePrediction_BareJSON(t *testing.T) {
	raw := `{"predicted_winner": "India", "home_win_pct": 62, "away_win_pct": 28, "draw_pct": 10, "confidence": "high", "reasoning": "Strong recent form at home.", "key_factors": ["home advantage", "spin-friendly pitch"]}`

	prediction, err := ParsePrediction(raw, "India", "Australia")

	require.NoError(t, err)
	assert.Equal(t, "India", prediction.PredictedWinner)
	assert.Equal(t, 62.0, prediction.HomeWinPct)
	assert.Equal(t, 28.0, prediction.AwayWinPct)
	assert.Equal(t, 10.0, prediction.DrawPct)
	assert.Equal(t, "high", prediction.Confidence)
	assert.Equal(t, "Strong recent form at home.", prediction.Reasoning)
	assert.Equal(t, []string{"home advantage", "spin-friendly pitch"}, prediction.KeyFactors)
}

// TestParsePrediction_FencedJSON tests stripping a ```json fence
func TestParsePrediction_FencedJSON(t *testing.T) {
	raw := "```json\n{\"predicted_winner\": \"Australia\", \"home_win_pct\": 35, \"away_win_pct\": 55, \"draw_pct\": 10}\n```"

	prediction, err := ParsePrediction(raw, "India", "Australia")

	require.NoError(t, err)
	assert.Equal(t, "Australia", prediction.PredictedWinner)
	assert.Equal(t, 55.0, prediction.AwayWinPct)
}

// TestParsePrediction_PlainFence tests stripping a bare ``` fence
func TestParsePrediction_PlainFence(t *testing.T) {
	raw := "```\n{\"predicted_winner\": \"India\", \"home_win_pct\": 70, \"away_win_pct\": 20, \"draw_pct\": 10}\n```"

	prediction, err := ParsePrediction(raw, "India", "Australia")

	require.NoError(t, err)
	assert.Equal(t, 70.0, prediction.HomeWinPct)
}

// TestParsePrediction_SurroundingProse tests extraction from a chatty response
func TestParsePrediction_SurroundingProse(t *testing.T) {
	raw := `Here is my analysis of the match.

{"predicted_winner": "India", "home_win_pct": 58, "away_win_pct": 32, "draw_pct": 10}

Let me know if you need more detail.`

	prediction, err := ParsePrediction(raw, "India", "Australia")

	require.NoError(t, err)
	assert.Equal(t, "India", prediction.PredictedWinner)
	assert.Equal(t, 58.0, prediction.HomeWinPct)
}

// TestParsePrediction_FractionConvention tests 0-1 probabilities scaling to percentages
func TestParsePrediction_FractionConvention(t *testing.T) {
	raw := `{"predicted_winner": "India", "home_win_pct": 0.62, "away_win_pct": 0.28, "draw_pct": 0.10}`

	prediction, err := ParsePrediction(raw, "India", "Australia")

	require.NoError(t, err)
	assert.InDelta(t, 62.0, prediction.HomeWinPct, 1e-9)
	assert.InDelta(t, 28.0, prediction.AwayWinPct, 1e-9)
	assert.InDelta(t, 10.0, prediction.DrawPct, 1e-9)
}

// TestParsePrediction_MissingWinner tests deriving the winner from the strongest side
func TestParsePrediction_MissingWinner(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "home strongest",
			raw:  `{"home_win_pct": 60, "away_win_pct": 30, "draw_pct": 10}`,
			want: "India",
		},
		{
			name: "away strongest",
			raw:  `{"home_win_pct": 25, "away_win_pct": 65, "draw_pct": 10}`,
			want: "Australia",
		},
		{
			name: "draw strongest",
			raw:  `{"home_win_pct": 25, "away_win_pct": 30, "draw_pct": 45}`,
			want: "Draw",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prediction, err := ParsePrediction(tt.raw, "India", "Australia")
			require.NoError(t, err)
			assert.Equal(t, tt.want, prediction.PredictedWinner)
		})
	}
}

// TestParsePrediction_NoJSON tests a response without any JSON object
func TestParsePrediction_NoJSON(t *testing.T) {
	prediction, err := ParsePrediction("I cannot make a prediction for this match.", "India", "Australia")

	assert.Error(t, err)
	assert.Nil(t, prediction)
	assert.Contains(t, err.Error(), "no JSON object")
}

// TestParsePrediction_MalformedJSON tests an unparseable JSON object
func TestParsePrediction_MalformedJSON(t *testing.T) {
	prediction, err := ParsePrediction(`{"predicted_winner": }`, "India", "Australia")

	assert.Error(t, err)
	assert.Nil(t, prediction)
}

// TestParsePrediction_NoProbabilities tests a verdict with all-zero percentages
func TestParsePrediction_NoProbabilities(t *testing.T) {
	prediction, err := ParsePrediction(`{"predicted_winner": "India"}`, "India", "Australia")

	assert.Error(t, err)
	assert.Nil(t, prediction)
	assert.Contains(t, err.Error(), "no probabilities")
}

// TestParsePrediction_ClampsOutOfRange tests clamping of out-of-range percentages
func TestParsePrediction_ClampsOutOfRange(t *testing.T) {
	raw := `{"predicted_winner": "Australia", "home_win_pct": -5, "away_win_pct": 140, "draw_pct": 30}`

	prediction, err := ParsePrediction(raw, "India", "Australia")

	require.NoError(t, err)
	assert.Equal(t, 0.0, prediction.HomeWinPct)
	assert.Equal(t, 100.0, prediction.AwayWinPct)
	assert.Equal(t, 30.0, prediction.DrawPct)
}

// TestExtractJSON_NestedObjects tests brace matching over nested objects
func TestExtractJSON_NestedObjects(t *testing.T) {
	s := `prefix {"outer": {"inner": 1}, "b": 2} suffix`

	assert.Equal(t, `{"outer": {"inner": 1}, "b": 2}`, extractJSON(s))
}

// TestExtractJSON_NoObject tests input with no braces
func TestExtractJSON_NoObject(t *testing.T) {
	assert.Equal(t, "", extractJSON("no json here"))
}
