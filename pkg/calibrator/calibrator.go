// Package calibrator produces three-way probabilities for football fixtures
// by blending a rule-based draw score with a Poisson scoreline model.
package calibrator

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
)

// DefaultMidTableRank is the league position from which a team counts as
// mid-table or lower.
const DefaultMidTableRank = 6

// Signal weights for the rule-based draw score.
const (
	xgParityThreshold         = 0.3
	xgParityPoints            = 10
	lowScoringThreshold       = 2.0
	lowScoringPoints          = 5
	possessionParityThreshold = 4.0
	possessionParityPoints    = 3
	shotParityThreshold       = 2
	shotParityPoints          = 3
	h2hDrawRateThreshold      = 0.30
	h2hDrawRatePoints         = 2
	midTablePoints            = 2
)

// Draw score above the cutoff maps to the elevated draw probability.
const (
	highDrawScoreCutoff = 20
	highDrawProbability = 0.35
	baseDrawProbability = 0.15
)

// Params configures the calibrator.
type Params struct {
	MaxGoals     int // scoreline grid cap per side
	MidTableRank int // league position from which a team counts as mid-table
}

// DefaultParams returns the standard calibrator configuration.
func DefaultParams() Params {
	return Params{
		MaxGoals:     DefaultMaxGoals,
		MidTableRank: DefaultMidTableRank,
	}
}

// Input is one fixture's statistics line. League positions are optional;
// the mid-table rule is skipped when either is missing. MidTableRank
// overrides the configured rank for this fixture when positive.
type Input struct {
	XGHome             float64
	XGAway             float64
	PossessionHome     float64
	PossessionAway     float64
	ShotsOnTargetHome  int
	ShotsOnTargetAway  int
	HeadToHeadDrawRate float64
	PositionHome       *int
	PositionAway       *int
	MidTableRank       int
}

// InputFromStats maps feed statistics onto a calibrator input.
func InputFromStats(s *models.TeamMatchStats) Input {
	if s == nil {
		return Input{}
	}
	return Input{
		XGHome:             s.XGHome,
		XGAway:             s.XGAway,
		PossessionHome:     s.PossessionHome,
		PossessionAway:     s.PossessionAway,
		ShotsOnTargetHome:  s.ShotsOnTargetHome,
		ShotsOnTargetAway:  s.ShotsOnTargetAway,
		HeadToHeadDrawRate: s.HeadToHeadDrawRate,
		PositionHome:       s.PositionHome,
		PositionAway:       s.PositionAway,
	}
}

// Calibrator turns fixture statistics into calibrated 1X2 probabilities.
type Calibrator struct {
	params Params
	logger zerolog.Logger
}

// New creates a calibrator, falling back to defaults for unset parameters.
func New(params Params, logger zerolog.Logger) *Calibrator {
	if params.MaxGoals <= 0 {
		params.MaxGoals = DefaultMaxGoals
	}
	if params.MidTableRank <= 0 {
		params.MidTableRank = DefaultMidTableRank
	}
	return &Calibrator{
		params: params,
		logger: logger.With().Str("component", "calibrator").Logger(),
	}
}

// DrawScore accumulates the weighted draw signals for a fixture.
func (c *Calibrator) DrawScore(in Input) int {
	score := 0

	if math.Abs(in.XGHome-in.XGAway) < xgParityThreshold {
		score += xgParityPoints
	}
	if in.XGHome+in.XGAway < lowScoringThreshold {
		score += lowScoringPoints
	}
	if math.Abs(in.PossessionHome-in.PossessionAway) <= possessionParityThreshold {
		score += possessionParityPoints
	}
	if absInt(in.ShotsOnTargetHome-in.ShotsOnTargetAway) < shotParityThreshold {
		score += shotParityPoints
	}
	if in.HeadToHeadDrawRate > h2hDrawRateThreshold {
		score += h2hDrawRatePoints
	}
	if c.bothMidTable(in) {
		score += midTablePoints
	}

	return score
}

// bothMidTable reports whether both sides sit at or below the mid-table rank.
// Missing positions skip the rule entirely.
func (c *Calibrator) bothMidTable(in Input) bool {
	if in.PositionHome == nil || in.PositionAway == nil {
		return false
	}
	rank := in.MidTableRank
	if rank <= 0 {
		rank = c.params.MidTableRank
	}
	return *in.PositionHome >= rank && *in.PositionAway >= rank
}

// Calibrate produces the three-way probability triple and the draw score
// behind it. The draw probability comes from the rule score; home and away
// split the remainder in proportion to their Poisson scoreline mass. The
// triple always sums to one.
func (c *Calibrator) Calibrate(in Input) (models.ProbabilityTriple, int) {
	score := c.DrawScore(in)

	draw := baseDrawProbability
	if score > highDrawScoreCutoff {
		draw = highDrawProbability
	}

	matrix := NewScoreMatrix(in.XGHome, in.XGAway, c.params.MaxGoals)
	homeRaw, _, awayRaw := matrix.Outcomes()

	remainder := 1.0 - draw
	nonDraw := homeRaw + awayRaw

	var home, away float64
	if nonDraw <= 0 {
		// Degenerate scoreline model, split the remainder evenly.
		home = remainder / 2
		away = remainder / 2
	} else {
		home = remainder * homeRaw / nonDraw
		away = remainder * awayRaw / nonDraw
	}

	triple := models.ProbabilityTriple{Home: home, Draw: draw, Away: away}

	c.logger.Debug().
		Int("draw_score", score).
		Float64("home", triple.Home).
		Float64("draw", triple.Draw).
		Float64("away", triple.Away).
		Msg("fixture calibrated")

	return triple, score
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
