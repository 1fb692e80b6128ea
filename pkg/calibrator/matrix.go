package calibrator

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultMaxGoals caps the scoreline grid per side.
const DefaultMaxGoals = 10

// ScoreMatrix holds joint scoreline probabilities under independent Poisson
// goal models for the two sides.
type ScoreMatrix struct {
	maxGoals int
	cells    [][]float64
}

// NewScoreMatrix builds the joint grid for the given expected goals. Goal
// counts run 0..maxGoals inclusive per side. A non-positive lambda collapses
// that side's mass onto zero goals.
func NewScoreMatrix(lambdaHome, lambdaAway float64, maxGoals int) *ScoreMatrix {
	if maxGoals <= 0 {
		maxGoals = DefaultMaxGoals
	}
	home := poissonRow(lambdaHome, maxGoals)
	away := poissonRow(lambdaAway, maxGoals)

	cells := make([][]float64, maxGoals+1)
	for h := 0; h <= maxGoals; h++ {
		cells[h] = make([]float64, maxGoals+1)
		for a := 0; a <= maxGoals; a++ {
			cells[h][a] = home[h] * away[a]
		}
	}
	return &ScoreMatrix{maxGoals: maxGoals, cells: cells}
}

// poissonRow returns P(X=k) for k in 0..maxGoals.
func poissonRow(lambda float64, maxGoals int) []float64 {
	row := make([]float64, maxGoals+1)
	if lambda <= 0 {
		row[0] = 1.0
		return row
	}
	dist := distuv.Poisson{Lambda: lambda}
	for k := 0; k <= maxGoals; k++ {
		row[k] = dist.Prob(float64(k))
	}
	return row
}

// Prob returns the probability of an exact scoreline, zero outside the grid.
func (m *ScoreMatrix) Prob(homeGoals, awayGoals int) float64 {
	if homeGoals < 0 || homeGoals > m.maxGoals || awayGoals < 0 || awayGoals > m.maxGoals {
		return 0
	}
	return m.cells[homeGoals][awayGoals]
}

// MaxGoals returns the per-side goal cap of the grid.
func (m *ScoreMatrix) MaxGoals() int {
	return m.maxGoals
}

// TotalMass returns the probability captured by the truncated grid.
func (m *ScoreMatrix) TotalMass() float64 {
	var total float64
	for h := 0; h <= m.maxGoals; h++ {
		for a := 0; a <= m.maxGoals; a++ {
			total += m.cells[h][a]
		}
	}
	return total
}

// Outcomes sums the grid into home win, draw and away win mass. The three
// can fall slightly short of one together because the grid is truncated.
func (m *ScoreMatrix) Outcomes() (home, draw, away float64) {
	for h := 0; h <= m.maxGoals; h++ {
		for a := 0; a <= m.maxGoals; a++ {
			p := m.cells[h][a]
			switch {
			case h > a:
				home += p
			case h == a:
				draw += p
			default:
				away += p
			}
		}
	}
	return home, draw, away
}
