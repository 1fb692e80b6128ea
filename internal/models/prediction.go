package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Prediction sources, recorded so consumers can tell how a number was produced.
const (
	SourceCalibrator = "calibrator" // football scoreline model
	SourceOracle     = "oracle"     // LLM analyst
	SourceFallback   = "fallback"   // safe default after oracle failure
)

// OraclePrediction is the structured verdict parsed from an oracle response.
// Percentages follow the 0-100 convention.
type OraclePrediction struct {
	PredictedWinner string   `json:"predicted_winner"`
	HomeWinPct      float64  `json:"home_win_pct"`
	AwayWinPct      float64  `json:"away_win_pct"`
	DrawPct         float64  `json:"draw_pct"`
	Confidence      string   `json:"confidence"`
	Reasoning       string   `json:"reasoning"`
	KeyFactors      []string `json:"key_factors"`
}

// MatchPrediction is the persisted analytics record for one fixture on one day.
// The (match_key, match_date) pair is unique; reprocessing a fixture overwrites
// the earlier row.
type MatchPrediction struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	MatchKey          string         `gorm:"size:160;not null;uniqueIndex:idx_predictions_key_date" json:"match_key"`
	MatchDate         string         `gorm:"size:10;not null;uniqueIndex:idx_predictions_key_date" json:"match_date"`
	Sport             string         `gorm:"size:32;index" json:"sport"`
	League            string         `gorm:"size:64" json:"league,omitempty"`
	Season            string         `gorm:"size:16" json:"season,omitempty"`
	HomeTeam          string         `gorm:"size:96" json:"home_team"`
	AwayTeam          string         `gorm:"size:96" json:"away_team"`
	Kickoff           *time.Time     `json:"kickoff,omitempty"`
	Source            string         `gorm:"size:16" json:"source"`
	HomeWinPct        float64        `json:"home_win_pct"`
	DrawPct           float64        `json:"draw_pct"`
	AwayWinPct        float64        `json:"away_win_pct"`
	DrawScore         int            `json:"draw_score,omitempty"`
	PredictedWinner   string         `gorm:"size:96" json:"predicted_winner"`
	WinnerPct         float64        `json:"winner_pct"`
	Tier              string         `gorm:"size:16" json:"tier"`
	WinnerOdds        float64        `json:"winner_odds,omitempty"`
	Reasoning         string         `gorm:"type:text" json:"reasoning,omitempty"`
	KeyFactors        datatypes.JSON `json:"key_factors,omitempty"`
	RecentForm        string         `gorm:"size:32" json:"recent_form,omitempty"`
	XGAdvantage       float64        `json:"xg_advantage,omitempty"`
	OpponentInjuries  bool           `json:"opponent_injuries,omitempty"`
	HomeAdvantage     bool           `json:"home_advantage,omitempty"`
	RestDaysAdvantage int            `json:"rest_days_advantage,omitempty"`
	MarketOdds        datatypes.JSON `json:"market_odds,omitempty"`
	FairOdds          datatypes.JSON `json:"fair_odds,omitempty"`
	Analyses          datatypes.JSON `json:"analyses,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// TableName overrides the gorm default.
func (MatchPrediction) TableName() string {
	return "match_predictions"
}

// SetKeyFactors stores the factor list as a JSON column value.
func (p *MatchPrediction) SetKeyFactors(factors []string) error {
	if len(factors) == 0 {
		p.KeyFactors = nil
		return nil
	}
	raw, err := json.Marshal(factors)
	if err != nil {
		return err
	}
	p.KeyFactors = datatypes.JSON(raw)
	return nil
}

// SetMarketOdds stores the bookmaker snapshot as a JSON column value.
func (p *MatchPrediction) SetMarketOdds(odds MarketOdds) error {
	raw, err := json.Marshal(odds)
	if err != nil {
		return err
	}
	p.MarketOdds = datatypes.JSON(raw)
	return nil
}

// SetFairOdds stores the margin-free odds as a JSON column value.
func (p *MatchPrediction) SetFairOdds(odds MarketOdds) error {
	raw, err := json.Marshal(odds)
	if err != nil {
		return err
	}
	p.FairOdds = datatypes.JSON(raw)
	return nil
}

// SetAnalyses stores the per-outcome value breakdowns as a JSON column value.
func (p *MatchPrediction) SetAnalyses(analyses map[Outcome]BetAnalysis) error {
	if len(analyses) == 0 {
		p.Analyses = nil
		return nil
	}
	raw, err := json.Marshal(analyses)
	if err != nil {
		return err
	}
	p.Analyses = datatypes.JSON(raw)
	return nil
}

// GetAnalyses decodes the per-outcome value breakdowns, nil when absent.
func (p *MatchPrediction) GetAnalyses() (map[Outcome]BetAnalysis, error) {
	if len(p.Analyses) == 0 {
		return nil, nil
	}
	var analyses map[Outcome]BetAnalysis
	if err := json.Unmarshal(p.Analyses, &analyses); err != nil {
		return nil, err
	}
	return analyses, nil
}

// ToPick converts a stored prediction into an accumulator candidate.
func (p *MatchPrediction) ToPick() Pick {
	var factors []string
	if len(p.KeyFactors) > 0 {
		// A corrupt column degrades to an empty factor list.
		_ = json.Unmarshal(p.KeyFactors, &factors)
	}
	return Pick{
		MatchKey:          p.MatchKey,
		Sport:             p.Sport,
		League:            p.League,
		HomeTeam:          p.HomeTeam,
		AwayTeam:          p.AwayTeam,
		Winner:            p.PredictedWinner,
		WinProbabilityPct: p.WinnerPct,
		Odds:              p.WinnerOdds,
		Kickoff:           p.Kickoff,
		Reasoning:         p.Reasoning,
		KeyFactors:        factors,
		RecentForm:        p.RecentForm,
		XGAdvantage:       p.XGAdvantage,
		OpponentInjuries:  p.OpponentInjuries,
		HomeAdvantage:     p.HomeAdvantage,
		RestDaysAdvantage: p.RestDaysAdvantage,
	}
}
