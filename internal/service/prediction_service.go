package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/match-analytics-service/internal/metrics"
	"github.com/cypherlabdev/match-analytics-service/internal/models"
	"github.com/cypherlabdev/match-analytics-service/internal/refdata"
	"github.com/cypherlabdev/match-analytics-service/internal/sportsdata"
	"github.com/cypherlabdev/match-analytics-service/internal/store"
	"github.com/cypherlabdev/match-analytics-service/pkg/analyzer"
	"github.com/cypherlabdev/match-analytics-service/pkg/calibrator"
	"github.com/cypherlabdev/match-analytics-service/pkg/oddsmath"
)

// ErrPredictionNotFound is returned when neither cache nor store has a
// prediction for the requested fixture and date.
var ErrPredictionNotFound = errors.New("prediction not found")

// fallbackReasoning replaces the oracle's analysis when it was unavailable.
const fallbackReasoning = "prediction model unavailable, defaulted to even win chances"

// PredictionService runs the fixture analytics pipeline: route each fixture
// to the calibrator or the oracle, score the market odds against the model
// and persist the resulting prediction.
type PredictionService struct {
	calibrator *calibrator.Calibrator
	analyzer   *analyzer.Analyzer
	oracle     Oracle
	sportsData SportsData
	store      Store
	cache      Cache
	catalog    *refdata.Catalog
	metrics    *metrics.PipelineMetrics
	logger     zerolog.Logger
	now        func() time.Time
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	cal *calibrator.Calibrator,
	ana *analyzer.Analyzer,
	oracle Oracle,
	sportsData SportsData,
	store Store,
	cache Cache,
	catalog *refdata.Catalog,
	pipelineMetrics *metrics.PipelineMetrics,
	logger zerolog.Logger,
) *PredictionService {
	return &PredictionService{
		calibrator: cal,
		analyzer:   ana,
		oracle:     oracle,
		sportsData: sportsData,
		store:      store,
		cache:      cache,
		catalog:    catalog,
		metrics:    pipelineMetrics,
		logger:     logger.With().Str("component", "prediction_service").Logger(),
		now:        time.Now,
	}
}

// ProcessFixture analyzes one fixture and upserts the prediction. Football
// fixtures with statistics go through the calibrator; everything else is
// asked of the oracle, with an even fallback when the oracle fails.
func (s *PredictionService) ProcessFixture(ctx context.Context, record models.FixtureRecord) (*models.MatchPrediction, error) {
	fixture := record.Fixture
	if fixture.MatchKey == "" || fixture.HomeTeam == "" || fixture.AwayTeam == "" {
		return nil, fmt.Errorf("fixture is missing match_key or team names")
	}

	started := s.now()

	matchDate := fixture.MatchDate()
	if matchDate == "" {
		// No usable kickoff in the feed, file under the processing day.
		matchDate = started.UTC().Format("2006-01-02")
	}

	sport := strings.ToLower(strings.TrimSpace(fixture.Sport))
	if sport == "" {
		// Some feeds omit the sport code; route by league instead.
		sport = s.catalog.SportForLeague(fixture.League)
	}
	record.Fixture.Sport = sport

	prediction := &models.MatchPrediction{
		MatchKey:  fixture.MatchKey,
		MatchDate: matchDate,
		Sport:     sport,
		League:    fixture.League,
		Season:    fixture.Season,
		HomeTeam:  fixture.HomeTeam,
		AwayTeam:  fixture.AwayTeam,
		Kickoff:   fixture.KickoffTime(),
	}

	var (
		triple     models.ProbabilityTriple
		source     string
		oraclePred *models.OraclePrediction
	)

	stats := record.Stats
	if sport == models.SportFootball {
		if stats == nil {
			stats = s.fetchStats(ctx, fixture.MatchKey)
		}
		if stats != nil {
			s.fillPositions(ctx, fixture, stats)
			input := calibrator.InputFromStats(stats)
			input.MidTableRank = s.catalog.MidTableRank(fixture.League)
			triple, prediction.DrawScore = s.calibrator.Calibrate(input)
			source = models.SourceCalibrator
		} else {
			s.logger.Debug().
				Str("match_key", fixture.MatchKey).
				Msg("no statistics for football fixture, asking the oracle")
		}
	}

	if source == "" {
		triple, oraclePred, source = s.oracleTriple(ctx, record)
	}
	prediction.Source = source

	winnerOutcome := triple.Favourite()
	winner := teamForOutcome(winnerOutcome, fixture)
	if oraclePred != nil && oraclePred.PredictedWinner != "" {
		// An oracle winner that names neither team nor the draw is ignored.
		if outcome, ok := outcomeForWinner(oraclePred.PredictedWinner, fixture); ok {
			winner = oraclePred.PredictedWinner
			winnerOutcome = outcome
		}
	}

	pcts := triple.AsPercentages()
	prediction.HomeWinPct = pcts.Home
	prediction.DrawPct = pcts.Draw
	prediction.AwayWinPct = pcts.Away
	prediction.PredictedWinner = winner
	prediction.WinnerPct = pcts.Of(winnerOutcome)
	prediction.Tier = string(models.TierForPct(prediction.WinnerPct))

	if oraclePred != nil {
		prediction.Reasoning = oraclePred.Reasoning
		if err := prediction.SetKeyFactors(oraclePred.KeyFactors); err != nil {
			s.logger.Warn().Err(err).Str("match_key", fixture.MatchKey).Msg("failed to encode key factors")
		}
	}
	if source == models.SourceFallback {
		prediction.Reasoning = fallbackReasoning
	}

	applySignals(prediction, stats, winnerOutcome)

	if record.Odds != nil {
		if err := s.applyOddsAnalysis(prediction, record.Odds.ToMarketOdds(), triple, winnerOutcome); err != nil {
			s.logger.Warn().Err(err).Str("match_key", fixture.MatchKey).Msg("odds analysis skipped")
		}
	}

	if err := s.store.Upsert(ctx, prediction); err != nil {
		s.metrics.RecordStoreWrite(false)
		return nil, fmt.Errorf("failed to persist prediction: %w", err)
	}
	s.metrics.RecordStoreWrite(true)
	s.metrics.RecordPrediction(source, sportLabel(sport), s.now().Sub(started).Seconds())

	s.logger.Info().
		Str("match_key", prediction.MatchKey).
		Str("match_date", prediction.MatchDate).
		Str("source", prediction.Source).
		Str("winner", prediction.PredictedWinner).
		Float64("winner_pct", prediction.WinnerPct).
		Str("tier", prediction.Tier).
		Msg("fixture analyzed")

	return prediction, nil
}

// ProcessBatch runs the pipeline over a fixture batch. Per-fixture failures
// are logged and skipped; the successful predictions are cached as a batch.
func (s *PredictionService) ProcessBatch(ctx context.Context, envelope models.FixtureEnvelope) ([]*models.MatchPrediction, error) {
	if len(envelope.Fixtures) == 0 {
		return nil, nil
	}

	predictions := make([]*models.MatchPrediction, 0, len(envelope.Fixtures))
	failed := 0
	for _, record := range envelope.Fixtures {
		if err := ctx.Err(); err != nil {
			s.metrics.RecordBatch(len(predictions), failed)
			return predictions, err
		}

		prediction, err := s.ProcessFixture(ctx, record)
		if err != nil {
			failed++
			s.logger.Warn().
				Err(err).
				Str("match_key", record.Fixture.MatchKey).
				Str("batch_id", envelope.BatchID).
				Msg("skipping fixture")
			continue
		}
		predictions = append(predictions, prediction)
	}

	if len(predictions) > 0 {
		if err := s.cache.SetBatch(ctx, predictions); err != nil {
			s.logger.Warn().
				Err(err).
				Int("count", len(predictions)).
				Msg("failed to cache prediction batch")
			// Don't fail the batch on cache errors
		}
	}

	s.metrics.RecordBatch(len(predictions), failed)

	s.logger.Info().
		Int("input_count", len(envelope.Fixtures)).
		Int("output_count", len(predictions)).
		Str("batch_id", envelope.BatchID).
		Msg("processed fixture batch")

	return predictions, nil
}

// GetPrediction retrieves a prediction with cache-first strategy
func (s *PredictionService) GetPrediction(ctx context.Context, matchKey, matchDate string) (*models.MatchPrediction, error) {
	cached, err := s.cache.Get(ctx, matchKey, matchDate)
	if err == nil && cached != nil {
		s.metrics.RecordCacheLookup(true)
		s.logger.Debug().
			Str("match_key", matchKey).
			Str("match_date", matchDate).
			Msg("cache hit for prediction")
		return cached, nil
	}
	s.metrics.RecordCacheLookup(false)

	prediction, err := s.store.GetByKey(ctx, matchKey, matchDate)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, fmt.Errorf("failed to load prediction: %w", err)
	}

	if err := s.cache.Set(ctx, prediction); err != nil {
		s.logger.Warn().
			Err(err).
			Str("match_key", matchKey).
			Msg("failed to cache prediction")
		// Don't fail the request on cache errors
	}

	return prediction, nil
}

// ListPredictions returns the day's predictions, optionally sport-filtered.
// When the store is unavailable the cache covers the request as well as it
// can, which may be a subset.
func (s *PredictionService) ListPredictions(ctx context.Context, matchDate, sport string) ([]*models.MatchPrediction, error) {
	predictions, err := s.store.ListByDate(ctx, matchDate, sport)
	if err == nil {
		return predictions, nil
	}

	s.logger.Warn().
		Err(err).
		Str("match_date", matchDate).
		Msg("store list failed, serving from cache")

	cached, cacheErr := s.cache.GetByDate(ctx, matchDate)
	if cacheErr != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	if sport == "" {
		return cached, nil
	}

	filtered := cached[:0]
	for _, prediction := range cached {
		if strings.EqualFold(prediction.Sport, sport) {
			filtered = append(filtered, prediction)
		}
	}
	return filtered, nil
}

// ReprocessDate pulls a day's fixtures from the sports data provider and
// runs them through the pipeline, e.g. to recover from a missed feed batch.
func (s *PredictionService) ReprocessDate(ctx context.Context, matchDate, sport string) ([]*models.MatchPrediction, error) {
	records, err := s.sportsData.FixturesByDate(ctx, matchDate, sport)
	if err != nil {
		if errors.Is(err, sportsdata.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch fixtures: %w", err)
	}

	envelope := models.FixtureEnvelope{
		Fixtures:  records,
		Timestamp: s.now().UTC(),
		BatchID:   "reprocess-" + matchDate,
	}
	return s.ProcessBatch(ctx, envelope)
}

// oracleTriple asks the oracle for a prediction and converts it into the
// core probability convention. Failures degrade to even home/away chances
// tagged with the fallback source.
func (s *PredictionService) oracleTriple(ctx context.Context, record models.FixtureRecord) (models.ProbabilityTriple, *models.OraclePrediction, string) {
	started := s.now()
	pred, err := s.oracle.Predict(ctx, record)
	latency := s.now().Sub(started).Seconds()

	if err != nil {
		s.metrics.RecordOracleCall("error", latency)
		s.metrics.RecordOracleError(oracleErrorType(err))
		s.logger.Warn().
			Err(err).
			Str("match_key", record.Fixture.MatchKey).
			Msg("oracle prediction failed, using even fallback")
		return models.ProbabilityTriple{Home: 0.5, Away: 0.5}, nil, models.SourceFallback
	}
	s.metrics.RecordOracleCall("ok", latency)

	triple := models.ProbabilityTriple{
		Home: pred.HomeWinPct / 100,
		Draw: pred.DrawPct / 100,
		Away: pred.AwayWinPct / 100,
	}
	if sum := triple.Sum(); sum > 0 {
		triple.Home /= sum
		triple.Draw /= sum
		triple.Away /= sum
	}
	return triple, pred, models.SourceOracle
}

// fetchStats pulls per-fixture statistics from the sports data provider.
// Absence and provider failures both come back as nil.
func (s *PredictionService) fetchStats(ctx context.Context, matchKey string) *models.TeamMatchStats {
	stats, err := s.sportsData.MatchStats(ctx, matchKey)
	if err != nil {
		if !errors.Is(err, sportsdata.ErrNotFound) {
			s.logger.Warn().
				Err(err).
				Str("match_key", matchKey).
				Msg("failed to fetch match statistics")
		}
		return nil
	}
	return stats
}

// fillPositions resolves missing league positions from the standings table.
// Cup fixtures carry no league and are left untouched.
func (s *PredictionService) fillPositions(ctx context.Context, fixture models.Fixture, stats *models.TeamMatchStats) {
	if stats.PositionHome != nil && stats.PositionAway != nil {
		return
	}
	if fixture.League == "" {
		return
	}

	standings, err := s.sportsData.Standings(ctx, fixture.League, fixture.Season)
	if err != nil {
		if !errors.Is(err, sportsdata.ErrNotFound) {
			s.logger.Warn().
				Err(err).
				Str("league", fixture.League).
				Msg("failed to fetch standings")
		}
		return
	}

	for _, row := range standings {
		switch {
		case stats.PositionHome == nil && strings.EqualFold(row.Team, fixture.HomeTeam):
			pos := row.Position
			stats.PositionHome = &pos
		case stats.PositionAway == nil && strings.EqualFold(row.Team, fixture.AwayTeam):
			pos := row.Position
			stats.PositionAway = &pos
		}
	}
}

// applyOddsAnalysis attaches the market snapshot, margin-free odds and the
// per-outcome value breakdowns to the prediction.
func (s *PredictionService) applyOddsAnalysis(prediction *models.MatchPrediction, market models.MarketOdds, triple models.ProbabilityTriple, winnerOutcome models.Outcome) error {
	fair, err := oddsmath.RemoveMargin(market)
	if err != nil {
		s.logger.Warn().
			Str("match_key", prediction.MatchKey).
			Msg("market quotes partially invalid, margin removal degraded")
	}

	if err := prediction.SetMarketOdds(market); err != nil {
		return fmt.Errorf("failed to encode market odds: %w", err)
	}
	if err := prediction.SetFairOdds(fair); err != nil {
		return fmt.Errorf("failed to encode fair odds: %w", err)
	}
	if err := prediction.SetAnalyses(s.analyzer.AnalyzeMatchOdds(market, triple, 0)); err != nil {
		return fmt.Errorf("failed to encode analyses: %w", err)
	}

	prediction.WinnerOdds = market.Of(winnerOutcome)
	return nil
}

// applySignals derives the pick justification signals from the statistics
// line, seen from the predicted winner's side. A draw pick carries none.
func applySignals(prediction *models.MatchPrediction, stats *models.TeamMatchStats, winnerOutcome models.Outcome) {
	if stats == nil {
		return
	}

	switch winnerOutcome {
	case models.OutcomeHome:
		prediction.RecentForm = stats.RecentFormHome
		if gap := stats.XGHome - stats.XGAway; gap > 0 {
			prediction.XGAdvantage = gap
		}
		prediction.OpponentInjuries = stats.InjuriesAway > 0
		prediction.HomeAdvantage = true
		if rest := stats.RestDaysHome - stats.RestDaysAway; rest > 0 {
			prediction.RestDaysAdvantage = rest
		}
	case models.OutcomeAway:
		prediction.RecentForm = stats.RecentFormAway
		if gap := stats.XGAway - stats.XGHome; gap > 0 {
			prediction.XGAdvantage = gap
		}
		prediction.OpponentInjuries = stats.InjuriesHome > 0
		if rest := stats.RestDaysAway - stats.RestDaysHome; rest > 0 {
			prediction.RestDaysAdvantage = rest
		}
	}
}

// teamForOutcome maps a 1X2 outcome onto the displayed winner.
func teamForOutcome(outcome models.Outcome, fixture models.Fixture) string {
	switch outcome {
	case models.OutcomeHome:
		return fixture.HomeTeam
	case models.OutcomeAway:
		return fixture.AwayTeam
	default:
		return "Draw"
	}
}

// outcomeForWinner maps a winner name back onto its 1X2 outcome.
func outcomeForWinner(winner string, fixture models.Fixture) (models.Outcome, bool) {
	switch {
	case strings.EqualFold(winner, fixture.HomeTeam):
		return models.OutcomeHome, true
	case strings.EqualFold(winner, fixture.AwayTeam):
		return models.OutcomeAway, true
	case strings.EqualFold(winner, "Draw"):
		return models.OutcomeDraw, true
	}
	return "", false
}

// sportLabel keeps the metrics label non-empty.
func sportLabel(sport string) string {
	if sport == "" {
		return "unknown"
	}
	return sport
}

// oracleErrorType buckets an oracle failure for metrics.
func oracleErrorType(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "timeout"
	}
	return "api"
}
