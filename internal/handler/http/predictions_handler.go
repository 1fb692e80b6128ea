package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/match-analytics-service/internal/service"
	"github.com/cypherlabdev/match-analytics-service/pkg/accumulator"
)

// PredictionsHandler handles HTTP requests for match predictions and
// accumulators
type PredictionsHandler struct {
	predictions  *service.PredictionService
	accumulators *service.AccumulatorService
	logger       zerolog.Logger
}

// NewPredictionsHandler creates a new predictions HTTP handler
func NewPredictionsHandler(
	predictions *service.PredictionService,
	accumulators *service.AccumulatorService,
	logger zerolog.Logger,
) *PredictionsHandler {
	return &PredictionsHandler{
		predictions:  predictions,
		accumulators: accumulators,
		logger:       logger.With().Str("component", "predictions_handler").Logger(),
	}
}

// RegisterRoutes registers HTTP routes with the provided mux
func (h *PredictionsHandler) RegisterRoutes(mux *http.ServeMux) {
	// GET /api/v1/predictions?date=&sport= - List a day's predictions
	mux.HandleFunc("/api/v1/predictions", h.handleListPredictions)

	// GET /api/v1/predictions/:match_key?date= - Get a single prediction
	mux.HandleFunc("/api/v1/predictions/", h.handleGetPrediction)

	// GET /api/v1/accumulator?date=&legs=&sport=&format= - Build an accumulator
	mux.HandleFunc("/api/v1/accumulator", h.handleGetAccumulator)

	// POST /api/v1/reprocess?date=&sport= - Re-run a day through the pipeline
	mux.HandleFunc("/api/v1/reprocess", h.handleReprocess)
}

// handleGetPrediction handles GET /api/v1/predictions/:match_key
func (h *PredictionsHandler) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Parse path: /api/v1/predictions/:match_key
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/predictions/")
	parts := strings.Split(path, "/")

	if len(parts) != 1 || parts[0] == "" {
		h.errorResponse(w, http.StatusBadRequest, "invalid path: expected /api/v1/predictions/:match_key")
		return
	}
	matchKey := parts[0]

	matchDate, err := matchDateParam(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	prediction, err := h.predictions.GetPrediction(r.Context(), matchKey, matchDate)
	if err != nil {
		if errors.Is(err, service.ErrPredictionNotFound) {
			h.logger.Debug().
				Str("match_key", matchKey).
				Str("match_date", matchDate).
				Msg("prediction not found")
			h.errorResponse(w, http.StatusNotFound, "prediction not found")
			return
		}
		h.logger.Error().
			Err(err).
			Str("match_key", matchKey).
			Msg("failed to retrieve prediction")
		h.errorResponse(w, http.StatusInternalServerError, "failed to retrieve prediction")
		return
	}

	h.jsonResponse(w, http.StatusOK, prediction)
}

// handleListPredictions handles GET /api/v1/predictions
func (h *PredictionsHandler) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	matchDate, err := matchDateParam(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	sport := r.URL.Query().Get("sport")

	predictions, err := h.predictions.ListPredictions(r.Context(), matchDate, sport)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("match_date", matchDate).
			Msg("failed to list predictions")
		h.errorResponse(w, http.StatusInternalServerError, "failed to retrieve predictions")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"match_date":  matchDate,
		"count":       len(predictions),
		"predictions": predictions,
	})
}

// handleGetAccumulator handles GET /api/v1/accumulator
func (h *PredictionsHandler) handleGetAccumulator(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	matchDate, err := matchDateParam(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := accumulator.BuildOptions{
		Sport: r.URL.Query().Get("sport"),
	}
	if raw := r.URL.Query().Get("legs"); raw != "" {
		legs, err := strconv.Atoi(raw)
		if err != nil || legs < 1 {
			h.errorResponse(w, http.StatusBadRequest, "invalid legs: expected a positive integer")
			return
		}
		opts.Legs = legs
	}
	if raw := r.URL.Query().Get("min_confidence"); raw != "" {
		minConfidence, err := strconv.ParseFloat(raw, 64)
		if err != nil || minConfidence < 0 || minConfidence > 100 {
			h.errorResponse(w, http.StatusBadRequest, "invalid min_confidence: expected a percentage")
			return
		}
		opts.MinConfidencePct = minConfidence
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "text" {
		h.errorResponse(w, http.StatusBadRequest, "invalid format: expected text or json")
		return
	}

	acc, err := h.accumulators.BuildAccumulator(r.Context(), matchDate, opts)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("match_date", matchDate).
			Msg("failed to build accumulator")
		h.errorResponse(w, http.StatusInternalServerError, "failed to build accumulator")
		return
	}

	if format == "text" {
		h.textResponse(w, http.StatusOK, accumulator.FormatText(acc))
		return
	}
	h.jsonResponse(w, http.StatusOK, accumulator.FormatJSON(acc))
}

// handleReprocess handles POST /api/v1/reprocess
func (h *PredictionsHandler) handleReprocess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	matchDate, err := matchDateParam(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	sport := r.URL.Query().Get("sport")

	predictions, err := h.predictions.ReprocessDate(r.Context(), matchDate, sport)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("match_date", matchDate).
			Msg("failed to reprocess fixtures")
		h.errorResponse(w, http.StatusInternalServerError, "failed to reprocess fixtures")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"match_date": matchDate,
		"count":      len(predictions),
	})
}

// matchDateParam returns the validated date query parameter, defaulting to
// the current day in UTC.
func matchDateParam(r *http.Request) (string, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return time.Now().UTC().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return date, nil
}

// jsonResponse writes a JSON response
func (h *PredictionsHandler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// textResponse writes a plain text response
func (h *PredictionsHandler) textResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Error().Err(err).Msg("failed to write text response")
	}
}

// errorResponse writes a JSON error response
func (h *PredictionsHandler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{
		"error": message,
	})
}
