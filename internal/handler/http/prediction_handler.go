package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
	"github.com/cypherlabdev/match-prediction-service/internal/service"
)

// maxBatchSize bounds the ids accepted by the batch endpoint
const maxBatchSize = 100

// PredictionHandler serves cached predictions over HTTP
type PredictionHandler struct {
	reader service.PredictionReader
	logger zerolog.Logger
}

// NewPredictionHandler creates a new prediction HTTP handler
func NewPredictionHandler(reader service.PredictionReader, logger zerolog.Logger) *PredictionHandler {
	return &PredictionHandler{
		reader: reader,
		logger: logger.With().Str("component", "prediction_handler").Logger(),
	}
}

// RegisterRoutes registers HTTP routes with the provided router
func (h *PredictionHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	// GET /api/v1/predictions/{matchID}
	api.HandleFunc("/predictions/{matchID}", h.handleGetPrediction).Methods(http.MethodGet)

	// GET /api/v1/predictions?ids=1,2,3
	api.HandleFunc("/predictions", h.handleGetPredictions).Methods(http.MethodGet)
}

// PendingResponse is returned while a prediction has not been generated yet
type PendingResponse struct {
	MatchID int64  `json:"match_id"`
	Status  string `json:"status"`
	Error   string `json:"error"`
}

// BatchResponse is the response of the batch endpoint
type BatchResponse struct {
	Count       int                        `json:"count"`
	Predictions []*models.HybridPrediction `json:"predictions"`
	Pending     []int64                    `json:"pending"`
}

// handleGetPrediction handles GET /api/v1/predictions/{matchID}
func (h *PredictionHandler) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseMatchID(mux.Vars(r)["matchID"])
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "match id must be a positive integer")
		return
	}

	prediction, err := h.reader.GetPrediction(r.Context(), matchID)
	if err != nil {
		if errors.Is(err, models.ErrPredictionNotReady) {
			h.logger.Debug().Int64("match_id", matchID).Msg("prediction not ready")
			h.jsonResponse(w, http.StatusNotFound, PendingResponse{
				MatchID: matchID,
				Status:  "pending",
				Error:   "prediction not ready",
			})
			return
		}
		h.logger.Error().Err(err).Int64("match_id", matchID).Msg("failed to retrieve prediction")
		h.errorResponse(w, http.StatusInternalServerError, "failed to retrieve prediction")
		return
	}

	h.jsonResponse(w, http.StatusOK, prediction)
}

// handleGetPredictions handles GET /api/v1/predictions?ids=1,2,3
func (h *PredictionHandler) handleGetPredictions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		h.errorResponse(w, http.StatusBadRequest, "ids query parameter is required")
		return
	}

	seen := make(map[int64]bool)
	ids := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		id, err := parseMatchID(strings.TrimSpace(part))
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "invalid match id: "+part)
			return
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) > maxBatchSize {
		h.errorResponse(w, http.StatusBadRequest, "too many match ids, at most "+strconv.Itoa(maxBatchSize))
		return
	}

	found, pending := h.reader.GetPredictions(r.Context(), ids)

	predictions := make([]*models.HybridPrediction, 0, len(found))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			predictions = append(predictions, p)
		}
	}

	h.jsonResponse(w, http.StatusOK, BatchResponse{
		Count:       len(predictions),
		Predictions: predictions,
		Pending:     pending,
	})
}

func parseMatchID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("match id must be positive")
	}
	return id, nil
}

// jsonResponse writes a JSON response
func (h *PredictionHandler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes a JSON error response
func (h *PredictionHandler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{
		"error": message,
	})
}
