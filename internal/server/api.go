package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/afroash/pool-monitor/internal/models"
)

// APIHandler handles the ingestion and retrieval endpoints
type APIHandler struct {
	store    ReadingStore
	sensorID string
	logger   zerolog.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(store ReadingStore, sensorID string, logger zerolog.Logger) *APIHandler {
	return &APIHandler{
		store:    store,
		sensorID: sensorID,
		logger:   logger,
	}
}

// HandleWrite accepts a temperature submission from the probe.
// A valid reading is written as the new current record and a new history
// record in one logical operation. Every accepted call appends history;
// resubmitting the same value is allowed and creates a duplicate entry.
func (api *APIHandler) HandleWrite(w http.ResponseWriter, r *http.Request) {
	var req models.WriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.logger.Warn().Err(err).Msg("Rejected write: malformed body")
		api.writeJSON(w, http.StatusBadRequest, models.WriteResponse{
			Success: false,
			Error:   "Invalid temperature",
		})
		return
	}

	temperature, err := req.ParseTemperature()
	if err != nil {
		api.logger.Warn().Str("raw", req.Temperature.String()).Msg("Rejected write: invalid temperature")
		api.writeJSON(w, http.StatusBadRequest, models.WriteResponse{
			Success: false,
			Error:   "Invalid temperature",
		})
		return
	}

	reading := models.NewReading(api.sensorID, temperature)
	if err := api.store.PutCurrentAndAppendHistory(reading); err != nil {
		api.logger.Error().Err(err).Msg("Failed to store reading")
		api.writeJSON(w, http.StatusInternalServerError, models.WriteResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	api.logger.Info().
		Float64("temperature", reading.Temperature).
		Time("timestamp", reading.Timestamp).
		Msg("Reading stored")

	api.writeJSON(w, http.StatusOK, models.WriteResponse{Success: true})
}

// HandleRead returns the current reading. No side effects, no cache in
// front of it: freshness is the whole point of this endpoint. A missing
// reading is an empty object, not an error.
func (api *APIHandler) HandleRead(w http.ResponseWriter, r *http.Request) {
	reading, err := api.store.GetCurrent(api.sensorID)
	if err != nil {
		api.logger.Error().Err(err).Msg("Failed to get current reading")
		api.writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to read current temperature",
		})
		return
	}

	api.writeJSON(w, http.StatusOK, models.NewReadResponse(reading))
}

// HandleHistory returns recent history records for charting
func (api *APIHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit := 50 // default
	if limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	readings, err := api.store.GetHistory(api.sensorID, limit)
	if err != nil {
		api.logger.Error().Err(err).Msg("Failed to get history")
		api.writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to read history",
		})
		return
	}
	if readings == nil {
		readings = []*models.Reading{}
	}

	api.writeJSON(w, http.StatusOK, readings)
}

// HandleStats returns store statistics
func (api *APIHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := api.store.GetStorageStats()
	if err != nil {
		api.logger.Error().Err(err).Msg("Failed to get storage stats")
		api.writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to read stats",
		})
		return
	}

	api.writeJSON(w, http.StatusOK, stats)
}

// HealthResponse is the body returned by GET /health
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
}

// HandleHealth returns a liveness response
func (api *APIHandler) HandleHealth(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.writeJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: version,
			Time:    time.Now().UTC(),
		})
	}
}

// writeJSON encodes a JSON response with the given status code
func (api *APIHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		api.logger.Error().Err(err).Msg("Failed to encode response")
	}
}
