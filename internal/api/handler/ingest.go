package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aerogrid/aerogrid/internal/api/models"
	"github.com/aerogrid/aerogrid/internal/api/response"
	"github.com/aerogrid/aerogrid/internal/ingest"
)

// IngestHandler handles citizen sensor uploads.
type IngestHandler struct {
	citizens *ingest.CitizenService
	logger   zerolog.Logger
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(citizens *ingest.CitizenService, logger zerolog.Logger) *IngestHandler {
	return &IngestHandler{citizens: citizens, logger: logger}
}

// Ingest handles POST /v1/ingest. The submitting station is identified by
// its X-API-Key header; the reading is timestamped at ingestion.
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" {
		response.Unauthorized(w, r, "missing X-API-Key header")
		return
	}

	var req models.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body")
		return
	}

	reading, err := h.citizens.Ingest(r.Context(), apiKey, req.Pollutant, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrInvalidAPIKey):
			response.Unauthorized(w, r, "invalid or inactive API key")
		case errors.Is(err, ingest.ErrUnknownPollutant), errors.Is(err, ingest.ErrInvalidValue):
			response.BadRequest(w, r, err.Error())
		default:
			response.InternalError(w, r, "could not store measurement")
		}
		return
	}

	response.Created(w, r, models.IngestResponse{
		StationCode: reading.StationCode,
		Pollutant:   string(reading.Pollutant),
		Value:       reading.Value,
		Timestamp:   reading.Timestamp,
		AQI:         reading.AQI,
	})
}
