package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aerogrid/aerogrid/internal/api/models"
	"github.com/aerogrid/aerogrid/internal/api/response"
	"github.com/aerogrid/aerogrid/internal/measurement"
	"github.com/aerogrid/aerogrid/internal/station"
)

// defaultHistoryWindow is the measurement window when from/to are omitted.
const defaultHistoryWindow = 24 * time.Hour

// MeasurementHandler handles measurement read endpoints.
type MeasurementHandler struct {
	stations     station.Repository
	measurements measurement.Repository
	logger       zerolog.Logger
}

// NewMeasurementHandler creates a new MeasurementHandler.
func NewMeasurementHandler(stations station.Repository, measurements measurement.Repository, logger zerolog.Logger) *MeasurementHandler {
	return &MeasurementHandler{
		stations:     stations,
		measurements: measurements,
		logger:       logger,
	}
}

// ListMeasurements handles GET /v1/measurements?stationCode=&from=&to=.
// The window defaults to the last 24 hours.
func (h *MeasurementHandler) ListMeasurements(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("stationCode")
	if code == "" {
		response.BadRequest(w, r, "missing query parameter: stationCode")
		return
	}

	to, err := parseTimeParam(r, "to", time.Now().UTC())
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	from, err := parseTimeParam(r, "from", to.Add(-defaultHistoryWindow))
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	if from.After(to) {
		response.BadRequest(w, r, "from must not be after to")
		return
	}

	if _, err := h.stations.GetByCode(r.Context(), code); err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			response.NotFound(w, r, "station not found: "+code)
			return
		}
		h.logger.Error().Err(err).Str("code", code).Msg("station lookup failed")
		response.InternalError(w, r, "could not load measurements")
		return
	}

	readings, err := h.measurements.ListByStationBetween(r.Context(), code, from, to)
	if err != nil {
		h.logger.Error().Err(err).Str("code", code).Msg("measurement query failed")
		response.InternalError(w, r, "could not load measurements")
		return
	}

	out := make([]models.Measurement, 0, len(readings))
	for _, m := range readings {
		out = append(out, models.Measurement{
			StationCode: code,
			Pollutant:   string(m.Pollutant),
			Value:       m.Value,
			Timestamp:   m.Timestamp,
			AQI:         m.AQI,
		})
	}

	response.JSON(w, r, http.StatusOK, models.MeasurementList{
		StationCode:  code,
		From:         from,
		To:           to,
		Measurements: out,
		Count:        len(out),
	})
}

func parseTimeParam(r *http.Request, name string, def time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New("invalid query parameter: " + name + " (expected RFC3339)")
	}
	return t, nil
}
