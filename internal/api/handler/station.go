// Package handler provides HTTP handlers for the AeroGrid API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aerogrid/aerogrid/internal/api/models"
	"github.com/aerogrid/aerogrid/internal/api/response"
	"github.com/aerogrid/aerogrid/internal/station"
)

// StationHandler handles station read endpoints.
type StationHandler struct {
	stations station.Repository
	logger   zerolog.Logger
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(stations station.Repository, logger zerolog.Logger) *StationHandler {
	return &StationHandler{stations: stations, logger: logger}
}

// ListStations handles GET /v1/stations. With bbox query parameters it
// filters to the viewport; without them it returns every active station
// with its latest AQI.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("minLat") || r.URL.Query().Has("minLon") ||
		r.URL.Query().Has("maxLat") || r.URL.Query().Has("maxLon") {
		h.listInBoundingBox(w, r)
		return
	}

	statuses, err := h.stations.ListStatuses(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list station statuses failed")
		response.InternalError(w, r, "could not list stations")
		return
	}

	out := make([]models.Station, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, models.Station{
			Code:           s.Code,
			Name:           s.Name,
			Latitude:       s.Latitude,
			Longitude:      s.Longitude,
			CurrentAQI:     s.CurrentAQI,
			WorstPollutant: s.WorstPollutant,
		})
	}
	response.JSON(w, r, http.StatusOK, models.StationList{Stations: out, Count: len(out)})
}

func (h *StationHandler) listInBoundingBox(w http.ResponseWriter, r *http.Request) {
	box, err := parseBoundingBox(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	stations, err := h.stations.ListInBoundingBox(r.Context(), box)
	if err != nil {
		h.logger.Error().Err(err).Msg("bounding box query failed")
		response.InternalError(w, r, "could not list stations")
		return
	}

	out := make([]models.Station, 0, len(stations))
	for _, s := range stations {
		out = append(out, toStationModel(s))
	}
	response.JSON(w, r, http.StatusOK, models.StationList{Stations: out, Count: len(out)})
}

// GetStation handles GET /v1/stations/{code}.
func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	s, err := h.stations.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			response.NotFound(w, r, "station not found: "+code)
			return
		}
		h.logger.Error().Err(err).Str("code", code).Msg("station lookup failed")
		response.InternalError(w, r, "could not load station")
		return
	}

	response.JSON(w, r, http.StatusOK, toStationModel(s))
}

func toStationModel(s *station.Station) models.Station {
	return models.Station{
		Code:         s.Code,
		Name:         s.Name,
		Municipality: s.Municipality,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		Source:       string(s.Source),
	}
}

func parseBoundingBox(r *http.Request) (station.BoundingBox, error) {
	var box station.BoundingBox
	var err error

	if box.MinLat, err = parseCoord(r, "minLat"); err != nil {
		return box, err
	}
	if box.MinLon, err = parseCoord(r, "minLon"); err != nil {
		return box, err
	}
	if box.MaxLat, err = parseCoord(r, "maxLat"); err != nil {
		return box, err
	}
	if box.MaxLon, err = parseCoord(r, "maxLon"); err != nil {
		return box, err
	}

	if box.MinLat > box.MaxLat || box.MinLon > box.MaxLon {
		return box, errors.New("bounding box minimum exceeds maximum")
	}
	return box, nil
}

func parseCoord(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New("missing query parameter: " + name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("invalid query parameter: " + name)
	}
	return v, nil
}
