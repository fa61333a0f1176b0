package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aerogrid/aerogrid/internal/apikey"
	"github.com/aerogrid/aerogrid/internal/aqi"
	"github.com/aerogrid/aerogrid/internal/measurement"
)

// Citizen ingestion errors. Unlike the batch path, a citizen upload has a
// caller waiting synchronously, so failures are explicit and distinct.
var (
	ErrInvalidAPIKey    = errors.New("invalid or inactive api key")
	ErrUnknownPollutant = errors.New("unknown pollutant")
	ErrInvalidValue     = errors.New("invalid measurement value")
	ErrStorageFailure   = errors.New("measurement could not be stored")
)

// CitizenService ingests single readings uploaded by citizen stations,
// feeding them through the same classification and conflict-tolerant
// persistence as batch imports.
type CitizenService struct {
	keys         apikey.Repository
	measurements measurement.Repository
	logger       zerolog.Logger
	now          func() time.Time
}

// CitizenServiceConfig holds dependencies for a CitizenService.
type CitizenServiceConfig struct {
	Keys         apikey.Repository
	Measurements measurement.Repository
	Logger       zerolog.Logger
	// Now overrides the ingestion clock; used by tests. Defaults to
	// time.Now.
	Now func() time.Time
}

// NewCitizenService creates a new CitizenService.
func NewCitizenService(cfg CitizenServiceConfig) *CitizenService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &CitizenService{
		keys:         cfg.Keys,
		measurements: cfg.Measurements,
		logger:       cfg.Logger,
		now:          now,
	}
}

// CitizenReading is a stored citizen upload, echoed back to the caller.
type CitizenReading struct {
	StationCode string
	Pollutant   aqi.Pollutant
	Value       float64
	Timestamp   time.Time
	AQI         *int
}

// Ingest validates the credential, normalizes the reading and persists it
// with the ingestion time as its timestamp. The returned reading carries
// the computed AQI, if any.
func (s *CitizenService) Ingest(ctx context.Context, apiKey, pollutantRaw string, value float64) (*CitizenReading, error) {
	st, err := s.keys.ResolveActive(ctx, apiKey)
	if err != nil {
		if errors.Is(err, apikey.ErrKeyNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("resolve api key: %w", err)
	}

	pollutant, ok := aqi.ParsePollutant(pollutantRaw)
	if !ok {
		s.logger.Warn().
			Str("station", st.Code).
			Str("pollutant", pollutantRaw).
			Msg("citizen upload with unknown pollutant")
		return nil, fmt.Errorf("%w: %q", ErrUnknownPollutant, pollutantRaw)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, ErrInvalidValue
	}

	m := &measurement.Measurement{
		StationID: st.ID,
		Pollutant: pollutant,
		Value:     value,
		Timestamp: s.now(),
	}
	if level, ok := aqi.Classify(pollutant, value); ok {
		m.AQI = &level
	}

	if _, err := s.measurements.Insert(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("station", st.Code).Msg("citizen measurement insert failed")
		return nil, ErrStorageFailure
	}

	s.logger.Debug().
		Str("station", st.Code).
		Str("pollutant", string(pollutant)).
		Float64("value", value).
		Msg("citizen measurement accepted")

	return &CitizenReading{
		StationCode: st.Code,
		Pollutant:   pollutant,
		Value:       m.Value,
		Timestamp:   m.Timestamp,
		AQI:         m.AQI,
	}, nil
}
