// Package station provides monitoring station identity and persistence.
package station

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// Repository errors.
var (
	ErrStationNotFound = errors.New("station not found")
	ErrDuplicateCode   = errors.New("station code already exists")
)

// SourceType identifies who operates a station.
type SourceType string

const (
	// SourceOfficial marks government or authority-operated stations.
	SourceOfficial SourceType = "OFFICIAL"
	// SourceCitizen marks user-operated stations.
	SourceCitizen SourceType = "CITIZEN"
)

// Station represents an air quality monitoring station. The code is the
// globally unique, human-readable identity (provider-assigned for official
// stations) and is immutable once persisted.
type Station struct {
	ID           int64
	Code         string
	Name         string
	Municipality string
	// Latitude and Longitude are WGS84 coordinates, persisted as a
	// geometry(Point, 4326) column.
	Latitude  float64
	Longitude float64
	Source    SourceType
	// TrustScore is a community score derived from user votes.
	TrustScore int
	IsActive   bool
	// OwnerID references the owning user; nil for official stations.
	OwnerID   *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GenerateCode produces a code for citizen stations that registered
// without one: "AG-" followed by 8 uppercase hex characters.
func GenerateCode() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "AG-" + strings.ToUpper(hex.EncodeToString(buf))
}

// Status is the map-view projection of a station: its identity plus the
// most recent AQI reading, if any measurement exists.
type Status struct {
	ID             int64
	Code           string
	Name           string
	Latitude       float64
	Longitude      float64
	CurrentAQI     *int
	WorstPollutant *string
}

// BoundingBox is a geographic viewport filter in WGS84 coordinates.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}
