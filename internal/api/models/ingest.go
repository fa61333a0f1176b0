package models

import "time"

// IngestRequest is the citizen sensor reading submission body.
type IngestRequest struct {
	Pollutant string  `json:"pollutant"`
	Value     float64 `json:"value"`
}

// IngestResponse confirms an accepted citizen reading.
type IngestResponse struct {
	StationCode string    `json:"stationCode"`
	Pollutant   string    `json:"pollutant"`
	Value       float64   `json:"value"`
	Timestamp   time.Time `json:"timestamp"`
	AQI         *int      `json:"aqi,omitempty"`
}

// Health is the liveness/readiness response body.
type Health struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
