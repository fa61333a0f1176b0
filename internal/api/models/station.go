package models

import "time"

// Station is the API representation of a monitoring station.
type Station struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Municipality   string  `json:"municipality,omitempty"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Source         string  `json:"source"`
	CurrentAQI     *int    `json:"currentAqi,omitempty"`
	WorstPollutant *string `json:"worstPollutant,omitempty"`
}

// StationList is the envelope for station collection responses.
type StationList struct {
	Stations []Station `json:"stations"`
	Count    int       `json:"count"`
}

// Measurement is the API representation of a single hourly reading.
type Measurement struct {
	StationCode string    `json:"stationCode"`
	Pollutant   string    `json:"pollutant"`
	Value       float64   `json:"value"`
	Timestamp   time.Time `json:"timestamp"`
	AQI         *int      `json:"aqi,omitempty"`
}

// MeasurementList is the envelope for measurement collection responses.
type MeasurementList struct {
	StationCode  string        `json:"stationCode"`
	From         time.Time     `json:"from"`
	To           time.Time     `json:"to"`
	Measurements []Measurement `json:"measurements"`
	Count        int           `json:"count"`
}
