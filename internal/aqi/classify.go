package aqi

import "math"

// AQI levels range from 1 (good) to 6 (extremely poor), following the
// European Air Quality Index (EAQI) and the Spanish national index (ICA).
const (
	LevelGood          = 1
	LevelFair          = 2
	LevelModerate      = 3
	LevelPoor          = 4
	LevelVeryPoor      = 5
	LevelExtremelyPoor = 6
)

// breakpoints holds the inclusive upper bound of bands 1-5 per pollutant.
// A concentration above the last bound classifies as band 6. Units are
// µg/m³, except CO which is mg/m³. Pollutants without an entry (PM1, H2S,
// C6H6) have no defined index.
var breakpoints = map[Pollutant][5]float64{
	PollutantNO2:  {40, 90, 120, 230, 340},
	PollutantPM10: {20, 40, 50, 100, 150},
	PollutantPM25: {10, 20, 25, 50, 75},
	PollutantO3:   {50, 100, 130, 240, 380},
	PollutantSO2:  {100, 200, 350, 500, 750},
	PollutantCO:   {5, 10, 15, 25, 50},
}

// Classify maps a pollutant concentration to an AQI level between 1 and 6.
// It returns ok=false for negative or NaN values and for pollutants with
// no defined breakpoint table. Classify is pure and safe for concurrent use.
func Classify(p Pollutant, value float64) (int, bool) {
	if value < 0 || math.IsNaN(value) {
		return 0, false
	}

	bounds, ok := breakpoints[p]
	if !ok {
		return 0, false
	}

	for i, upper := range bounds {
		if value <= upper {
			return i + 1, true
		}
	}
	return LevelExtremelyPoor, true
}
