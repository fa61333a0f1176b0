package aqi_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerogrid/aerogrid/internal/aqi"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		pollutant aqi.Pollutant
		value     float64
		want      int
	}{
		{"NO2 at band 1 bound", aqi.PollutantNO2, 40, 1},
		{"NO2 just above band 1", aqi.PollutantNO2, 40.0001, 2},
		{"NO2 mid band 3", aqi.PollutantNO2, 100, 3},
		{"NO2 extreme", aqi.PollutantNO2, 1000, 6},
		{"PM10 zero", aqi.PollutantPM10, 0, 1},
		{"PM10 at band 5 bound", aqi.PollutantPM10, 150, 5},
		{"PM10 above band 5", aqi.PollutantPM10, 150.5, 6},
		{"PM2.5 band 2", aqi.PollutantPM25, 15, 2},
		{"O3 band 4", aqi.PollutantO3, 200, 4},
		{"SO2 band 1", aqi.PollutantSO2, 100, 1},
		{"CO band 3", aqi.PollutantCO, 12.5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := aqi.Classify(tt.pollutant, tt.value)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Monotonic(t *testing.T) {
	classified := []aqi.Pollutant{
		aqi.PollutantNO2, aqi.PollutantPM10, aqi.PollutantPM25,
		aqi.PollutantO3, aqi.PollutantSO2, aqi.PollutantCO,
	}

	for _, p := range classified {
		prev := 0
		for v := 0.0; v <= 1000; v += 0.5 {
			level, ok := aqi.Classify(p, v)
			require.True(t, ok, "pollutant %s value %f", p, v)
			assert.GreaterOrEqual(t, level, prev, "pollutant %s value %f", p, v)
			prev = level
		}
	}
}

func TestClassify_InvalidValues(t *testing.T) {
	for _, p := range aqi.All() {
		_, ok := aqi.Classify(p, -0.001)
		assert.False(t, ok, "negative value must not classify for %s", p)

		_, ok = aqi.Classify(p, math.NaN())
		assert.False(t, ok, "NaN must not classify for %s", p)
	}
}

func TestClassify_UnsupportedPollutants(t *testing.T) {
	unsupported := []aqi.Pollutant{aqi.PollutantPM1, aqi.PollutantH2S, aqi.PollutantC6H6}

	for _, p := range unsupported {
		for _, v := range []float64{0, 1, 50, 10000} {
			_, ok := aqi.Classify(p, v)
			assert.False(t, ok, "pollutant %s has no breakpoint table", p)
		}
	}
}

func TestParsePollutant(t *testing.T) {
	tests := []struct {
		raw  string
		want aqi.Pollutant
		ok   bool
	}{
		{"PM2.5", aqi.PollutantPM25, true},
		{"pm2.5", aqi.PollutantPM25, true},
		{" PM10 ", aqi.PollutantPM10, true},
		{"no2", aqi.PollutantNO2, true},
		{"C6H6", aqi.PollutantC6H6, true},
		{"", "", false},
		{"PM25", "", false},
		{"lead", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := aqi.ParsePollutant(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
