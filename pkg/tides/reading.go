// Package tides retrieves the current water level for a station. Each
// station's provider kind selects a Provider that knows the endpoint and body
// format; Fetcher performs the request and classifies failures.
package tides

import (
	"fmt"
	"time"
)

// Trend is the direction the water is moving.
type Trend string

const (
	Rising  Trend = "rising"
	Falling Trend = "falling"
	Unknown Trend = "unknown"
)

// Reading is the latest water level at a station.
type Reading struct {
	LevelFeet float64   `json:"level_feet"`
	Trend     Trend     `json:"trend"`
	Timestamp time.Time `json:"timestamp"`
}

func (r Reading) String() string {
	return fmt.Sprintf("%.2f ft %s at %s", r.LevelFeet, r.Trend, r.Timestamp.Format(time.RFC822))
}

// ClassifyTrend compares the last two samples of an oldest-first series.
func ClassifyTrend(samples []float64) Trend {
	if len(samples) < 2 {
		return Unknown
	}
	latest, prev := samples[len(samples)-1], samples[len(samples)-2]
	switch {
	case latest > prev:
		return Rising
	case latest < prev:
		return Falling
	default:
		return Unknown
	}
}
