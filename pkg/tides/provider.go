package tides

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spencer-p/navo/pkg/noaa"
	"github.com/spencer-p/navo/pkg/stations"
)

// ErrNoSamples means a response decoded but held no usable water level.
var ErrNoSamples = errors.New("no water level samples")

// Provider knows how to ask one family of data sources for a station's water
// level and how to read the answer.
type Provider interface {
	// Kind is the station provider kind this implementation serves.
	Kind() stations.ProviderKind
	// Endpoint is the request URL for a window ending at now. It must be
	// deterministic in its arguments.
	Endpoint(stationID string, now time.Time) (*url.URL, error)
	// Parse turns a response body into a reading.
	Parse(body []byte) (Reading, error)
}

// TidalGauge reads observed water levels from NOAA CO-OPS.
type TidalGauge struct {
	// BaseURL defaults to noaa.NOAA_URL.
	BaseURL string
	// Application is sent to NOAA so they can tell who is calling.
	Application string
}

func (p *TidalGauge) Kind() stations.ProviderKind {
	return stations.TidalGauge
}

func (p *TidalGauge) Endpoint(stationID string, now time.Time) (*url.URL, error) {
	base := p.BaseURL
	if base == "" {
		base = noaa.NOAA_URL
	}
	q := noaa.WaterLevelQuery{
		Station:     stationID,
		End:         now,
		Application: p.Application,
	}
	return q.URL(base)
}

func (p *TidalGauge) Parse(body []byte) (Reading, error) {
	var result noaa.NOAAResult
	if err := json.Unmarshal(body, &result); err != nil {
		return Reading{}, fmt.Errorf("decode water levels: %w", err)
	}
	if result.Error != nil {
		return Reading{}, result.Error
	}

	valid := result.Data.Valid()
	if len(valid) == 0 {
		return Reading{}, ErrNoSamples
	}
	latest := valid[len(valid)-1]
	return Reading{
		LevelFeet: latest.Level.Feet,
		Trend:     recentTrend(result.Data),
		Timestamp: time.Time(latest.Time),
	}, nil
}

// recentTrend compares the two newest samples as reported. A gap in either
// leaves the trend unknown rather than reaching back past it.
func recentTrend(data noaa.Observations) Trend {
	n := len(data)
	if n < 2 || !data[n-1].Level.Valid || !data[n-2].Level.Valid {
		return Unknown
	}
	return ClassifyTrend([]float64{data[n-2].Level.Feet, data[n-1].Level.Feet})
}

// StreamGauge is the USGS stream gauge network. Its wire format is not
// implemented and every call fails with ErrUnsupportedProvider.
type StreamGauge struct{}

func (StreamGauge) Kind() stations.ProviderKind {
	return stations.StreamGauge
}

func (StreamGauge) Endpoint(stationID string, now time.Time) (*url.URL, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, stations.StreamGauge)
}

func (StreamGauge) Parse(body []byte) (Reading, error) {
	return Reading{}, fmt.Errorf("%w: %s", ErrUnsupportedProvider, stations.StreamGauge)
}
