package stations

import (
	"fmt"
	"time"
)

// ProviderKind names the data source family a station reports through.
type ProviderKind string

const (
	// TidalGauge stations are served by the NOAA CO-OPS water level API.
	TidalGauge ProviderKind = "tidal-gauge"
	// StreamGauge stations belong to the USGS stream gauge network, which has
	// no working provider.
	StreamGauge ProviderKind = "stream-gauge"
)

// Valid reports whether k is one of the known provider kinds.
func (k ProviderKind) Valid() bool {
	return k == TidalGauge || k == StreamGauge
}

// Station is a named water level sensor.
type Station struct {
	// ID is the provider's sensor identifier.
	ID string `yaml:"id" json:"id"`
	// Name is matched against spoken input and read back to the user.
	Name     string       `yaml:"name" json:"name"`
	Provider ProviderKind `yaml:"provider" json:"provider"`

	// Coordinates and time zone are optional and only used for daylight
	// information.
	Lat      float64 `yaml:"lat,omitempty" json:"lat,omitempty"`
	Long     float64 `yaml:"long,omitempty" json:"long,omitempty"`
	TimeZone string  `yaml:"timezone,omitempty" json:"timezone,omitempty"`
}

// Validate checks the fields of a single station.
func (s *Station) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("station id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("station %s: name is required", s.ID)
	}
	if !s.Provider.Valid() {
		return fmt.Errorf("station %s: unknown provider %q", s.ID, s.Provider)
	}
	if s.Lat < -90 || s.Lat > 90 {
		return fmt.Errorf("station %s: invalid latitude %f", s.ID, s.Lat)
	}
	if s.Long < -180 || s.Long > 180 {
		return fmt.Errorf("station %s: invalid longitude %f", s.ID, s.Long)
	}
	if s.TimeZone != "" {
		if _, err := time.LoadLocation(s.TimeZone); err != nil {
			return fmt.Errorf("station %s: %w", s.ID, err)
		}
	}
	return nil
}

// HasPlace reports whether the station carries coordinates.
func (s *Station) HasPlace() bool {
	return s.Lat != 0 || s.Long != 0
}

// Location returns the station's time zone, or UTC when it has none.
func (s *Station) Location() *time.Location {
	if s.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
