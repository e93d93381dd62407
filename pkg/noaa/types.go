package noaa

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const obsTimeFormat = "2006-01-02 15:04"

// Observation is a single water level sample.
type Observation struct {
	// GMT time of the sample
	Time Time `json:"t"`
	// Water level in feet above MLLW. NOAA sends an empty string when the
	// sensor had nothing to report.
	Level Level `json:"v"`
	// Standard deviation of the 1 second samples behind the reading
	Sigma string `json:"s"`
	// Data flags, comma separated
	Flags string `json:"f"`
	// Quality assurance level, "p" preliminary or "v" verified
	Quality string `json:"q"`
}

// Verify the custom types can be unmarshaled
var _ json.Unmarshaler = &Time{}
var _ json.Unmarshaler = new(Level)

// Observations is a time series of Observation, oldest first.
type Observations []Observation

// Metadata describes the station that answered.
type Metadata struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Lat  string `json:"lat"`
	Lon  string `json:"lon"`
}

// APIError is how NOAA reports a query it could not answer.
type APIError struct {
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("noaa: %s", strings.TrimSpace(e.Message))
}

// NOAAResult is the data type returned by the NOAA API.
type NOAAResult struct {
	Metadata *Metadata    `json:"metadata,omitempty"`
	Data     Observations `json:"data"`
	Error    *APIError    `json:"error,omitempty"`
}

// Valid returns the observations that carry a level, in order.
func (o Observations) Valid() Observations {
	var result Observations
	for _, obs := range o {
		if obs.Level.Valid {
			result = append(result, obs)
		}
	}
	return result
}

type Time time.Time

func (t *Time) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("observation time %q not string: %w", buf, err)
	}
	parsed, err := time.ParseInLocation(obsTimeFormat, s, time.UTC)
	if err != nil {
		return fmt.Errorf("observation time %q not in fmt %q: %w", s, obsTimeFormat, err)
	}
	*t = Time(parsed)
	return nil
}

// Level is a water height in feet. Missing or garbled values decode without
// error and are left not Valid.
type Level struct {
	Feet  float64
	Valid bool
}

func (l *Level) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("water level %q not string: %w", buf, err)
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*l = Level{}
		return nil
	}
	*l = Level{Feet: parsed, Valid: true}
	return nil
}

func (o Observation) String() string {
	level := "missing"
	if o.Level.Valid {
		level = fmt.Sprintf("%.3f", o.Level.Feet)
	}
	return fmt.Sprintf("{t: %s, v: %s, q: %s}",
		time.Time(o.Time).Format(time.RFC822),
		level,
		o.Quality)
}
