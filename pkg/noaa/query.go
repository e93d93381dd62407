package noaa

import (
	"net/url"
	"time"
)

const (
	NOAA_URL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
	TIME_FMT = "20060102 15:04"

	// DefaultWindow is long enough to hold two six minute samples.
	DefaultWindow = 12 * time.Minute
)

// WaterLevelQuery asks for the observed water level at a station over the
// Window ending at End.
type WaterLevelQuery struct {
	Station string
	End     time.Time
	// Window defaults to DefaultWindow when zero.
	Window time.Duration
	// Application identifies the caller to NOAA.
	Application string
}

// Begin is the start of the query window.
func (q *WaterLevelQuery) Begin() time.Time {
	w := q.Window
	if w == 0 {
		w = DefaultWindow
	}
	return q.End.Add(-w)
}

// URL is the request URL against base, normally NOAA_URL. The same query
// always produces the same URL.
func (q *WaterLevelQuery) URL(base string) (*url.URL, error) {
	addr, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	addr.RawQuery = q.build().Encode()
	return addr, nil
}

func (q *WaterLevelQuery) build() url.Values {
	vals := make(url.Values)
	vals.Add("begin_date", q.Begin().UTC().Format(TIME_FMT))
	vals.Add("end_date", q.End.UTC().Format(TIME_FMT))
	vals.Add("station", q.Station)
	vals.Add("product", "water_level")
	vals.Add("datum", "MLLW")
	vals.Add("units", "english")
	vals.Add("time_zone", "gmt")
	if q.Application != "" {
		vals.Add("application", q.Application)
	}
	vals.Add("format", "json")
	return vals
}
