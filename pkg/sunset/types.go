package sunset

import (
	"fmt"
	"time"

	"github.com/spencer-p/navo/pkg/stations"
)

// Place is a lat/long coordinate on the Earth matched with its time zone.
type Place struct {
	Lat, Long float64
	Location  *time.Location
}

// PlaceOf returns the place of a station. It is false for stations without
// coordinates.
func PlaceOf(st stations.Station) (Place, bool) {
	if !st.HasPlace() {
		return Place{}, false
	}
	return Place{
		Lat:      st.Lat,
		Long:     st.Long,
		Location: st.Location(),
	}, true
}

// SunEvents is a time series of SunEvent.
type SunEvents []SunEvent

// SunEvent is a sunrise or sunset event.
type SunEvent struct {
	Time  time.Time
	Event Event
}

func (s *SunEvent) String() string {
	return fmt.Sprintf("%s %s", s.Time.Format(time.RFC822), s.Event)
}

// Event encodes a sunrise or sunset event.
type Event bool

const (
	Sunrise Event = true
	Sunset  Event = false
)

func (e Event) String() string {
	if e == Sunrise {
		return "Sunrise"
	}
	return "Sunset"
}

// Daylight is one day's sunrise and sunset in local time.
type Daylight struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// Length is the time between sunrise and sunset.
func (d Daylight) Length() time.Duration {
	return d.Sunset.Sub(d.Sunrise)
}

func (d Daylight) String() string {
	return fmt.Sprintf("Sunrise %s, sunset %s",
		d.Sunrise.Format(time.Kitchen),
		d.Sunset.Format(time.Kitchen))
}
