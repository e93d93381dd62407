// Package sunset computes sunrise and sunset at a station.
package sunset

import (
	"math"
	"time"

	"github.com/keep94/sunrise"

	"github.com/spencer-p/navo/pkg/timetricks"
)

// maxAdjust bounds how many days the sunrise package may be nudged to land on
// the requested date.
const maxAdjust = 3

// GetSunEvents returns a list of ordered sun events from the starting time to
// the end time in the given place. The first result will always be a sunrise.
// It returns nil if the sun does not rise on the starting day.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	if place.Location != nil {
		start = start.In(place.Location)
	}

	loc := start.Location()

	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, start)

	// Around picks the nearest sunrise, which can be a day off either way.
	want := timetricks.UniqueDay(start)
	for i := 0; !timetricks.SameDay(start, s.Sunrise().In(loc)); i++ {
		if i == maxAdjust || s.Sunrise().IsZero() {
			return nil
		}
		if timetricks.UniqueDay(s.Sunrise().In(loc)) < want {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}

	// Get sunrises and sunsets for the given number of days.
	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, 0, numDays*2)
	for i := 0; i < numDays; i++ {
		ret = append(ret,
			SunEvent{s.Sunrise().In(loc), Sunrise},
			SunEvent{s.Sunset().In(loc), Sunset})
		s.AddDays(1)
	}
	return ret
}

// DaylightOn returns sunrise and sunset for the local calendar day containing
// t. It is false where the sun does not both rise and set that day.
func DaylightOn(place Place, t time.Time) (Daylight, bool) {
	if place.Location != nil {
		t = t.In(place.Location)
	}
	events := GetSunEvents(timetricks.SetClock(t, 12, 0), 24*time.Hour, place)
	if len(events) < 2 || !events[1].Time.After(events[0].Time) {
		return Daylight{}, false
	}
	// Far enough north and west in its zone, the sun sets after local midnight.
	nextDay := timetricks.TrimClock(t).AddDate(0, 0, 1)
	if !events[1].Time.Before(nextDay) {
		return Daylight{}, false
	}
	return Daylight{Sunrise: events[0].Time, Sunset: events[1].Time}, true
}
