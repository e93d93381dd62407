package noaa

import (
	"testing"
	"time"
)

func TestQueryURL(t *testing.T) {
	in := WaterLevelQuery{
		Station:     "8638610",
		End:         time.Date(2020, time.January, 5, 14, 7, 42, 0, time.UTC),
		Application: "navo",
	}
	want := "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter?application=navo&begin_date=20200105+13%3A55&datum=MLLW&end_date=20200105+14%3A07&format=json&product=water_level&station=8638610&time_zone=gmt&units=english"
	got, err := in.URL(NOAA_URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want != got.String() {
		t.Errorf("got  %q", got)
		t.Errorf("want %q", want)
	}
}

func TestQueryDeterministic(t *testing.T) {
	now := time.Date(2023, time.July, 4, 23, 59, 59, 999, time.UTC)
	a := WaterLevelQuery{Station: "8638610", End: now}
	b := WaterLevelQuery{Station: "8638610", End: now}

	ua, _ := a.URL(NOAA_URL)
	ub, _ := b.URL(NOAA_URL)
	if ua.String() != ub.String() {
		t.Errorf("same query built different URLs:\n%s\n%s", ua, ub)
	}
}

func TestQueryWindow(t *testing.T) {
	table := []struct {
		name      string
		end       time.Time
		wantBegin string
		wantEnd   string
	}{{
		name:      "mid hour",
		end:       time.Date(2021, time.March, 10, 8, 30, 15, 0, time.UTC),
		wantBegin: "20210310 08:18",
		wantEnd:   "20210310 08:30",
	}, {
		name:      "crosses midnight",
		end:       time.Date(2021, time.March, 10, 0, 5, 0, 0, time.UTC),
		wantBegin: "20210309 23:53",
		wantEnd:   "20210310 00:05",
	}, {
		name:      "local time is converted to GMT",
		end:       time.Date(2021, time.March, 10, 9, 0, 0, 0, time.FixedZone("EST", -5*60*60)),
		wantBegin: "20210310 13:48",
		wantEnd:   "20210310 14:00",
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			q := WaterLevelQuery{Station: "1", End: tc.end}
			vals := q.build()
			if got := vals.Get("begin_date"); got != tc.wantBegin {
				t.Errorf("begin_date = %q, want %q", got, tc.wantBegin)
			}
			if got := vals.Get("end_date"); got != tc.wantEnd {
				t.Errorf("end_date = %q, want %q", got, tc.wantEnd)
			}
			if got := q.End.Sub(q.Begin()); got != 12*time.Minute {
				t.Errorf("window is %s, want 12m", got)
			}
			if vals.Has("application") {
				t.Error("application set without being configured")
			}
		})
	}
}

func TestQueryBadBase(t *testing.T) {
	q := WaterLevelQuery{Station: "1", End: time.Now()}
	if _, err := q.URL("://nope"); err == nil {
		t.Error("expected an error for a malformed base URL")
	}
}
