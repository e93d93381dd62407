package stations

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	dir, err := Default()
	if err != nil {
		t.Fatalf("failed to load default stations: %v", err)
	}
	if dir.Len() == 0 {
		t.Fatal("default directory is empty")
	}

	norfolk, ok := dir.Lookup("8638610")
	if !ok {
		t.Fatal("expected station 8638610 to exist")
	}
	want := Station{
		ID:       "8638610",
		Name:     "Norfolk, VA",
		Provider: TidalGauge,
		Lat:      36.9467,
		Long:     -76.3300,
		TimeZone: "America/New_York",
	}
	if diff := cmp.Diff(want, norfolk); diff != "" {
		t.Errorf("wrong station (-want,+got):\n%s", diff)
	}

	if _, ok := dir.Lookup("0000000"); ok {
		t.Error("found a station that should not exist")
	}
}

func TestDefaultIntegrity(t *testing.T) {
	dir, err := Default()
	if err != nil {
		t.Fatalf("failed to load default stations: %v", err)
	}

	streams := 0
	for _, s := range dir.List() {
		if !s.HasPlace() {
			t.Errorf("station %s (%s) has no coordinates", s.ID, s.Name)
		}
		if s.Location() == nil {
			t.Errorf("station %s (%s) has no location", s.ID, s.Name)
		}
		if s.Provider == StreamGauge {
			streams++
		}
	}
	if streams == 0 {
		t.Error("expected at least one stream gauge station")
	}
}

func TestListReturnsCopy(t *testing.T) {
	dir, err := Default()
	if err != nil {
		t.Fatalf("failed to load default stations: %v", err)
	}

	list := dir.List()
	first := list[0].Name
	list[0].Name = "Modified Name"

	if got := dir.List()[0].Name; got != first {
		t.Errorf("List returned a reference: name is now %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	table := []struct {
		name  string
		input string
		want  string
	}{{
		name:  "empty",
		input: "",
		want:  "empty document",
	}, {
		name:  "no stations",
		input: "stations: []",
		want:  "no stations defined",
	}, {
		name: "duplicate id",
		input: `stations:
  - {id: "1", name: "One", provider: tidal-gauge}
  - {id: "1", name: "Uno", provider: tidal-gauge}`,
		want: "duplicate id 1",
	}, {
		name:  "missing name",
		input: `stations: [{id: "1", provider: tidal-gauge}]`,
		want:  "name is required",
	}, {
		name:  "unknown provider",
		input: `stations: [{id: "1", name: "One", provider: carrier-pigeon}]`,
		want:  "unknown provider",
	}, {
		name:  "bad latitude",
		input: `stations: [{id: "1", name: "One", provider: tidal-gauge, lat: 91}]`,
		want:  "invalid latitude",
	}, {
		name:  "bad time zone",
		input: `stations: [{id: "1", name: "One", provider: tidal-gauge, timezone: Mars/Olympus}]`,
		want:  "unknown time zone",
	}, {
		name:  "unknown field",
		input: `stations: [{id: "1", name: "One", provider: tidal-gauge, depth: 4}]`,
		want:  "field depth not found",
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.input))
			if err == nil {
				t.Fatalf("expected an error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("got error %q, want it to contain %q", err, tc.want)
			}
		})
	}
}

func TestLoadKeepsOrder(t *testing.T) {
	dir, err := Load(strings.NewReader(`stations:
  - {id: "b", name: "Bravo", provider: tidal-gauge}
  - {id: "a", name: "Alpha", provider: stream-gauge}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, s := range dir.List() {
		got = append(got, s.ID)
	}
	if diff := cmp.Diff([]string{"b", "a"}, got); diff != "" {
		t.Errorf("order changed (-want,+got):\n%s", diff)
	}

	alpha, _ := dir.Lookup("a")
	if alpha.HasPlace() {
		t.Error("station without coordinates reports a place")
	}
}
