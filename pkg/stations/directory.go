// Package stations holds the fixed directory of water level stations that
// spoken place names are resolved against. The directory is loaded once and
// never written afterwards, so it is safe to share between requests.
package stations

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

//go:embed stations.yaml
var defaultData []byte

// Directory is an ordered, read-only list of stations.
type Directory struct {
	stations []Station
	byID     map[string]int
}

type document struct {
	Stations []Station `yaml:"stations"`
}

// Load reads a YAML station list. Every station must validate and ids must be
// unique.
func Load(r io.Reader) (*Directory, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("stations: empty document")
		}
		return nil, fmt.Errorf("stations: decode yaml: %w", err)
	}
	if len(doc.Stations) == 0 {
		return nil, fmt.Errorf("stations: no stations defined")
	}

	d := &Directory{
		stations: doc.Stations,
		byID:     make(map[string]int, len(doc.Stations)),
	}
	for i := range d.stations {
		s := &d.stations[i]
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("stations: entry %d: %w", i, err)
		}
		if prev, dup := d.byID[s.ID]; dup {
			return nil, fmt.Errorf("stations: duplicate id %s (%q and %q)",
				s.ID, d.stations[prev].Name, s.Name)
		}
		d.byID[s.ID] = i
	}
	return d, nil
}

// LoadFile is Load for a file on disk.
func LoadFile(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the directory compiled into the binary.
func Default() (*Directory, error) {
	return Load(bytes.NewReader(defaultData))
}

// List returns all stations in directory order. The result is a copy.
func (d *Directory) List() []Station {
	result := make([]Station, len(d.stations))
	copy(result, d.stations)
	return result
}

// Lookup finds a station by its provider id.
func (d *Directory) Lookup(id string) (Station, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Station{}, false
	}
	return d.stations[i], true
}

// Len is the number of stations.
func (d *Directory) Len() int {
	return len(d.stations)
}
