package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spencer-p/navo/pkg/stations"
)

// coopsList is the metadata API's station listing.
type coopsList struct {
	Stations []coopsStation `json:"stations"`
}

type coopsStation struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	State    string  `json:"state"`
	Lat      float64 `json:"lat"`
	Long     float64 `json:"lng"`
	TimeZone string  `json:"timezone"`
}

// readCOOPS parses the CO-OPS station list. Every entry becomes a tidal
// gauge named "<name>, <state>".
func readCOOPS(r io.Reader) ([]stations.Station, error) {
	var list coopsList
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode station list: %w", err)
	}

	result := make([]stations.Station, 0, len(list.Stations))
	for _, cs := range list.Stations {
		name := strings.TrimSpace(cs.Name)
		if state := strings.TrimSpace(cs.State); state != "" {
			name += ", " + strings.ToUpper(state)
		}
		st := stations.Station{
			ID:       strings.TrimSpace(cs.ID),
			Name:     name,
			Provider: stations.TidalGauge,
			Lat:      cs.Lat,
			Long:     cs.Long,
			TimeZone: siteZones[strings.ToUpper(cs.TimeZone)],
		}
		if err := st.Validate(); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, nil
}
