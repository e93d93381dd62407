package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spencer-p/navo/pkg/stations"
)

// siteWords are connectors in USGS site names, which are upper case and often
// abbreviated.
var siteWords = map[string]string{
	"AT":    "at",
	"NR":    "near",
	"NEAR":  "near",
	"AB":    "above",
	"ABOVE": "above",
	"BL":    "below",
	"BELOW": "below",
	"OF":    "of",
	"AND":   "and",
}

// siteZones maps the zone abbreviations both listings use to IANA names.
var siteZones = map[string]string{
	"EST":  "America/New_York",
	"CST":  "America/Chicago",
	"MST":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"AKST": "America/Anchorage",
	"HST":  "Pacific/Honolulu",
	"HAST": "Pacific/Honolulu",
	"AST":  "America/Puerto_Rico",
	"CHST": "Pacific/Guam",
	"SST":  "Pacific/Pago_Pago",
	"UTC":  "UTC",
}

// readRDB parses a USGS site file in RDB form: comment lines starting with #,
// a header row, a column format row, then tab separated records. Records of
// other agencies are skipped.
func readRDB(r io.Reader) ([]stations.Station, error) {
	var (
		header     []string
		formatSeen bool
		result     []stations.Station
	)

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")

		if header == nil {
			header = fields
			if err := checkHeader(header); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			continue
		}
		if !formatSeen {
			formatSeen = true
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = strings.TrimSpace(fields[i])
			}
		}
		if row["agency_cd"] != "USGS" {
			continue
		}

		st, err := siteStation(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		result = append(result, st)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read site file: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("site file has no header row")
	}
	return result, nil
}

func checkHeader(header []string) error {
	for _, want := range []string{"agency_cd", "site_no", "station_nm"} {
		found := false
		for _, name := range header {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("site file has no %s column", want)
		}
	}
	return nil
}

func siteStation(row map[string]string) (stations.Station, error) {
	st := stations.Station{
		ID:       row["site_no"],
		Name:     siteName(row["station_nm"]),
		Provider: stations.StreamGauge,
		TimeZone: siteZones[strings.ToUpper(row["tz_cd"])],
	}

	lat, long := row["dec_lat_va"], row["dec_long_va"]
	if lat != "" && long != "" {
		var err error
		if st.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
			return stations.Station{}, fmt.Errorf("site %s: latitude %q: %w", st.ID, lat, err)
		}
		if st.Long, err = strconv.ParseFloat(long, 64); err != nil {
			return stations.Station{}, fmt.Errorf("site %s: longitude %q: %w", st.ID, long, err)
		}
	}

	if err := st.Validate(); err != nil {
		return stations.Station{}, err
	}
	return st, nil
}

// siteName turns "POTOMAC RIVER NR WASHINGTON, DC" into
// "Potomac River near Washington, DC".
func siteName(raw string) string {
	place, state := raw, ""
	if i := strings.LastIndex(raw, ","); i >= 0 {
		if tail := strings.TrimSpace(raw[i+1:]); len(tail) == 2 {
			place, state = raw[:i], tail
		}
	}

	title := cases.Title(language.AmericanEnglish)
	words := strings.Fields(place)
	for i, w := range words {
		if small, ok := siteWords[strings.TrimSuffix(strings.ToUpper(w), ".")]; ok && i > 0 {
			words[i] = small
			continue
		}
		words[i] = title.String(w)
	}

	name := strings.Join(words, " ")
	if state != "" {
		name += ", " + strings.ToUpper(state)
	}
	return name
}
