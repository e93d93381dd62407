// Command stationimport builds station directory entries from the USGS site
// file or the NOAA CO-OPS station list and writes them as stations.yaml.
//
//	stationimport -base pkg/stations/stations.yaml -o stations.yaml
//	stationimport -format coops -states VA,MD,NC stations.json
//
// The source is a file, "-" for stdin, or a URL. With no source the live
// listing for the format is downloaded.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/spencer-p/navo/pkg/logging"
	"github.com/spencer-p/navo/pkg/stations"
	"github.com/spencer-p/navo/pkg/tides"
)

const (
	formatRDB   = "rdb"
	formatCOOPS = "coops"

	usgsSiteURL      = "https://waterdata.usgs.gov/nwis/current"
	coopsStationsURL = "https://api.tidesandcurrents.noaa.gov/mdapi/prod/webapi/stations.json?type=waterlevels"
)

type Config struct {
	LogLevel string `envconfig:"log_level" default:"info"`
	Debug    bool   `default:"false"`
}

func main() {
	format := flag.String("format", formatRDB, "source format, rdb (USGS site file) or coops (CO-OPS station list)")
	basePath := flag.String("base", "", "existing stations.yaml whose entries are kept first")
	outPath := flag.String("o", "-", "output file, - for stdout")
	states := flag.String("states", "", "comma separated state codes to keep, empty keeps all")
	timeout := flag.Duration("timeout", 2*time.Minute, "download timeout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [source]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err.Error())
	}
	logger, err := logging.NewTo("stderr", env.LogLevel, env.Debug)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	src := flag.Arg(0)
	if src == "" {
		src = defaultSource(*format)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	body, err := open(ctx, src)
	if err != nil {
		logger.Fatal("failed to open source", zap.String("source", src), zap.Error(err))
	}
	imported, err := read(*format, body)
	body.Close()
	if err != nil {
		logger.Fatal("failed to read source", zap.String("source", src), zap.Error(err))
	}

	var codes []string
	if *states != "" {
		codes = strings.Split(*states, ",")
	}
	imported = inStates(imported, codes)

	var base []stations.Station
	if *basePath != "" {
		dir, err := stations.LoadFile(*basePath)
		if err != nil {
			logger.Fatal("failed to load base directory", zap.Error(err))
		}
		base = dir.List()
	}

	merged, added := merge(base, imported)
	out, err := render(merged)
	if err != nil {
		logger.Fatal("failed to render directory", zap.Error(err))
	}

	if *outPath == "-" {
		_, err = os.Stdout.Write(out)
	} else {
		err = os.WriteFile(*outPath, out, 0o644)
	}
	if err != nil {
		logger.Fatal("failed to write directory", zap.Error(err))
	}

	logger.Info("imported stations",
		zap.String("source", src),
		zap.Int("read", len(imported)),
		zap.Int("added", added),
		zap.Int("total", len(merged)))
}

func read(format string, r io.Reader) ([]stations.Station, error) {
	switch format {
	case formatRDB:
		return readRDB(r)
	case formatCOOPS:
		return readCOOPS(r)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func defaultSource(format string) string {
	if format == formatCOOPS {
		return coopsStationsURL
	}
	return usgsSiteQuery()
}

// usgsSiteQuery asks for every real time ocean, estuary and stream site with a
// gage height.
func usgsSiteQuery() string {
	q := url.Values{}
	for _, tp := range []string{"OC", "ES", "ST"} {
		q.Add("site_tp_cd", tp)
	}
	q.Set("index_pmcode_STATION_NM", "1")
	q.Set("index_pmcode_DATETIME", "2")
	q.Set("index_pmcode_00065", "3")
	q.Set("index_pmcode_62620", "4")
	q.Set("group_key", "NONE")
	q.Set("format", "sitefile_output")
	q.Set("sitefile_output_format", "rdb")
	for _, col := range []string{"agency_cd", "site_no", "station_nm", "dec_lat_va", "dec_long_va", "tz_cd"} {
		q.Add("column_name", col)
	}
	q.Set("sort_key_2", "site_no")
	q.Set("html_table_group_key", "NONE")
	q.Set("rdb_compression", "file")
	q.Set("list_of_search_criteria", "site_tp_cd,realtime_parameter_selection")
	return usgsSiteURL + "?" + q.Encode()
}

func open(ctx context.Context, src string) (io.ReadCloser, error) {
	switch {
	case src == "-":
		return io.NopCloser(os.Stdin), nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", tides.DefaultUserAgent)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("download returned status %d: %s", resp.StatusCode, resp.Status)
		}
		return resp.Body, nil
	default:
		return os.Open(src)
	}
}
