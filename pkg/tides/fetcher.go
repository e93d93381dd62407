package tides

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spencer-p/navo/pkg/metrics"
	"github.com/spencer-p/navo/pkg/stations"
)

const (
	DefaultTimeout   = 5 * time.Second
	DefaultUserAgent = "navo/1.0 (+https://github.com/spencer-p/navo)"

	// Responses for a 12 minute window are a few hundred bytes.
	maxBodySize = 1 << 20
)

// Fetcher retrieves readings through the Provider registered for each
// station's kind. It does not retry.
type Fetcher struct {
	// Timeout bounds each fetch, including reading the body.
	Timeout   time.Duration
	UserAgent string

	client    *http.Client
	providers map[stations.ProviderKind]Provider
	logger    *zap.Logger
}

// NewFetcher creates a Fetcher. Registering two providers of the same kind
// keeps the last one.
func NewFetcher(client *http.Client, logger *zap.Logger, providers ...Provider) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fetcher{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		client:    client,
		providers: make(map[stations.ProviderKind]Provider, len(providers)),
		logger:    logger,
	}
	for _, p := range providers {
		f.providers[p.Kind()] = p
	}
	return f
}

// Fetch gets the current reading for station over a window ending at now.
// Every error it returns is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, station stations.Station, now time.Time) (Reading, error) {
	start := time.Now()
	reading, err := f.fetch(ctx, station, now)

	result := "ok"
	if kind, ok := KindOf(err); ok {
		result = kind.String()
	}
	metrics.ObserveFetch(string(station.Provider), result, time.Since(start).Seconds())

	if err != nil {
		f.logger.Warn("fetch failed",
			zap.String("station", station.ID),
			zap.String("result", result),
			zap.Error(err))
		return Reading{}, err
	}
	f.logger.Debug("fetched reading",
		zap.String("station", station.ID),
		zap.Float64("level_feet", reading.LevelFeet),
		zap.String("trend", string(reading.Trend)),
		zap.Duration("elapsed", time.Since(start)))
	return reading, nil
}

func (f *Fetcher) fetch(ctx context.Context, station stations.Station, now time.Time) (Reading, error) {
	fail := func(kind Kind, err error) (Reading, error) {
		return Reading{}, &FetchError{Kind: kind, Station: station, Err: err}
	}

	p, ok := f.providers[station.Provider]
	if !ok {
		return fail(KindUnsupported, fmt.Errorf("%w: %s", ErrUnsupportedProvider, station.Provider))
	}

	addr, err := p.Endpoint(station.ID, now)
	if err != nil {
		if errors.Is(err, ErrUnsupportedProvider) {
			return fail(KindUnsupported, err)
		}
		return fail(KindTransport, fmt.Errorf("build request URL: %w", err))
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		return fail(KindTransport, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Charset", "utf-8")
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fail(KindTransport, fmt.Errorf("request water level: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(KindTransport, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fail(KindTransport, fmt.Errorf("read response: %w", err))
	}

	reading, err := p.Parse(body)
	if err != nil {
		return fail(KindStation, err)
	}
	return reading, nil
}
