package skill

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spencer-p/navo/pkg/cache"
	"github.com/spencer-p/navo/pkg/fuzzy"
	"github.com/spencer-p/navo/pkg/stations"
	"github.com/spencer-p/navo/pkg/tides"
)

// Config is the environment a Skill is built from. It is meant to be filled
// by envconfig.
type Config struct {
	NOAABaseURL     string        `envconfig:"noaa_base_url"`
	NOAAApplication string        `envconfig:"noaa_application" default:"navo"`
	FetchTimeout    time.Duration `envconfig:"fetch_timeout" default:"5s"`

	MatchThreshold float64 `envconfig:"match_threshold" default:"0.6"`
	MatchDistance  int     `envconfig:"match_distance" default:"100"`

	// StationsFile replaces the built in directory.
	StationsFile string `envconfig:"stations_file"`

	// CacheTTL of zero disables caching. Readings are kept in memory unless
	// RedisAddr is set.
	CacheTTL      time.Duration `envconfig:"cache_ttl" default:"6m"`
	RedisAddr     string        `envconfig:"redis_addr"`
	RedisPassword string        `envconfig:"redis_password"`
}

// FromConfig builds a Skill and everything behind it. The returned function
// releases the cache connection, if any.
func FromConfig(ctx context.Context, cfg Config, logger *zap.Logger) (*Skill, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }

	var (
		dir *stations.Directory
		err error
	)
	if cfg.StationsFile != "" {
		dir, err = stations.LoadFile(cfg.StationsFile)
	} else {
		dir, err = stations.Default()
	}
	if err != nil {
		return nil, noop, fmt.Errorf("load stations: %w", err)
	}

	opts := fuzzy.DefaultOptions()
	opts.Threshold = cfg.MatchThreshold
	opts.Distance = cfg.MatchDistance
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, noop, fmt.Errorf("match threshold %f outside [0, 1]", opts.Threshold)
	}

	fetcher := tides.NewFetcher(&http.Client{}, logger.Named("fetcher"),
		&tides.TidalGauge{BaseURL: cfg.NOAABaseURL, Application: cfg.NOAAApplication},
		tides.StreamGauge{},
	)
	if cfg.FetchTimeout > 0 {
		fetcher.Timeout = cfg.FetchTimeout
	}

	var (
		skillOpts []Option
		closer    = noop
	)
	switch {
	case cfg.CacheTTL <= 0:
		logger.Info("reading cache disabled")
	case cfg.RedisAddr != "":
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		store := cache.NewRedis(client, cfg.CacheTTL)
		skillOpts = append(skillOpts, WithCache(store))
		closer = store.Close
		logger.Info("caching readings in redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	default:
		skillOpts = append(skillOpts, WithCache(cache.NewTimed(cfg.CacheTTL)))
		logger.Info("caching readings in memory", zap.Duration("ttl", cfg.CacheTTL))
	}

	logger.Info("loaded stations", zap.Int("count", dir.Len()))
	return New(dir, fuzzy.NewResolver(opts), fetcher, logger.Named("skill"), skillOpts...), closer, nil
}
