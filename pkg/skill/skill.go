// Package skill answers "what is the tide at ..." questions. It resolves the
// spoken place to a station, fetches the station's reading through a cache
// and composes the spoken response.
package skill

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spencer-p/navo/pkg/cache"
	"github.com/spencer-p/navo/pkg/fuzzy"
	"github.com/spencer-p/navo/pkg/logging"
	"github.com/spencer-p/navo/pkg/metrics"
	"github.com/spencer-p/navo/pkg/speech"
	"github.com/spencer-p/navo/pkg/stations"
	"github.com/spencer-p/navo/pkg/sunset"
	"github.com/spencer-p/navo/pkg/tides"
)

// Fetcher gets a station's current reading. *tides.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, station stations.Station, now time.Time) (tides.Reading, error)
}

// Skill wires the station directory, resolver, fetcher and composer together.
// It is safe for concurrent use.
type Skill struct {
	dir      *stations.Directory
	resolver *fuzzy.Resolver
	fetcher  Fetcher
	cache    cache.Store
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Skill.
type Option func(*Skill)

// WithCache keeps successful readings in store. Without it every question
// fetches.
func WithCache(store cache.Store) Option {
	return func(s *Skill) { s.cache = store }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Skill) { s.now = now }
}

// New creates a Skill. A nil logger discards logs.
func New(dir *stations.Directory, resolver *fuzzy.Resolver, fetcher Fetcher, logger *zap.Logger, opts ...Option) *Skill {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Skill{
		dir:      dir,
		resolver: resolver,
		fetcher:  fetcher,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleTideQuery answers one utterance. Every failure is expressed in the
// returned Response.
func (s *Skill) HandleTideQuery(ctx context.Context, utterance string) speech.Response {
	logger := logging.FromContext(ctx, s.logger)

	match, ok := s.resolver.Resolve(utterance, s.dir.List())
	if !ok {
		logger.Info("no station matched", zap.String("utterance", utterance))
		resp := speech.Compose(speech.Result{})
		metrics.ObserveQuery(string(resp.Outcome))
		return resp
	}
	metrics.ObserveMatchScore(match.Score)

	station := match.Station
	logger = logger.With(
		zap.String("station", station.ID),
		zap.String("station_name", station.Name))
	logger.Debug("matched station",
		zap.String("utterance", utterance),
		zap.Float64("score", match.Score))

	now := s.now()
	reading, err := s.reading(ctx, logger, station, now)
	res := speech.Result{
		Station: &station,
		Reading: reading,
		Err:     err,
	}
	if err == nil {
		if place, ok := sunset.PlaceOf(station); ok {
			if day, ok := sunset.DaylightOn(place, now); ok {
				res.Daylight = &day
			}
		}
	}

	resp := speech.Compose(res)
	metrics.ObserveQuery(string(resp.Outcome))
	logger.Info("answered tide query", zap.String("outcome", string(resp.Outcome)))
	return resp
}

// reading consults the cache before the fetcher. Cache failures are logged
// and otherwise ignored.
func (s *Skill) reading(ctx context.Context, logger *zap.Logger, station stations.Station, now time.Time) (tides.Reading, error) {
	if s.cache != nil {
		buf, ok, err := s.cache.Get(ctx, station.ID)
		if err != nil {
			logger.Warn("reading cache lookup failed", zap.Error(err))
		}
		metrics.ObserveCacheLookup(ok)
		if ok {
			var cached tides.Reading
			if err := json.Unmarshal(buf, &cached); err == nil {
				return cached, nil
			}
			logger.Warn("discarding corrupt cached reading", zap.ByteString("value", buf))
		}
	}

	reading, err := s.fetcher.Fetch(ctx, station, now)
	if err != nil {
		return tides.Reading{}, err
	}

	if s.cache != nil {
		buf, err := json.Marshal(reading)
		if err == nil {
			err = s.cache.Set(ctx, station.ID, buf)
		}
		if err != nil {
			logger.Warn("failed to cache reading", zap.Error(err))
		}
	}
	return reading, nil
}

// Rank lists every station with a hit for utterance, best first.
func (s *Skill) Rank(utterance string) []fuzzy.Match {
	return s.resolver.Rank(utterance, s.dir.List())
}

// Stations returns the directory in order.
func (s *Skill) Stations() []stations.Station {
	return s.dir.List()
}

// Lookup finds a station by id.
func (s *Skill) Lookup(id string) (stations.Station, bool) {
	return s.dir.Lookup(id)
}
