package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: "navo",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	queries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "tide_queries_total",
			Subsystem: "navo",
			Help:      "Tide queries by outcome.",
		},
		[]string{"outcome"},
	)

	fetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "tide_fetch_seconds",
			Subsystem: "navo",
			Help:      "Water level fetch latencies in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 3.0, 5.0, 8.0},
		},
		[]string{"provider", "result"},
	)

	matchScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:      "tide_match_score",
			Subsystem: "navo",
			Help:      "Scores of accepted station matches, 0 is exact.",
			Buckets:   []float64{0, 0.001, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7},
		},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "tide_cache_lookups_total",
			Subsystem: "navo",
			Help:      "Reading cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		queries,
		fetchLatency,
		matchScores,
		cacheLookups,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveQuery counts one answered query.
func ObserveQuery(outcome string) {
	queries.WithLabelValues(outcome).Inc()
}

// ObserveFetch records how long a provider took and how it ended.
func ObserveFetch(provider, result string, latency float64) {
	fetchLatency.WithLabelValues(provider, result).Observe(latency)
}

func ObserveMatchScore(score float64) {
	matchScores.Observe(score)
}

func ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// UnmatchedPath is the path label for requests no route matches.
const UnmatchedPath = "unmatched"

// RouteLabel names r by the path template of the route it matches in routes,
// so that request_latency has one path series per route.
func RouteLabel(routes *mux.Router, r *http.Request) string {
	if routes == nil || r.URL == nil {
		return UnmatchedPath
	}
	var match mux.RouteMatch
	if !routes.Match(r, &match) || match.Route == nil {
		return UnmatchedPath
	}
	tpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return UnmatchedPath
	}
	return tpl
}

// LatencyHandler records request_latency for every request served by next,
// labelling paths by their route in routes.
func LatencyHandler(routes *mux.Router, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := RouteLabel(routes, r)
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, strconv.Itoa(rec.code), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}
