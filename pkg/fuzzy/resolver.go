// Package fuzzy resolves loosely spoken place names to stations. Names are
// scored with an approximate substring search and the best candidate is
// accepted if it falls under a threshold.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/spencer-p/navo/pkg/stations"
)

// Options tune the matcher. Start from DefaultOptions.
type Options struct {
	// Threshold is the worst score still accepted, in [0, 1]. Looser values
	// tolerate more misheard input and produce more false positives.
	Threshold float64
	// Location is where in a name the query is expected to start.
	Location int
	// Distance is how far from Location a hit may drift before its score
	// reaches 1.
	Distance int
	// MaxPatternLength truncates longer queries. At most 32.
	MaxPatternLength int
	// MinMatchCharLength is the shortest run of matched characters that
	// counts as a hit.
	MinMatchCharLength int
	// Tokenize additionally scores each word of the query against each word
	// of the name and blends that into the score.
	Tokenize bool
}

// DefaultOptions returns the tuning used in production.
func DefaultOptions() Options {
	return Options{
		Threshold:          0.6,
		Location:           0,
		Distance:           100,
		MaxPatternLength:   32,
		MinMatchCharLength: 1,
		Tokenize:           true,
	}
}

func (o Options) sanitized() Options {
	o.MaxPatternLength = min(max(o.MaxPatternLength, 1), maxBits)
	o.MinMatchCharLength = max(o.MinMatchCharLength, 1)
	o.Distance = max(o.Distance, 0)
	o.Location = max(o.Location, 0)
	return o
}

// Match is a station with the score it got for a query. Lower is better and 0
// means the names are identical after normalization.
type Match struct {
	Station stations.Station `json:"station"`
	Score   float64          `json:"score"`
}

// Resolver matches queries against station names.
type Resolver struct {
	opts Options
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts.sanitized()}
}

// Options returns the options in effect.
func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve is Resolver.Resolve with DefaultOptions.
func Resolve(query string, list []stations.Station) (Match, bool) {
	return NewResolver(DefaultOptions()).Resolve(query, list)
}

// Resolve returns the best station for query, or false if the query is empty,
// the list is empty, or nothing scores within the threshold. Ties go to the
// station listed first.
func (r *Resolver) Resolve(query string, list []stations.Station) (Match, bool) {
	ranked := r.Rank(query, list)
	if len(ranked) == 0 || ranked[0].Score > r.opts.Threshold {
		return Match{}, false
	}
	return ranked[0], true
}

// Rank scores every station that had any hit for query and returns them best
// first. The sort is stable, so equal scores keep directory order.
func (r *Resolver) Rank(query string, list []stations.Station) []Match {
	q := normalize(query)
	if q == "" || len(list) == 0 {
		return nil
	}

	full := newSearcher(q, r.opts)
	var tokens []*searcher
	if r.opts.Tokenize {
		for _, word := range strings.Fields(q) {
			tokens = append(tokens, newSearcher(word, r.opts))
		}
	}

	var result []Match
	for _, s := range list {
		score, ok := r.score(q, full, tokens, normalize(s.Name))
		if ok {
			result = append(result, Match{Station: s, Score: score})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score < result[j].Score
	})
	return result
}

// score rates one normalized name.
func (r *Resolver) score(q string, full *searcher, tokens []*searcher, name string) (float64, bool) {
	if name == "" {
		return 1, false
	}
	if q == name {
		return 0, true
	}

	score, hit := full.search(name)
	if len(tokens) == 0 {
		return score, hit
	}

	words := strings.Fields(name)
	var sum float64
	for _, tok := range tokens {
		best := 1.0
		for _, w := range words {
			if sc, ok := tok.search(w); ok && sc < best {
				best = sc
				hit = true
			}
		}
		sum += best
	}
	return (score + sum/float64(len(tokens))) / 2, hit
}
