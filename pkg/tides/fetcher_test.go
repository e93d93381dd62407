package tides

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/spencer-p/navo/pkg/stations"
)

var (
	norfolk  = stations.Station{ID: "8638610", Name: "Norfolk, VA", Provider: stations.TidalGauge}
	richmond = stations.Station{ID: "02037500", Name: "Richmond, VA", Provider: stations.StreamGauge}
	testNow  = time.Date(2024, time.May, 1, 12, 14, 30, 0, time.UTC)
)

const risingBody = `{"metadata":{"id":"8638610","name":"Sewells Point","lat":"36.9467","lon":"-76.3300"},
"data":[
	{"t":"2024-05-01 12:06", "v":"3.100", "s":"0.003", "f":"0,0,0,0", "q":"p"},
	{"t":"2024-05-01 12:12", "v":"3.400", "s":"0.004", "f":"0,0,0,0", "q":"p"}
]}`

// fakeNOAA serves body with status for every request and counts them.
func fakeNOAA(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestFetcher(t *testing.T, base string) *Fetcher {
	return NewFetcher(nil, zaptest.NewLogger(t),
		&TidalGauge{BaseURL: base, Application: "navo-test"},
		StreamGauge{},
	)
}

func TestFetchReading(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		fmt.Fprint(w, risingBody)
	}))
	defer srv.Close()

	got, err := newTestFetcher(t, srv.URL+"/api/prod/datagetter").Fetch(context.Background(), norfolk, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Reading{
		LevelFeet: 3.4,
		Trend:     Rising,
		Timestamp: time.Date(2024, time.May, 1, 12, 12, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong reading (-want,+got):\n%s", diff)
	}

	if gotReq == nil {
		t.Fatal("server saw no request")
	}
	if gotReq.URL.Path != "/api/prod/datagetter" {
		t.Errorf("path = %q", gotReq.URL.Path)
	}
	q := gotReq.URL.Query()
	for key, want := range map[string]string{
		"station":     "8638610",
		"begin_date":  "20240501 12:02",
		"end_date":    "20240501 12:14",
		"product":     "water_level",
		"datum":       "MLLW",
		"units":       "english",
		"time_zone":   "gmt",
		"application": "navo-test",
		"format":      "json",
	} {
		if got := q.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
	for key, want := range map[string]string{
		"Accept":         "application/json",
		"Accept-Charset": "utf-8",
		"User-Agent":     DefaultUserAgent,
	} {
		if got := gotReq.Header.Get(key); got != want {
			t.Errorf("header %s = %q, want %q", key, got, want)
		}
	}
}

func TestFetchErrors(t *testing.T) {
	table := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantErr  error
	}{{
		name:     "unparseable json",
		status:   http.StatusOK,
		body:     `{"data": [`,
		wantKind: KindStation,
	}, {
		name:     "html instead of json",
		status:   http.StatusOK,
		body:     `<html><body>Maintenance</body></html>`,
		wantKind: KindStation,
	}, {
		name:     "api error",
		status:   http.StatusOK,
		body:     `{"error": {"message": "No data was found."}}`,
		wantKind: KindStation,
	}, {
		name:     "only missing samples",
		status:   http.StatusOK,
		body:     `{"data":[{"t":"2024-05-01 12:06", "v":"", "s":"", "f":"1,1,1,0", "q":"p"}]}`,
		wantKind: KindStation,
		wantErr:  ErrNoSamples,
	}, {
		name:     "empty body",
		status:   http.StatusOK,
		body:     ``,
		wantKind: KindStation,
	}, {
		name:     "server error",
		status:   http.StatusInternalServerError,
		body:     `oops`,
		wantKind: KindTransport,
	}, {
		name:     "not found",
		status:   http.StatusNotFound,
		body:     ``,
		wantKind: KindTransport,
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := fakeNOAA(t, tc.status, tc.body)
			_, err := newTestFetcher(t, srv.URL).Fetch(context.Background(), norfolk, testNow)
			if err == nil {
				t.Fatal("expected an error")
			}

			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error %v is not a *FetchError", err)
			}
			if fe.Kind != tc.wantKind {
				t.Errorf("kind = %s, want %s (%v)", fe.Kind, tc.wantKind, err)
			}
			if fe.Station.ID != norfolk.ID {
				t.Errorf("error names station %q", fe.Station.ID)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tc.wantErr)
			}
		})
	}
}

func TestFetchUnsupportedProvider(t *testing.T) {
	srv, hits := fakeNOAA(t, http.StatusOK, risingBody)

	table := []struct {
		name    string
		fetcher *Fetcher
	}{
		{"stub provider", newTestFetcher(t, srv.URL)},
		{"unregistered provider", NewFetcher(nil, nil, &TidalGauge{BaseURL: srv.URL})},
	}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fetcher.Fetch(context.Background(), richmond, testNow)
			if !errors.Is(err, ErrUnsupportedProvider) {
				t.Fatalf("got error %v, want ErrUnsupportedProvider", err)
			}
			if kind, _ := KindOf(err); kind != KindUnsupported {
				t.Errorf("kind = %s, want unsupported", kind)
			}
			if got != (Reading{}) {
				t.Errorf("got a reading %v alongside the error", got)
			}
		})
	}

	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("unsupported provider made %d requests", n)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL)
	f.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := f.Fetch(context.Background(), norfolk, testNow)
	if kind, ok := KindOf(err); !ok || kind != KindTransport {
		t.Fatalf("got %v, want a transport error", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("fetch took %s despite a 50ms timeout", elapsed)
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := newTestFetcher(t, addr).Fetch(context.Background(), norfolk, testNow)
	if kind, ok := KindOf(err); !ok || kind != KindTransport {
		t.Errorf("got %v, want a transport error", err)
	}
}

func TestFetchCanceled(t *testing.T) {
	srv, _ := fakeNOAA(t, http.StatusOK, risingBody)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher(t, srv.URL).Fetch(ctx, norfolk, testNow)
	if kind, ok := KindOf(err); !ok || kind != KindTransport {
		t.Errorf("got %v, want a transport error", err)
	}
}
