// Package handlers serves the tide pipeline over HTTP: a JSON and plain text
// API, a voice skill webhook and a small HTML page.
package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/spencer-p/navo/pkg/logging"
	"github.com/spencer-p/navo/pkg/speech"
	"github.com/spencer-p/navo/pkg/stations"
)

//go:embed static
var content embed.FS

const requestIDHeader = "X-Request-Id"

// Tides answers questions about the water level. *skill.Skill implements it.
type Tides interface {
	HandleTideQuery(ctx context.Context, utterance string) speech.Response
	Stations() []stations.Station
}

// Options configure Register.
type Options struct {
	// ApplicationID, when set, must match the id in every skill envelope.
	ApplicationID string
	Logger        *zap.Logger
}

// Register installs all routes on r.
func Register(r *mux.Router, tides Tides, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r.Use(func(next http.Handler) http.Handler {
		return withRequestID(logger, next)
	})

	r.Handle("/", makeIndex(tides)).Methods(http.MethodGet)
	r.Handle("/api/v1/tide", makeServeTide(tides)).Methods(http.MethodGet)
	r.Handle("/api/v1/tide", makeAnswerTide(tides)).Methods(http.MethodPost)
	r.Handle("/api/v1/stations", makeServeStations(tides)).Methods(http.MethodGet)
	r.Handle("/skill", makeSkillWebhook(tides, opts.ApplicationID)).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "text/plain")
		fmt.Fprint(w, "ok")
	})
}

// withRequestID tags the request, its response and its logger with an id.
func withRequestID(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logging.NewContext(r.Context(), logger.With(zap.String("request_id", id)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func makeServeTide(tides Tides) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utterance := strings.TrimSpace(r.FormValue("q"))
		if utterance == "" {
			http.Error(w, "missing query parameter q", http.StatusBadRequest)
			return
		}

		resp := tides.HandleTideQuery(r.Context(), utterance)

		// serve result
		outputFormat := r.FormValue("o")
		if outputFormat == "json" {
			writeJSON(w, r, http.StatusOK, resp)
		} else {
			w.Header().Add("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, resp.Speech)
		}
	})
}

type tideRequest struct {
	Utterance string `json:"utterance"`
}

func makeAnswerTide(tides Tides) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tideRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("bad request body: %v", err), http.StatusBadRequest)
			return
		}
		writeJSON(w, r, http.StatusOK, tides.HandleTideQuery(r.Context(), req.Utterance))
	})
}

func makeServeStations(tides Tides) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, tides.Stations())
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context(), zap.NewNop()).Warn("failed to encode JSON result", zap.Error(err))
	}
}
