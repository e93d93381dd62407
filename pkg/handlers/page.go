package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spencer-p/navo/pkg/logging"
	"github.com/spencer-p/navo/pkg/speech"
	"github.com/spencer-p/navo/pkg/stations"
)

type TemplateInput struct {
	Query    string
	Response *speech.Response
	Stations []stations.Station
}

// makeIndex serves a page that asks the same question as the voice skill and
// renders the card.
func makeIndex(tides Tides) http.Handler {
	indexTemplate := template.Must(template.ParseFS(content, "static/index.template.html"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tinput := TemplateInput{
			Query:    strings.TrimSpace(r.FormValue("q")),
			Stations: tides.Stations(),
		}
		if tinput.Query != "" {
			resp := tides.HandleTideQuery(r.Context(), tinput.Query)
			tinput.Response = &resp
		}

		w.Header().Add("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if err := indexTemplate.Execute(w, tinput); err != nil {
			logging.FromContext(r.Context(), zap.NewNop()).Warn("failed to execute template", zap.Error(err))
		}
	})
}
