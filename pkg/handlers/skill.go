package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spencer-p/navo/pkg/logging"
	"github.com/spencer-p/navo/pkg/speech"
)

const (
	envelopeVersion = "1.0"

	launchRequest       = "LaunchRequest"
	intentRequest       = "IntentRequest"
	sessionEndedRequest = "SessionEndedRequest"

	tideIntent    = "TideIntent"
	getTideIntent = "GetTideIntent"
	aboutIntent   = "AboutIntent"
	helpIntent    = "AMAZON.HelpIntent"
	stopIntent    = "AMAZON.StopIntent"
	cancelIntent  = "AMAZON.CancelIntent"

	locationSlot = "Location"
)

type application struct {
	ApplicationID string `json:"applicationId"`
}

type slot struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// envelope is the subset of a voice platform request this service reads.
type envelope struct {
	Version string `json:"version"`
	Session struct {
		SessionID   string      `json:"sessionId"`
		Application application `json:"application"`
	} `json:"session"`
	Context struct {
		System struct {
			Application application `json:"application"`
		} `json:"System"`
	} `json:"context"`
	Request struct {
		Type      string `json:"type"`
		RequestID string `json:"requestId"`
		Intent    struct {
			Name  string          `json:"name"`
			Slots map[string]slot `json:"slots"`
		} `json:"intent"`
	} `json:"request"`
}

func (e *envelope) applicationID() string {
	if id := e.Context.System.Application.ApplicationID; id != "" {
		return id
	}
	return e.Session.Application.ApplicationID
}

type outputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type reprompt struct {
	OutputSpeech outputSpeech `json:"outputSpeech"`
}

type envelopeResponse struct {
	Version  string `json:"version"`
	Response struct {
		OutputSpeech     *outputSpeech `json:"outputSpeech,omitempty"`
		Card             *card         `json:"card,omitempty"`
		Reprompt         *reprompt     `json:"reprompt,omitempty"`
		ShouldEndSession bool          `json:"shouldEndSession"`
	} `json:"response"`
}

func wrap(resp speech.Response) envelopeResponse {
	var out envelopeResponse
	out.Version = envelopeVersion
	out.Response.OutputSpeech = &outputSpeech{Type: "PlainText", Text: resp.Speech}
	out.Response.Card = &card{Type: "Simple", Title: resp.Card.Title, Content: resp.Card.Text}
	if resp.Reprompt != "" {
		out.Response.Reprompt = &reprompt{OutputSpeech: outputSpeech{Type: "PlainText", Text: resp.Reprompt}}
	} else {
		out.Response.ShouldEndSession = true
	}
	return out
}

func makeSkillWebhook(tides Tides, appID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context(), zap.NewNop())

		var env envelope
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<18)).Decode(&env); err != nil {
			http.Error(w, fmt.Sprintf("bad envelope: %v", err), http.StatusBadRequest)
			return
		}

		if got := env.applicationID(); appID != "" && got != appID {
			logger.Warn("rejected envelope for another application", zap.String("application_id", got))
			http.Error(w, "application id does not match", http.StatusForbidden)
			return
		}

		logger = logger.With(
			zap.String("envelope_request_id", env.Request.RequestID),
			zap.String("type", env.Request.Type),
			zap.String("intent", env.Request.Intent.Name))
		ctx := logging.NewContext(r.Context(), logger)

		var resp speech.Response
		switch env.Request.Type {
		case launchRequest:
			resp = speech.Welcome()
		case intentRequest:
			switch env.Request.Intent.Name {
			case tideIntent, getTideIntent:
				resp = tides.HandleTideQuery(ctx, env.Request.Intent.Slots[locationSlot].Value)
			case aboutIntent:
				resp = speech.About()
			case stopIntent, cancelIntent:
				resp = speech.Goodbye()
			case helpIntent:
				resp = speech.Help()
			default:
				logger.Info("unhandled intent")
				resp = speech.Help()
			}
		case sessionEndedRequest:
			logger.Debug("session ended")
			var out envelopeResponse
			out.Version = envelopeVersion
			writeJSON(w, r, http.StatusOK, out)
			return
		default:
			http.Error(w, fmt.Sprintf("unsupported request type %q", env.Request.Type), http.StatusBadRequest)
			return
		}

		writeJSON(w, r, http.StatusOK, wrap(resp))
	})
}
