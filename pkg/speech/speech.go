// Package speech turns the result of a tide question into the words spoken
// back to the user and the card shown alongside them.
package speech

import (
	"fmt"
	"math"
	"strings"

	"github.com/spencer-p/navo/pkg/stations"
	"github.com/spencer-p/navo/pkg/sunset"
	"github.com/spencer-p/navo/pkg/tides"
)

const SkillName = "Nav-O"

const (
	NotFoundText = "I couldn't find a tide station by that name. Please try another location."
	IssueText    = "That station seems to be having an issue. Please try again later."

	WelcomeText  = "Welcome to Nav-O. Which tide station would you like to hear about?"
	HelpText     = "You can say 'what is the tide at station name,' where station name is the name of a NOAA tide station, you can ask about Code for Hampton Roads, or, you can say 'exit'... What can I help you with?"
	RepromptText = "What can I help you with?"
	GoodbyeText  = "Goodbye!"
	AboutText    = "Code for Hampton Roads is a Civic Hacking Organization of volunteers dedicated to using publicly available data to help the Hampton Roads Community. Learn more at www.code4hr.org"

	cardTimeFormat = "Jan 2 15:04 GMT"
)

// Outcome names which kind of answer a Response carries.
type Outcome string

const (
	Report   Outcome = "reading"
	NotFound Outcome = "not_found"
	Issue    Outcome = "issue"
	Prompt   Outcome = "prompt"
)

// Card is the short visual companion to the speech.
type Card struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Response is what a voice front end renders.
type Response struct {
	Outcome Outcome `json:"outcome"`
	Speech  string  `json:"speech"`
	Card    Card    `json:"card"`

	// Reprompt is set when the session should stay open for an answer.
	Reprompt string `json:"reprompt,omitempty"`

	Station *stations.Station `json:"station,omitempty"`
	Reading *tides.Reading    `json:"reading,omitempty"`
}

// Result is everything known once a question has been handled. A nil Station
// means nothing matched; otherwise Err or Reading describes the fetch.
type Result struct {
	Station  *stations.Station
	Reading  tides.Reading
	Err      error
	Daylight *sunset.Daylight
}

// Compose maps a Result onto a Response. It never fails.
func Compose(res Result) Response {
	switch {
	case res.Station == nil:
		return Response{
			Outcome: NotFound,
			Speech:  NotFoundText,
			Card:    Card{Title: SkillName, Text: NotFoundText},
		}
	case res.Err != nil:
		return Response{
			Outcome: Issue,
			Speech:  IssueText,
			Card:    Card{Title: SkillName, Text: IssueText},
			Station: res.Station,
		}
	}

	reading := res.Reading
	text := ReportText(res.Station.Name, reading)
	return Response{
		Outcome: Report,
		Speech:  text,
		Card: Card{
			Title: fmt.Sprintf("%s: %s", SkillName, res.Station.Name),
			Text:  cardText(text, reading, res.Daylight),
		},
		Station: res.Station,
		Reading: &reading,
	}
}

// ReportText is the spoken sentence for a reading at the named station.
func ReportText(name string, r tides.Reading) string {
	var trend string
	switch r.Trend {
	case tides.Rising:
		trend = " and rising"
	case tides.Falling:
		trend = " and falling"
	}
	level := math.Round(r.LevelFeet*10) / 10
	if level == 0 {
		// Avoid saying "-0.0".
		level = 0
	}
	return fmt.Sprintf("In %s, the water level is %.1f feet%s.", name, level, trend)
}

func cardText(speech string, r tides.Reading, day *sunset.Daylight) string {
	var b strings.Builder
	b.WriteString(speech)
	if !r.Timestamp.IsZero() {
		fmt.Fprintf(&b, "\nMeasured %s.", r.Timestamp.UTC().Format(cardTimeFormat))
	}
	if day != nil {
		fmt.Fprintf(&b, "\n%s.", day)
	}
	return b.String()
}

// Welcome opens a session without a question.
func Welcome() Response {
	return prompt(WelcomeText, RepromptText)
}

// Help explains what can be asked.
func Help() Response {
	return prompt(HelpText, RepromptText)
}

// Goodbye ends the session.
func Goodbye() Response {
	return Response{
		Outcome: Prompt,
		Speech:  GoodbyeText,
		Card:    Card{Title: SkillName, Text: GoodbyeText},
	}
}

// About describes who runs the skill.
func About() Response {
	return Response{
		Outcome: Prompt,
		Speech:  AboutText,
		Card:    Card{Title: SkillName, Text: AboutText},
	}
}

func prompt(text, reprompt string) Response {
	return Response{
		Outcome:  Prompt,
		Speech:   text,
		Card:     Card{Title: SkillName, Text: text},
		Reprompt: reprompt,
	}
}
