// Package clock provides an HTTP Cloud Function that serves the current time
// either as an htmx fragment or as JSON.
package clock

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/janisto/htmx-playground/internal/htmx"
	"github.com/janisto/htmx-playground/internal/platform/timeutil"
)

// EventTicked is raised after the fragment settles.
const EventTicked = "clockTicked"

var fragment = template.Must(template.New("clock").Parse(`<time datetime="{{.}}">{{.}}</time>`))

var now = time.Now

func init() {
	functions.HTTP("Clock", Handler().ServeHTTP)
}

// Response is the JSON body for non-htmx callers.
type Response struct {
	Timestamp string `json:"timestamp"`
}

type ticked struct {
	At string `json:"at"`
}

// Handler returns the function handler wrapped in htmx.AutoVary.
func Handler() http.Handler {
	return htmx.AutoVary()(http.HandlerFunc(clockHandler))
}

func clockHandler(w http.ResponseWriter, r *http.Request) {
	ts := now().UTC().Format(timeutil.RFC3339Micros)

	if !htmx.IsRequest(r) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response{Timestamp: ts})
		return
	}

	ev, err := htmx.NewEventWithData(EventTicked, ticked{At: ts})
	if err == nil {
		_ = htmx.Apply(r.Context(), w.Header(), htmx.Lenient, htmx.SetTriggers(htmx.AfterSettleTriggers(ev)))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = fragment.Execute(w, ts)
}
