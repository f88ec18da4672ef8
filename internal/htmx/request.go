package htmx

import (
	"net/http"
	"net/url"
)

// Request holds every htmx request header of one request in typed form.
type Request struct {
	Boosted               bool
	CurrentURL            *url.URL
	HistoryRestoreRequest bool
	Prompt                string
	HasPrompt             bool
	Request               bool
	Target                string
	HasTarget             bool
	TriggerName           string
	HasTriggerName        bool
	Trigger               string
	HasTrigger            bool
}

// ReadRequest extracts all htmx request headers at once. Every header is
// recorded as consulted.
func ReadRequest(r *http.Request) Request {
	var req Request
	req.Boosted = IsBoosted(r)
	req.CurrentURL, _ = CurrentURL(r)
	req.HistoryRestoreRequest = IsHistoryRestoreRequest(r)
	req.Prompt, req.HasPrompt = Prompt(r)
	req.Request = IsRequest(r)
	req.Target, req.HasTarget = Target(r)
	req.TriggerName, req.HasTriggerName = TriggerName(r)
	req.Trigger, req.HasTrigger = Trigger(r)
	return req
}

// IsBoosted reports whether the request came from an element using hx-boost.
func IsBoosted(r *http.Request) bool {
	return present(r, HXBoosted)
}

// CurrentURL returns the browser's current URL. A missing or unparsable
// value yields false.
func CurrentURL(r *http.Request) (*url.URL, bool) {
	v, ok := lookup(r, HXCurrentURL)
	if !ok {
		return nil, false
	}
	u, err := url.Parse(v)
	if err != nil {
		return nil, false
	}
	return u, true
}

// IsHistoryRestoreRequest reports whether the request restores history after
// a local cache miss.
func IsHistoryRestoreRequest(r *http.Request) bool {
	return present(r, HXHistoryRestoreRequest)
}

// Prompt returns the user's response to an hx-prompt.
func Prompt(r *http.Request) (string, bool) {
	return lookup(r, HXPrompt)
}

// IsRequest reports whether the request was made by htmx.
func IsRequest(r *http.Request) bool {
	return present(r, HXRequest)
}

// Target returns the id of the target element.
func Target(r *http.Request) (string, bool) {
	return lookup(r, HXTarget)
}

// TriggerName returns the name of the triggered element.
func TriggerName(r *http.Request) (string, bool) {
	return lookup(r, HXTriggerName)
}

// Trigger returns the id of the triggered element.
func Trigger(r *http.Request) (string, bool) {
	return lookup(r, HXTrigger)
}

// present reports header presence regardless of its value.
func present(r *http.Request, id RequestHeader) bool {
	if r == nil {
		return false
	}
	TrackerFromContext(r.Context()).Record(id)
	_, ok := r.Header[http.CanonicalHeaderKey(id.String())]
	return ok
}

// lookup returns a non-empty header value.
func lookup(r *http.Request, id RequestHeader) (string, bool) {
	if r == nil {
		return "", false
	}
	TrackerFromContext(r.Context()).Record(id)
	v := r.Header.Get(id.String())
	if v == "" {
		return "", false
	}
	return v, true
}
