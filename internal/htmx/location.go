package htmx

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Location is the value of the HX-Location header. With only Path set the
// header carries the bare path; any option switches it to a JSON object.
//
// See https://htmx.org/headers/hx-location/.
type Location struct {
	// Path is the URL to load. Required.
	Path string
	// Source is the source element of the request.
	Source string
	// Event is the event that "triggered" the request.
	Event string
	// Handler is a callback that will handle the response HTML.
	Handler string
	// Target is the target to swap the response into.
	Target string
	// Swap controls how the response is swapped in relative to the target.
	Swap Swap
	// Select picks the content to swap from the response.
	Select string
	// Values are submitted with the request. Must marshal to JSON.
	Values any
	// Headers are submitted with the request.
	Headers map[string]string
}

type locationJSON struct {
	Path    string            `json:"path"`
	Source  string            `json:"source,omitempty"`
	Event   string            `json:"event,omitempty"`
	Handler string            `json:"handler,omitempty"`
	Target  string            `json:"target,omitempty"`
	Swap    *Swap             `json:"swap,omitempty"`
	Select  string            `json:"select,omitempty"`
	Values  any               `json:"values,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

func (l Location) hasOptions() bool {
	return l.Source != "" || l.Event != "" || l.Handler != "" || l.Target != "" ||
		!l.Swap.IsZero() || l.Select != "" || l.Values != nil || len(l.Headers) > 0
}

// encode renders the header value.
func (l Location) encode() (string, error) {
	if l.Path == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidHeaderValue)
	}
	if !l.hasOptions() {
		return l.Path, nil
	}
	doc := locationJSON{
		Path:    l.Path,
		Source:  l.Source,
		Event:   l.Event,
		Handler: l.Handler,
		Target:  l.Target,
		Select:  l.Select,
		Values:  l.Values,
		Headers: l.Headers,
	}
	if !l.Swap.IsZero() {
		if err := l.Swap.validate(); err != nil {
			return "", err
		}
		doc.Swap = &l.Swap
	}
	b, err := marshalCompact(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return string(b), nil
}

// marshalCompact encodes v without HTML escaping so payloads stay readable
// on the client side.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
