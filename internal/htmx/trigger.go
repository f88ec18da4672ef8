package htmx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// TimingClass selects when the client dispatches trigger events.
type TimingClass uint8

const (
	// Immediate fires events as soon as the response is received (HX-Trigger).
	Immediate TimingClass = iota
	// AfterSettle fires events after the settle step (HX-Trigger-After-Settle).
	AfterSettle
	// AfterSwap fires events after the swap step (HX-Trigger-After-Swap).
	AfterSwap
)

// Header returns the response header that carries events of this class.
func (c TimingClass) Header() ResponseHeader {
	switch c {
	case AfterSettle:
		return HXTriggerAfterSettle
	case AfterSwap:
		return HXTriggerAfterSwap
	default:
		return HXResponseTrigger
	}
}

// String returns the timing class name.
func (c TimingClass) String() string {
	switch c {
	case Immediate:
		return "immediate"
	case AfterSettle:
		return "after-settle"
	case AfterSwap:
		return "after-swap"
	default:
		return fmt.Sprintf("TimingClass(%d)", uint8(c))
	}
}

// Payload is event data in already-serialized JSON form. A nil Payload means
// the event carries no data.
type Payload json.RawMessage

// Event is a named client-side event with optional data.
type Event struct {
	Name string
	Data Payload
}

// NewEvent returns an event without data.
func NewEvent(name string) Event {
	return Event{Name: name}
}

// NewEventWithData returns an event whose data is v encoded as JSON.
func NewEventWithData(name string, v any) (Event, error) {
	b, err := marshalCompact(v)
	if err != nil {
		return Event{}, &EncodingError{Header: "event " + name, Err: fmt.Errorf("%w: %v", ErrInvalidPayload, err)}
	}
	return Event{Name: name, Data: Payload(b)}, nil
}

// NewEventWithRawData returns an event carrying pre-encoded JSON. The data is
// validated when the trigger header is composed.
func NewEventWithRawData(name string, raw []byte) Event {
	return Event{Name: name, Data: Payload(raw)}
}

// TriggerSet is an ordered list of events sharing one timing class.
type TriggerSet struct {
	Timing TimingClass
	Events []Event
}

// ImmediateTriggers builds an HX-Trigger set.
func ImmediateTriggers(events ...Event) TriggerSet {
	return TriggerSet{Timing: Immediate, Events: events}
}

// AfterSettleTriggers builds an HX-Trigger-After-Settle set.
func AfterSettleTriggers(events ...Event) TriggerSet {
	return TriggerSet{Timing: AfterSettle, Events: events}
}

// AfterSwapTriggers builds an HX-Trigger-After-Swap set.
func AfterSwapTriggers(events ...Event) TriggerSet {
	return TriggerSet{Timing: AfterSwap, Events: events}
}

// Add appends events to the set.
func (s *TriggerSet) Add(events ...Event) {
	s.Events = append(s.Events, events...)
}

// Names appends events without data.
func (s *TriggerSet) Names(names ...string) {
	for _, n := range names {
		s.Events = append(s.Events, NewEvent(n))
	}
}

// HeaderField is a composed response header.
type HeaderField struct {
	Header ResponseHeader
	Value  string
}

// ComposeTrigger renders the trigger header for set. It returns nil when the
// set is empty; the header must then not be written.
//
// Without any event data the value is the comma-separated list of names.
// Otherwise it is a JSON object mapping each name to its data, with null for
// events without data. When a name repeats, the last event's data wins and
// the key keeps its first position. Duplicates are accumulated in order on
// purpose, matching how handlers build up events.
func ComposeTrigger(set TriggerSet) (*HeaderField, error) {
	if len(set.Events) == 0 {
		return nil, nil
	}
	id := set.Timing.Header()

	withData := false
	for _, e := range set.Events {
		if e.Name == "" {
			return nil, encodingError(id, "", fmt.Errorf("%w: empty name", ErrInvalidEventName))
		}
		if e.Data != nil {
			withData = true
		}
	}

	var value string
	if withData {
		v, err := triggerJSON(set.Events)
		if err != nil {
			return nil, encodingError(id, "", err)
		}
		value = v
	} else {
		names := make([]string, len(set.Events))
		for i, e := range set.Events {
			if strings.Contains(e.Name, ",") || !httpguts.ValidHeaderFieldValue(e.Name) {
				return nil, encodingError(id, e.Name, ErrInvalidEventName)
			}
			names[i] = e.Name
		}
		value = strings.Join(names, ",")
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		return nil, encodingError(id, value, ErrInvalidHeaderValue)
	}
	return &HeaderField{Header: id, Value: value}, nil
}

func triggerJSON(events []Event) (string, error) {
	order := make([]string, 0, len(events))
	data := make(map[string]Payload, len(events))
	for _, e := range events {
		if _, seen := data[e.Name]; !seen {
			order = append(order, e.Name)
		}
		payload := e.Data
		if payload == nil {
			payload = Payload("null")
		} else if !json.Valid(payload) {
			return "", fmt.Errorf("%w: event %q", ErrInvalidPayload, e.Name)
		}
		data[e.Name] = payload
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalCompact(name)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidEventName, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := json.Compact(&buf, data[name]); err != nil {
			return "", fmt.Errorf("%w: event %q: %v", ErrInvalidPayload, name, err)
		}
	}
	buf.WriteByte('}')
	return buf.String(), nil
}
