package htmx

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHeaderValue reports a value that cannot be sent as an HTTP header value.
	ErrInvalidHeaderValue = errors.New("invalid header value")
	// ErrInvalidEventName reports a trigger event name that is empty or cannot be listed.
	ErrInvalidEventName = errors.New("invalid event name")
	// ErrInvalidPayload reports trigger or location data that is not valid JSON.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrInvalidConfig reports a middleware configuration rejected at construction.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// EncodingError is returned when a response header value cannot be written.
// The response is left unmodified for that header.
type EncodingError struct {
	Header string
	Value  string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("htmx: encode %s: %v", e.Header, e.Err)
	}
	return fmt.Sprintf("htmx: encode %s %q: %v", e.Header, e.Value, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func encodingError(h ResponseHeader, value string, err error) *EncodingError {
	return &EncodingError{Header: h.String(), Value: value, Err: err}
}

// ConfigError is returned when middleware configuration fails validation.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("htmx: %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
