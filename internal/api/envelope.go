// Package api defines the JSON bodies shared by every non-HTML response.
package api

// Envelope wraps JSON responses. Data is null on failure and Error is null on
// success.
type Envelope[T any] struct {
	Data  *T         `json:"data"`
	Meta  Meta       `json:"meta"`
	Error *ErrorBody `json:"error"`
}

// Meta carries the request correlation ID.
type Meta struct {
	TraceID *string `json:"traceId,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldIssue `json:"details,omitempty"`
	TraceID *string      `json:"traceId,omitempty"`
}

// FieldIssue points at the input that caused an error.
type FieldIssue struct {
	Field string `json:"field,omitempty"`
	Issue string `json:"issue"`
}

// ErrorEvent is the data of the client-side event raised when an htmx
// request fails. The page script shows it as a toast.
type ErrorEvent struct {
	Status  int     `json:"status"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
	TraceID *string `json:"traceId,omitempty"`
}

// NewSuccessEnvelope wraps a copy of data.
func NewSuccessEnvelope[T any](traceID *string, data T) Envelope[T] {
	return Envelope[T]{Data: &data, Meta: Meta{TraceID: traceID}}
}

// NewErrorEnvelope builds a failure envelope. Details are copied.
func NewErrorEnvelope[T any](traceID *string, code, msg string, details []FieldIssue) Envelope[T] {
	body := &ErrorBody{Code: code, Message: msg, TraceID: traceID}
	if len(details) > 0 {
		body.Details = append([]FieldIssue(nil), details...)
	}
	return Envelope[T]{Meta: Meta{TraceID: traceID}, Error: body}
}

// Event returns the client-side event data for an error envelope.
func (b *ErrorBody) Event(status int) ErrorEvent {
	if b == nil {
		return ErrorEvent{Status: status}
	}
	return ErrorEvent{Status: status, Code: b.Code, Message: b.Message, TraceID: b.TraceID}
}
