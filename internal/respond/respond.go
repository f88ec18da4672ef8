// Package respond renders error responses for both plain HTTP clients and
// htmx. Every error carries the JSON envelope; htmx requests additionally get
// an error event and a no-op swap so the page keeps its current content.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apiinternal "github.com/janisto/htmx-playground/internal/api"
	"github.com/janisto/htmx-playground/internal/htmx"
	applog "github.com/janisto/htmx-playground/internal/platform/logging"
)

// ErrorEventName is the client-side event raised when an htmx request fails.
const ErrorEventName = "appError"

const (
	codeNotFound          = "NOT_FOUND"
	msgNotFound           = "resource not found"
	codeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	msgMethodNotAllowed   = "method not allowed"
	codeInternalServerErr = "INTERNAL_SERVER_ERROR"
	msgInternalServerErr  = "internal server error"
)

var installOnce sync.Once

// Install makes huma build its error responses with the shared envelope.
func Install() {
	installOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			return statusError(context.Background(), status, statusCodeName(status), messageOrDefault(status, msg), issuesFromErrors(errs))
		}

		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			goCtx := context.Background()
			if hctx != nil {
				goCtx = hctx.Context()
			}
			se := statusError(goCtx, status, statusCodeName(status), messageOrDefault(status, msg), issuesFromErrors(errs), errs...)
			if hctx != nil {
				setHumaErrorHeaders(hctx, se)
			}
			return se
		}
	})
}

// Body is a huma output wrapping data in the success envelope.
type Body[T any] struct {
	Body apiinternal.Envelope[T] `json:"body"`
}

// Success wraps data in the success envelope.
func Success[T any](ctx context.Context, data T) Body[T] {
	return Body[T]{Body: apiinternal.NewSuccessEnvelope(applog.TraceIDFromContext(ctx), data)}
}

// Error returns a status error with the shared envelope. Empty code and
// message are derived from status.
func Error(ctx context.Context, status int, code, msg string, issues []apiinternal.FieldIssue, errs ...error) huma.StatusError {
	if code == "" {
		code = statusCodeName(status)
	}
	return statusError(ctx, status, code, messageOrDefault(status, msg), issues, errs...)
}

// Write serializes env as JSON.
func Write[T any](w http.ResponseWriter, status int, env apiinternal.Envelope[T]) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(env)
}

// WriteError renders an error envelope. For htmx requests the response also
// carries an appError trigger and HX-Reswap: none.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, msg string, issues []apiinternal.FieldIssue, errs ...error) error {
	se := Error(r.Context(), status, code, msg, issues, errs...)
	env, ok := se.(*statusEnvelopeError)
	if !ok {
		return se
	}
	setErrorHeaders(r, w.Header(), status, env.Envelope.Error)
	return Write(w, status, env.Envelope)
}

// NotFoundHandler renders 404 responses.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := WriteError(w, r, http.StatusNotFound, codeNotFound, msgNotFound, nil); err != nil {
			applog.LogError(r.Context(), "failed to render not found", err)
		}
	}
}

// MethodNotAllowedHandler renders 405 responses with an Allow header.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		if err := WriteError(w, r, http.StatusMethodNotAllowed, codeMethodNotAllowed, msgMethodNotAllowed, nil); err != nil {
			applog.LogError(r.Context(), "failed to render method not allowed", err)
		}
	}
}

// Recoverer converts panics into 500 responses.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				err = fmt.Errorf("%w\n%s", err, debug.Stack())
				if writeErr := WriteError(w, r, http.StatusInternalServerError, codeInternalServerErr, msgInternalServerErr, nil, err); writeErr != nil {
					applog.LogError(r.Context(), "failed to render internal error", writeErr)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// setErrorHeaders marks the response as varying on HX-Request and, for htmx
// requests, cancels the swap and raises the error event.
func setErrorHeaders(r *http.Request, h http.Header, status int, body *apiinternal.ErrorBody) {
	setters := []htmx.Setter{htmx.VaryOn(htmx.HXRequest)}
	if htmx.IsRequest(r) {
		setters = append(setters, htmx.SetReswap(htmx.Swap{Option: htmx.SwapNone}), errorTrigger(status, body))
	}
	_ = htmx.Apply(r.Context(), h, htmx.Lenient, setters...)
}

// setHumaErrorHeaders is setErrorHeaders for huma operations, which only
// expose request headers through huma.Context.
func setHumaErrorHeaders(hctx huma.Context, se huma.StatusError) {
	env, ok := se.(*statusEnvelopeError)
	if !ok {
		return
	}
	ctx := hctx.Context()
	htmx.TrackerFromContext(ctx).Record(htmx.HXRequest)
	if hctx.Header(htmx.HXRequest.String()) == "" {
		return
	}
	h := http.Header{}
	_ = htmx.Apply(ctx, h, htmx.Lenient,
		htmx.SetReswap(htmx.Swap{Option: htmx.SwapNone}),
		errorTrigger(env.status, env.Envelope.Error),
	)
	for name := range h {
		hctx.SetHeader(name, h.Get(name))
	}
}

func errorTrigger(status int, body *apiinternal.ErrorBody) htmx.Setter {
	ev, err := htmx.NewEventWithData(ErrorEventName, body.Event(status))
	if err != nil {
		return func(http.Header) error { return err }
	}
	return htmx.SetTriggers(htmx.ImmediateTriggers(ev))
}

// allowedMethods asks chi's routing tree which methods match the path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}

	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.RawPath
		if routePath == "" {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}

	var allowed []string
	for _, method := range []string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	} {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

type statusEnvelopeError struct {
	apiinternal.Envelope[struct{}]
	status int
}

func (e *statusEnvelopeError) Error() string {
	if e.Envelope.Error != nil && e.Envelope.Error.Message != "" {
		return e.Envelope.Error.Message
	}
	return http.StatusText(e.status)
}

func (e *statusEnvelopeError) GetStatus() int {
	return e.status
}

func statusError(ctx context.Context, status int, code, msg string, issues []apiinternal.FieldIssue, errs ...error) huma.StatusError {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("code", code),
	}
	if len(issues) > 0 {
		fields = append(fields, zap.Any("details", issues))
	}
	logWithStatus(ctx, status, msg, errors.Join(errs...), fields...)
	env := apiinternal.NewErrorEnvelope[struct{}](applog.TraceIDFromContext(ctx), code, msg, issues)
	return &statusEnvelopeError{Envelope: env, status: status}
}

func issuesFromErrors(errs []error) []apiinternal.FieldIssue {
	var issues []apiinternal.FieldIssue
	for _, err := range errs {
		if err == nil {
			continue
		}
		issue := apiinternal.FieldIssue{Issue: err.Error()}
		if detailer, ok := err.(huma.ErrorDetailer); ok {
			if detail := detailer.ErrorDetail(); detail != nil {
				issue.Issue = detail.Message
				issue.Field = detail.Location
			}
		}
		issues = append(issues, issue)
	}
	return issues
}

func statusCodeName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("HTTP_%d", status)
	}
	return strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToUpper(text))
}

func messageOrDefault(status int, msg string) string {
	if strings.TrimSpace(msg) != "" {
		return msg
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

func logWithStatus(ctx context.Context, status int, msg string, err error, fields ...zap.Field) {
	// huma builds a status 0 error while registering operations to derive the
	// error schema; it never reaches a client.
	if status == 0 {
		return
	}
	if msg == "" {
		msg = "request failed"
	}
	if status >= 500 {
		applog.LogError(ctx, msg, err, fields...)
		return
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= 400 {
		applog.LogWarn(ctx, msg, fields...)
		return
	}
	applog.LogInfo(ctx, msg, fields...)
}
