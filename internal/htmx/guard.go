package htmx

import (
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/net/http/httpguts"

	applog "github.com/janisto/htmx-playground/internal/platform/logging"
)

// DefaultRedirectTarget is where Guard sends requests that were not made by htmx.
const DefaultRedirectTarget = "/"

// GuardStatus is the status code of the redirect issued by Guard. 303 is a
// temporary redirect that always switches the follow-up request to GET.
const GuardStatus = http.StatusSeeOther

// GuardConfig configures Guard. It is read-only once the middleware is built.
type GuardConfig struct {
	// RedirectTarget is the Location for requests without HX-Request.
	// Empty means DefaultRedirectTarget.
	RedirectTarget string
}

// DefaultGuardConfig returns a configuration redirecting to "/".
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{RedirectTarget: DefaultRedirectTarget}
}

func (c GuardConfig) target() string {
	if c.RedirectTarget == "" {
		return DefaultRedirectTarget
	}
	return c.RedirectTarget
}

// Validate checks that the redirect target can be sent as a Location header.
func (c GuardConfig) Validate() error {
	target := c.target()
	if !httpguts.ValidHeaderFieldValue(target) {
		return &ConfigError{Field: "RedirectTarget", Value: target, Err: fmt.Errorf("%w: not a valid header value", ErrInvalidConfig)}
	}
	if _, err := url.Parse(target); err != nil {
		return &ConfigError{Field: "RedirectTarget", Value: target, Err: fmt.Errorf("%w: %v", ErrInvalidConfig, err)}
	}
	return nil
}

// Guard returns middleware that only lets htmx requests through. Requests
// without the HX-Request header are redirected to cfg.RedirectTarget and the
// downstream handler is not called.
//
// Guard is a routing convenience for endpoints that only serve fragments. Any
// client can send HX-Request, so it must not be used for access control.
func Guard(cfg GuardConfig) (func(http.Handler) http.Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	target := cfg.target()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsRequest(r) {
				next.ServeHTTP(w, r)
				return
			}
			applog.LoggerFromContext(r.Context()).Debug(
				"non-htmx request redirected",
				zap.String("path", r.URL.Path),
				zap.String("location", target),
			)
			w.Header().Set("Location", target)
			w.WriteHeader(GuardStatus)
		})
	}, nil
}

// MustGuard is like Guard but panics on an invalid configuration.
func MustGuard(cfg GuardConfig) func(http.Handler) http.Handler {
	mw, err := Guard(cfg)
	if err != nil {
		panic(err)
	}
	return mw
}
