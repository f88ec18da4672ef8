package middleware

import (
	"net/http"

	"github.com/janisto/htmx-playground/internal/htmx"
)

// Vary returns middleware that declares a fixed set of request headers in
// Vary on every response, e.g. Accept for content negotiation. Names are
// merged with any existing Vary value without duplication.
//
// Headers that only some handlers consult belong to htmx.AutoVary instead.
func Vary(names ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			htmx.MergeVary(w.Header(), names...)
			next.ServeHTTP(w, r)
		})
	}
}
