package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/janisto/htmx-playground/internal/htmx"
)

// CORS returns a middleware that lets cross-origin htmx clients send the htmx
// request headers and read the htmx response headers. With no origins every
// origin is allowed.
func CORS(origins ...string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowed := append([]string{
		"Accept",
		"Content-Type",
		"X-CSRF-Token",
	}, htmx.RequestHeaderNames()...)
	exposed := append([]string{"Link"}, htmx.ResponseHeaderNames()...)

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: allowed,
		ExposedHeaders: exposed,
		MaxAge:         300,
	})
}
