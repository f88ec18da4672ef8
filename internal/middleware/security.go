package middleware

import (
	"net/http"
	"strings"
)

// Security returns middleware that sets browser security headers on all
// responses. Paths in skipPaths (prefix match) are left alone, e.g. "/api-docs".
//
// Cache-Control is deliberately not set: fragment and full-page responses are
// cacheable and rely on Vary to be keyed correctly.
func Security(skipPaths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range skipPaths {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			h := w.Header()
			h.Set("Content-Security-Policy", "frame-ancestors 'self'")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			h.Set(
				"Permissions-Policy",
				"accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()",
			)
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			next.ServeHTTP(w, r)
		})
	}
}
