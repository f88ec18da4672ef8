// Package health serves the readiness probe.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	applog "github.com/janisto/htmx-playground/internal/platform/logging"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status"`
}

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

const checkTimeout = 2 * time.Second

// Handler reports "healthy" when every check passes and 503 "unhealthy"
// otherwise.
func Handler(checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		status, body := http.StatusOK, Response{Status: "healthy"}
		for _, check := range checks {
			if err := check(ctx); err != nil {
				applog.LogError(r.Context(), "health check failed", err)
				status, body = http.StatusServiceUnavailable, Response{Status: "unhealthy"}
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
