package htmx

import (
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/http/httpguts"

	applog "github.com/janisto/htmx-playground/internal/platform/logging"
)

// AutoVary returns middleware that adds the htmx request headers consulted by
// the downstream handler to the Vary response header.
//
// A fresh Tracker is placed in the request context before next runs. The
// tracker is finalized when the response headers are committed: on the first
// WriteHeader, Write or Flush, or when next returns without writing. Reads
// that happen after that point cannot change the response and are dropped.
// If next panics the tracker is discarded and the panic propagates.
//
// The wrapped writer does not implement http.Hijacker. Handlers that take
// over the connection use http.NewResponseController, which reaches the
// underlying writer through Unwrap; a hijacked response carries no Vary.
//
// When a tracker is already installed the middleware is a pass-through and
// the outer instance owns the Vary header.
func AutoVary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if TrackerFromContext(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			tracker := NewTracker()
			vw := &varyWriter{ResponseWriter: w, tracker: tracker, req: r}
			next.ServeHTTP(vw, r.WithContext(WithTracker(r.Context(), tracker)))
			vw.commit()
		})
	}
}

// varyWriter merges the tracked headers into Vary right before the response
// headers are sent.
type varyWriter struct {
	http.ResponseWriter
	tracker   *Tracker
	req       *http.Request
	committed bool
}

func (w *varyWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	consulted := w.tracker.Finalize()
	if len(consulted) == 0 {
		return
	}
	names := make([]string, len(consulted))
	for i, id := range consulted {
		names[i] = id.String()
	}
	MergeVary(w.ResponseWriter.Header(), names...)
	applog.LoggerFromContext(w.req.Context()).Debug("vary merged", zap.Strings("headers", names))
}

func (w *varyWriter) WriteHeader(status int) {
	// 1xx responses do not commit the final header set.
	if status >= 200 || status == http.StatusSwitchingProtocols {
		w.commit()
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *varyWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *varyWriter) ReadFrom(src io.Reader) (int64, error) {
	w.commit()
	if rf, ok := w.ResponseWriter.(io.ReaderFrom); ok {
		return rf.ReadFrom(src)
	}
	return io.Copy(w.ResponseWriter, src)
}

func (w *varyWriter) Flush() {
	w.commit()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *varyWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MergeVary adds names to the Vary header of h, treating the existing value
// as a case-insensitive set. Existing entries keep their order and spelling,
// new names are appended, and all values are folded into a single field.
// Nothing is written when names is empty. An existing "*" already varies on
// everything. A malformed existing value is treated as absent.
func MergeVary(h http.Header, names ...string) {
	if len(names) == 0 {
		return
	}
	existing, ok := parseVary(h.Values(VaryHeader))
	if !ok {
		existing = nil
	}

	seen := make(map[string]struct{}, len(existing)+len(names))
	merged := make([]string, 0, len(existing)+len(names))
	for _, name := range existing {
		if name == "*" {
			h.Set(VaryHeader, "*")
			return
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, name)
	}
	added := false
	for _, name := range names {
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup || !httpguts.ValidHeaderFieldName(name) {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, name)
		added = true
	}
	if !added && ok {
		return
	}
	if len(merged) == 0 {
		return
	}
	h.Set(VaryHeader, strings.Join(merged, ", "))
}

// parseVary splits Vary field values into members. It reports false when a
// member is neither "*" nor a valid field name.
func parseVary(values []string) ([]string, bool) {
	var out []string
	for _, v := range values {
		for item := range strings.SplitSeq(v, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if item != "*" && !httpguts.ValidHeaderFieldName(item) {
				return nil, false
			}
			out = append(out, item)
		}
	}
	return out, true
}
