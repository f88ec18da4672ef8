package clock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func withFixedNow(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 600000, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func TestClockJSON(t *testing.T) {
	withFixedNow(t)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Timestamp != "2026-01-02T03:04:05.000600Z" {
		t.Fatalf("unexpected timestamp %q", resp.Timestamp)
	}
	if got := rec.Header().Get("Vary"); got != "HX-Request" {
		t.Fatalf("expected Vary HX-Request, got %q", got)
	}
}

func TestClockFragment(t *testing.T) {
	withFixedNow(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if !strings.HasPrefix(rec.Body.String(), `<time datetime="2026-01-02T03:04:05.000600Z">`) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("HX-Trigger-After-Settle"); got != `{"clockTicked":{"at":"2026-01-02T03:04:05.000600Z"}}` {
		t.Fatalf("unexpected trigger %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "HX-Request" {
		t.Fatalf("expected Vary HX-Request, got %q", got)
	}
}

func TestClockEntryPoint(t *testing.T) {
	withFixedNow(t)
	var entry func(http.ResponseWriter, *http.Request) = Handler().ServeHTTP
	rec := httptest.NewRecorder()
	entry(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Vary"); got != "HX-Request" {
		t.Fatalf("expected Vary HX-Request, got %q", got)
	}
}
