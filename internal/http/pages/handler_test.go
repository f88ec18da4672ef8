package pages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/janisto/htmx-playground/internal/htmx"
	appmiddleware "github.com/janisto/htmx-playground/internal/middleware"
	"github.com/janisto/htmx-playground/internal/pagination"
	applog "github.com/janisto/htmx-playground/internal/platform/logging"
	"github.com/janisto/htmx-playground/internal/respond"
	"github.com/janisto/htmx-playground/internal/service/catalog"
	countersvc "github.com/janisto/htmx-playground/internal/service/counter"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 535897000, time.UTC)

func newTestHandler(t *testing.T, svc countersvc.Service, mode htmx.Mode) *Handler {
	t.Helper()
	h, err := New(Options{
		Counter:  svc,
		Catalog:  catalog.Default(),
		Mode:     mode,
		PageSize: 2,
		Now:      func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func newTestRouter(t *testing.T, svc countersvc.Service) chi.Router {
	t.Helper()
	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		applog.RequestLogger(),
		respond.Recoverer(),
		htmx.AutoVary(),
	)
	newTestHandler(t, svc, htmx.Lenient).Register(router, htmx.MustGuard(htmx.DefaultGuardConfig()))
	return router
}

func serve(router http.Handler, method, target string, body url.Values, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func htmxHeaders(kv ...string) map[string]string {
	h := map[string]string{"HX-Request": "true"}
	for i := 0; i+1 < len(kv); i += 2 {
		h[kv[i]] = kv[i+1]
	}
	return h
}

func TestNewRequiresServices(t *testing.T) {
	if _, err := New(Options{Catalog: catalog.Default()}); err == nil {
		t.Fatal("expected error without counter")
	}
	if _, err := New(Options{Counter: countersvc.NewMemory()}); err == nil {
		t.Fatal("expected error without catalog")
	}
}

func TestIndexFullPage(t *testing.T) {
	router := newTestRouter(t, countersvc.NewMemory())
	rec := serve(router, http.MethodGet, "/", nil, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "<!doctype html>") {
		t.Fatalf("expected full document, got %q", rec.Body.String()[:40])
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("unexpected Content-Type %q", ct)
	}
	if got := rec.Header().Get("Vary"); got != "HX-Request" {
		t.Fatalf("expected Vary HX-Request, got %q", got)
	}
}

func TestIndexVariants(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		fragment bool
		vary     string
	}{
		{
			name:     "htmx swap",
			headers:  htmxHeaders(),
			fragment: true,
			vary:     "HX-Boosted, HX-History-Restore-Request, HX-Request",
		},
		{
			name:    "boosted navigation",
			headers: htmxHeaders("HX-Boosted", "true"),
			vary:    "HX-Boosted, HX-Request",
		},
		{
			name:    "history restore",
			headers: htmxHeaders("HX-History-Restore-Request", "true"),
			vary:    "HX-Boosted, HX-History-Restore-Request, HX-Request",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, countersvc.NewMemory())
			rec := serve(router, http.MethodGet, "/", nil, tt.headers)

			body := rec.Body.String()
			if got := strings.HasPrefix(body, `<section id="counter">`); got != tt.fragment {
				t.Fatalf("fragment=%v, body %q", got, body)
			}
			if got := rec.Header().Get("Vary"); got != tt.vary {
				t.Fatalf("expected Vary %q, got %q", tt.vary, got)
			}
		})
	}
}

func TestIncrementFragment(t *testing.T) {
	svc := countersvc.NewMemory()
	router := newTestRouter(t, svc)

	rec := serve(router, http.MethodPost, "/counter/increment",
		url.Values{"step": {"10"}}, htmxHeaders("HX-Trigger", "bump-ten"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("HX-Trigger"); got != `{"counterChanged":{"count":10,"source":"bump-ten"}}` {
		t.Fatalf("unexpected HX-Trigger %q", got)
	}
	if !strings.Contains(rec.Body.String(), `<output id="count">10</output>`) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("Vary"); got != "HX-Request, HX-Trigger" {
		t.Fatalf("unexpected Vary %q", got)
	}
	if v, _ := svc.Get(context.Background()); v != 10 {
		t.Fatalf("expected stored 10, got %d", v)
	}
}

func TestIncrementDefaultsToOne(t *testing.T) {
	svc := countersvc.NewMemory()
	router := newTestRouter(t, svc)

	rec := serve(router, http.MethodPost, "/counter/increment", url.Values{}, htmxHeaders())
	if got := rec.Header().Get("HX-Trigger"); got != `{"counterChanged":{"count":1}}` {
		t.Fatalf("unexpected HX-Trigger %q", got)
	}
}

func TestIncrementWithoutHtmxRedirects(t *testing.T) {
	svc := countersvc.NewMemory()
	router := newTestRouter(t, svc)

	rec := serve(router, http.MethodPost, "/counter/increment", url.Values{"step": {"2"}}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/" {
		t.Fatalf("unexpected Location %q", got)
	}
	if v, _ := svc.Get(context.Background()); v != 2 {
		t.Fatalf("expected stored 2, got %d", v)
	}
}

func TestIncrementErrors(t *testing.T) {
	tests := []struct {
		name   string
		step   string
		status int
		code   string
	}{
		{"not a number", "ten", http.StatusBadRequest, "INVALID_STEP"},
		{"out of range", "1000", http.StatusUnprocessableEntity, "STEP_OUT_OF_RANGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, countersvc.NewMemory())
			rec := serve(router, http.MethodPost, "/counter/increment", url.Values{"step": {tt.step}}, htmxHeaders())

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if got := rec.Header().Get("HX-Reswap"); got != "none" {
				t.Fatalf("expected HX-Reswap none, got %q", got)
			}
			var events map[string]struct {
				Status int    `json:"status"`
				Code   string `json:"code"`
			}
			if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events); err != nil {
				t.Fatalf("HX-Trigger is not JSON: %v", err)
			}
			ev, ok := events[respond.ErrorEventName]
			if !ok || ev.Status != tt.status || ev.Code != tt.code {
				t.Fatalf("unexpected error event %+v", events)
			}
		})
	}
}

func TestResetCancelled(t *testing.T) {
	svc := countersvc.NewMemory()
	_, _ = svc.Add(context.Background(), 7)
	router := newTestRouter(t, svc)

	for _, answer := range []string{"", "nope"} {
		headers := htmxHeaders()
		if answer != "" {
			headers["HX-Prompt"] = answer
		}
		rec := serve(router, http.MethodPost, "/counter/reset", nil, headers)

		if rec.Code != http.StatusOK {
			t.Fatalf("answer %q: expected 200, got %d", answer, rec.Code)
		}
		if got := rec.Header().Get("HX-Reswap"); got != "none" {
			t.Fatalf("answer %q: expected HX-Reswap none, got %q", answer, got)
		}
		if got := rec.Header().Get("HX-Trigger"); got != EventResetCancelled {
			t.Fatalf("answer %q: unexpected HX-Trigger %q", answer, got)
		}
		if got := rec.Header().Get("Vary"); got != "HX-Prompt, HX-Request" {
			t.Fatalf("answer %q: unexpected Vary %q", answer, got)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("answer %q: expected empty body", answer)
		}
	}
	if v, _ := svc.Get(context.Background()); v != 7 {
		t.Fatalf("expected counter untouched, got %d", v)
	}
}

func TestResetConfirmed(t *testing.T) {
	svc := countersvc.NewMemory()
	_, _ = svc.Add(context.Background(), 7)
	router := newTestRouter(t, svc)

	rec := serve(router, http.MethodPost, "/counter/reset", nil, htmxHeaders("HX-Prompt", " Reset "))

	if got := rec.Header().Get("HX-Trigger-After-Swap"); got != EventCounterReset {
		t.Fatalf("unexpected HX-Trigger-After-Swap %q", got)
	}
	if got := rec.Header().Get("HX-Reswap"); got != "outerHTML swap:100ms" {
		t.Fatalf("unexpected HX-Reswap %q", got)
	}
	if !strings.Contains(rec.Body.String(), `<output id="count">0</output>`) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if v, _ := svc.Get(context.Background()); v != 0 {
		t.Fatalf("expected 0, got %d", v)
	}
}

func TestResetWithoutHtmx(t *testing.T) {
	svc := countersvc.NewMemory()
	_, _ = svc.Add(context.Background(), 3)
	router := newTestRouter(t, svc)

	rec := serve(router, http.MethodPost, "/counter/reset", nil, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if v, _ := svc.Get(context.Background()); v != 0 {
		t.Fatalf("expected 0, got %d", v)
	}
}

func TestSearchTypingReplacesURL(t *testing.T) {
	router := newTestRouter(t, countersvc.NewMemory())

	rec := serve(router, http.MethodGet, "/search?q=shelf", nil,
		htmxHeaders("HX-Trigger-Name", "q", "HX-Target", "results"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, `<div id="results">`) {
		t.Fatalf("expected results fragment, got %q", body)
	}
	for _, sku := range []string{"P-1007", "P-1008"} {
		if !strings.Contains(body, sku) {
			t.Fatalf("expected %s in body", sku)
		}
	}
	if strings.Contains(body, "P-1015") {
		t.Fatal("expected second page to be withheld")
	}
	if !strings.Contains(body, `id="more"`) {
		t.Fatal("expected load more row")
	}
	if got := rec.Header().Get("HX-Replace-Url"); got != "/search?q=shelf" {
		t.Fatalf("unexpected HX-Replace-Url %q", got)
	}
	want := "HX-Boosted, HX-History-Restore-Request, HX-Request, HX-Target, HX-Trigger-Name"
	if got := rec.Header().Get("Vary"); got != want {
		t.Fatalf("expected Vary %q, got %q", want, got)
	}
}

func TestSearchLoadMoreRendersRows(t *testing.T) {
	router := newTestRouter(t, countersvc.NewMemory())
	cursor := pagination.Cursor{Kind: partCursorKind, After: "P-1008"}.Encode()

	rec := serve(router, http.MethodGet, "/search?q=shelf&limit=2&cursor="+cursor, nil,
		htmxHeaders("HX-Trigger-Name", "more", "HX-Target", "search-rows"))

	body := rec.Body.String()
	if !strings.HasPrefix(body, "<tr><td>P-1015</td>") {
		t.Fatalf("expected rows fragment, got %q", body)
	}
	if strings.Contains(body, `id="more"`) {
		t.Fatal("expected no load more row on the last page")
	}
	if got := rec.Header().Get("HX-Replace-Url"); got != "" {
		t.Fatalf("expected no HX-Replace-Url, got %q", got)
	}
}

func TestSearchWithoutHtmxRendersPage(t *testing.T) {
	router := newTestRouter(t, countersvc.NewMemory())
	rec := serve(router, http.MethodGet, "/search?q=epoxy", nil, nil)

	body := rec.Body.String()
	if !strings.HasPrefix(body, "<!doctype html>") || !strings.Contains(body, "P-1011") {
		t.Fatalf("expected full page with results, got %q", body)
	}
}

func TestSearchInvalidCursor(t *testing.T) {
	router := newTestRouter(t, countersvc.NewMemory())
	rec := serve(router, http.MethodGet, "/search?cursor=bogus", nil, htmxHeaders())

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "INVALID_CURSOR") {
		t.Fatalf("unexpected HX-Trigger %q", rec.Header().Get("HX-Trigger"))
	}
}

func TestFragmentsAreGuarded(t *testing.T) {
	router := newTestRouter(t, countersvc.NewMemory())

	for _, path := range []string{"/fragments/about", "/fragments/clock", "/go/redirect"} {
		rec := serve(router, http.MethodGet, path, nil, nil)
		if rec.Code != htmx.GuardStatus {
			t.Fatalf("%s: expected %d, got %d", path, htmx.GuardStatus, rec.Code)
		}
		if got := rec.Header().Get("Location"); got != "/" {
			t.Fatalf("%s: unexpected Location %q", path, got)
		}
		if got := rec.Header().Get("Vary"); got != "HX-Request" {
			t.Fatalf("%s: unexpected Vary %q", path, got)
		}
	}
}

func TestAboutFragment(t *testing.T) {
	router := newTestRouter(t, countersvc.NewMemory())
	rec := serve(router, http.MethodGet, "/fragments/about", nil, htmxHeaders())

	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), `<article id="about">`) {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestClockTriggersAfterSettle(t *testing.T) {
	router := newTestRouter(t, countersvc.NewMemory())
	rec := serve(router, http.MethodGet, "/fragments/clock", nil, htmxHeaders())

	want := `{"clockTicked":{"at":"2026-03-14T15:09:26.535897Z"}}`
	if got := rec.Header().Get("HX-Trigger-After-Settle"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if !strings.Contains(rec.Body.String(), `datetime="2026-03-14T15:09:26.535897Z"`) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestGoDestinations(t *testing.T) {
	tests := []struct {
		where   string
		headers map[string]string
		want    map[string]string
		body    string
	}{
		{
			where: "location",
			want:  map[string]string{"HX-Location": `{"path":"/fragments/about","target":"#notice","swap":"innerHTML"}`},
		},
		{
			where: "redirect",
			want:  map[string]string{"HX-Redirect": "/"},
		},
		{
			where: "refresh",
			want:  map[string]string{"HX-Refresh": "true"},
		},
		{
			where: "push",
			want:  map[string]string{"HX-Push-Url": "/?pushed=1"},
			body:  "URL pushed",
		},
		{
			where:   "replace",
			headers: map[string]string{"HX-Current-URL": "http://localhost:8080/search?q=glue"},
			want:    map[string]string{"HX-Replace-Url": "/search?replaced=1"},
			body:    "URL replaced",
		},
		{
			where: "replace",
			want:  map[string]string{"HX-Replace-Url": "/?replaced=1"},
		},
		{
			where: "stay",
			want:  map[string]string{"HX-Push-Url": "false", "HX-Replace-Url": "false"},
			body:  "History untouched",
		},
		{
			where: "retarget",
			want: map[string]string{
				"HX-Retarget": "#notice",
				"HX-Reselect": "#notice-body",
				"HX-Reswap":   "innerHTML",
			},
			body: `<p id="notice-body">`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			router := newTestRouter(t, countersvc.NewMemory())
			headers := htmxHeaders()
			for k, v := range tt.headers {
				headers[k] = v
			}
			rec := serve(router, http.MethodGet, "/go/"+tt.where, nil, headers)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			for name, value := range tt.want {
				if got := rec.Header().Get(name); got != value {
					t.Fatalf("expected %s %q, got %q", name, value, got)
				}
			}
			if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
				t.Fatalf("expected body to contain %q, got %q", tt.body, rec.Body.String())
			}
		})
	}
}

func TestGoUnknownDestination(t *testing.T) {
	router := newTestRouter(t, countersvc.NewMemory())
	rec := serve(router, http.MethodGet, "/go/nowhere", nil, htmxHeaders())

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := rec.Header().Get("HX-Reswap"); got != "none" {
		t.Fatalf("expected HX-Reswap none, got %q", got)
	}
}

func TestApplyModes(t *testing.T) {
	bad := htmx.SetRedirect("/bad\nvalue")

	t.Run("strict", func(t *testing.T) {
		h := newTestHandler(t, countersvc.NewMemory(), htmx.Strict)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		if h.apply(rec, req, htmx.SetPushURL("/ok"), bad) {
			t.Fatal("expected apply to fail")
		}
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if got := rec.Header().Get("HX-Push-Url"); got != "" {
			t.Fatalf("expected staged headers to be dropped, got %q", got)
		}
	})

	t.Run("lenient", func(t *testing.T) {
		h := newTestHandler(t, countersvc.NewMemory(), htmx.Lenient)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		if !h.apply(rec, req, htmx.SetPushURL("/ok"), bad) {
			t.Fatal("expected apply to succeed")
		}
		if got := rec.Header().Get("HX-Push-Url"); got != "/ok" {
			t.Fatalf("expected HX-Push-Url /ok, got %q", got)
		}
		if got := rec.Header().Get("HX-Redirect"); got != "" {
			t.Fatalf("expected HX-Redirect omitted, got %q", got)
		}
	})
}
