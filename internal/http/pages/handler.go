// Package pages serves the htmx demo site. Handlers read htmx request headers
// only through the htmx package so the auto-vary middleware sees every read.
package pages

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/htmx-playground/internal/htmx"
	"github.com/janisto/htmx-playground/internal/pagination"
	applog "github.com/janisto/htmx-playground/internal/platform/logging"
	"github.com/janisto/htmx-playground/internal/platform/timeutil"
	"github.com/janisto/htmx-playground/internal/respond"
	"github.com/janisto/htmx-playground/internal/service/catalog"
	countersvc "github.com/janisto/htmx-playground/internal/service/counter"
)

//go:embed templates/*.html
var templateFS embed.FS

// Client-side events raised by the pages.
const (
	EventCounterChanged = "counterChanged"
	EventCounterReset   = "counterReset"
	EventResetCancelled = "resetCancelled"
	EventClockTicked    = "clockTicked"
)

// DefaultPageSize is the number of search rows per page.
const DefaultPageSize = 5

const (
	partCursorKind = "part"
	searchRowsID   = "search-rows"
	resetAnswer    = "reset"
)

// Options configures Handler.
type Options struct {
	Counter  countersvc.Service
	Catalog  *catalog.Catalog
	Mode     htmx.Mode
	PageSize int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler renders the demo pages.
type Handler struct {
	counter  countersvc.Service
	catalog  *catalog.Catalog
	mode     htmx.Mode
	pageSize int
	now      func() time.Time
	tmpl     *template.Template
}

// New parses the templates and returns a Handler.
func New(opts Options) (*Handler, error) {
	if opts.Counter == nil || opts.Catalog == nil {
		return nil, errors.New("pages: counter and catalog are required")
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	h := &Handler{
		counter:  opts.Counter,
		catalog:  opts.Catalog,
		mode:     opts.Mode,
		pageSize: opts.PageSize,
		now:      opts.Now,
		tmpl:     tmpl,
	}
	if h.pageSize <= 0 {
		h.pageSize = DefaultPageSize
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h, nil
}

// Register mounts the pages on r. Fragment-only routes sit behind guard.
func (h *Handler) Register(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Get("/", h.index)
	r.Get("/search", h.search)
	r.Post("/counter/increment", h.increment)
	r.Post("/counter/reset", h.reset)
	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Get("/fragments/about", h.about)
		r.Get("/fragments/clock", h.clock)
		r.Get("/go/{where}", h.goTo)
	})
}

type counterView struct {
	Value int64
}

type searchView struct {
	Query   string
	Parts   []catalog.Part
	Total   int
	NextURL string
}

type pageView struct {
	Counter counterView
	Search  searchView
}

type counterChanged struct {
	Count  int64  `json:"count"`
	Source string `json:"source,omitempty"`
}

type clockTicked struct {
	At string `json:"at"`
}

// wantsFragment reports whether the client will swap a partial response.
// Boosted navigation and history restores need the whole page.
func wantsFragment(r *http.Request) bool {
	return htmx.IsRequest(r) && !htmx.IsBoosted(r) && !htmx.IsHistoryRestoreRequest(r)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	count, err := h.counter.Get(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if wantsFragment(r) {
		h.render(w, r, "counter", counterView{Value: count})
		return
	}
	search, err := h.searchResults(r.URL.Query())
	if err != nil {
		search = searchView{}
	}
	h.render(w, r, "layout", pageView{Counter: counterView{Value: count}, Search: search})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	view, err := h.searchResults(query)
	if err != nil {
		_ = respond.WriteError(w, r, http.StatusBadRequest, "INVALID_CURSOR", "invalid cursor", nil, err)
		return
	}
	if !wantsFragment(r) {
		count, err := h.counter.Get(r.Context())
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.render(w, r, "layout", pageView{Counter: counterView{Value: count}, Search: view})
		return
	}

	var setters []htmx.Setter
	// Typing in the search box keeps the address bar shareable; "load more"
	// clicks leave it alone.
	if name, ok := htmx.TriggerName(r); ok && name == "q" {
		setters = append(setters, htmx.SetReplaceURL("/search?"+url.Values{"q": {view.Query}}.Encode()))
	}
	if !h.apply(w, r, setters...) {
		return
	}

	if target, _ := htmx.Target(r); target == searchRowsID {
		h.render(w, r, "rows", view)
		return
	}
	h.render(w, r, "results", view)
}

func (h *Handler) searchResults(query url.Values) (searchView, error) {
	q := strings.TrimSpace(query.Get("q"))
	limit := h.pageSize
	if n, err := strconv.Atoi(query.Get("limit")); err == nil && n > 0 && n <= 50 {
		limit = n
	}
	cursor, err := pagination.DecodeCursor(query.Get("cursor"), partCursorKind)
	if err != nil {
		return searchView{}, err
	}
	page, err := pagination.Paginate(h.catalog.Search(q), cursor, limit, func(p catalog.Part) string { return p.SKU })
	if err != nil {
		return searchView{}, err
	}
	next := url.Values{}
	if q != "" {
		next.Set("q", q)
	}
	return searchView{
		Query:   q,
		Parts:   page.Items,
		Total:   page.Total,
		NextURL: page.NextURL("/search", next, limit),
	}, nil
}

func (h *Handler) increment(w http.ResponseWriter, r *http.Request) {
	step := int64(1)
	if v := r.FormValue("step"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			_ = respond.WriteError(w, r, http.StatusBadRequest, "INVALID_STEP", "step must be an integer", nil, err)
			return
		}
		step = n
	}
	count, err := h.counter.Add(r.Context(), step)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if !htmx.IsRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	source, _ := htmx.Trigger(r)
	applog.LogInfo(r.Context(), "counter incremented", zap.Int64("step", step), zap.String("source", source))
	ev, err := htmx.NewEventWithData(EventCounterChanged, counterChanged{Count: count, Source: source})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if !h.apply(w, r, htmx.SetTriggers(htmx.ImmediateTriggers(ev))) {
		return
	}
	h.render(w, r, "counter", counterView{Value: count})
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if !htmx.IsRequest(r) {
		if err := h.counter.Reset(r.Context()); err != nil {
			h.serviceError(w, r, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	answer, _ := htmx.Prompt(r)
	if !strings.EqualFold(strings.TrimSpace(answer), resetAnswer) {
		if h.apply(w, r,
			htmx.SetReswap(htmx.Swap{Option: htmx.SwapNone}),
			htmx.SetTriggers(htmx.ImmediateTriggers(htmx.NewEvent(EventResetCancelled))),
		) {
			w.WriteHeader(http.StatusOK)
		}
		return
	}

	if err := h.counter.Reset(r.Context()); err != nil {
		h.serviceError(w, r, err)
		return
	}
	if !h.apply(w, r,
		htmx.SetReswap(htmx.Swap{Option: htmx.SwapOuterHTML, Modifiers: []string{"swap:100ms"}}),
		htmx.SetTriggers(htmx.AfterSwapTriggers(htmx.NewEvent(EventCounterReset))),
	) {
		return
	}
	h.render(w, r, "counter", counterView{})
}

func (h *Handler) about(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "about", nil)
}

func (h *Handler) clock(w http.ResponseWriter, r *http.Request) {
	now := h.now().UTC().Format(timeutil.RFC3339Micros)
	ev, err := htmx.NewEventWithData(EventClockTicked, clockTicked{At: now})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if !h.apply(w, r, htmx.SetTriggers(htmx.AfterSettleTriggers(ev))) {
		return
	}
	h.render(w, r, "clock", now)
}

// goTo demonstrates the navigation response headers.
func (h *Handler) goTo(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "where") {
	case "location":
		if h.apply(w, r, htmx.SetLocation(htmx.Location{
			Path:   "/fragments/about",
			Target: "#notice",
			Swap:   htmx.Swap{Option: htmx.SwapInnerHTML},
		})) {
			w.WriteHeader(http.StatusOK)
		}
	case "redirect":
		if h.apply(w, r, htmx.SetRedirect("/")) {
			w.WriteHeader(http.StatusOK)
		}
	case "refresh":
		if h.apply(w, r, htmx.SetRefresh(true)) {
			w.WriteHeader(http.StatusOK)
		}
	case "push":
		if h.apply(w, r, htmx.SetPushURL("/?pushed=1")) {
			h.render(w, r, "notice", "URL pushed to history")
		}
	case "replace":
		path := "/"
		if u, ok := htmx.CurrentURL(r); ok && u.Path != "" {
			path = u.Path
		}
		if h.apply(w, r, htmx.SetReplaceURL(path+"?replaced=1")) {
			h.render(w, r, "notice", "URL replaced")
		}
	case "stay":
		if h.apply(w, r, htmx.PreventPushURL(), htmx.PreventReplaceURL()) {
			h.render(w, r, "notice", "History untouched")
		}
	case "retarget":
		if h.apply(w, r,
			htmx.SetRetarget("#notice"),
			htmx.SetReselect("#notice-body"),
			htmx.SetReswap(htmx.Swap{Option: htmx.SwapInnerHTML}),
		) {
			h.render(w, r, "notice", "Swapped into #notice instead of #main")
		}
	default:
		_ = respond.WriteError(w, r, http.StatusNotFound, "", "unknown destination", nil)
	}
}

// apply writes htmx response headers. Headers are staged first so a strict
// failure leaves the response untouched before the error is rendered.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request, setters ...htmx.Setter) bool {
	staged := http.Header{}
	if err := htmx.Apply(r.Context(), staged, h.mode, setters...); err != nil {
		_ = respond.WriteError(w, r, http.StatusInternalServerError, "HEADER_ENCODING", "response header could not be encoded", nil, err)
		return false
	}
	for name, values := range staged {
		w.Header()[name] = values
	}
	return true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		applog.LogError(r.Context(), "template render failed", err, zap.String("template", name))
		_ = respond.WriteError(w, r, http.StatusInternalServerError, "", "", nil, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, countersvc.ErrStepOutOfRange) {
		_ = respond.WriteError(w, r, http.StatusUnprocessableEntity, "STEP_OUT_OF_RANGE", err.Error(), nil)
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	_ = respond.WriteError(w, r, http.StatusInternalServerError, "", "", nil, err)
}
