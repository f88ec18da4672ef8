// Package routes assembles the HTTP handler tree: the htmx pages at the root,
// the JSON API under /v1 and the health probe.
package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/htmx-playground/internal/config"
	"github.com/janisto/htmx-playground/internal/htmx"
	"github.com/janisto/htmx-playground/internal/http/health"
	"github.com/janisto/htmx-playground/internal/http/pages"
	v1routes "github.com/janisto/htmx-playground/internal/http/v1/routes"
	appmiddleware "github.com/janisto/htmx-playground/internal/middleware"
	applog "github.com/janisto/htmx-playground/internal/platform/logging"
	"github.com/janisto/htmx-playground/internal/respond"
	"github.com/janisto/htmx-playground/internal/service/catalog"
	countersvc "github.com/janisto/htmx-playground/internal/service/counter"
)

// Paths of the mounted sub-trees.
const (
	APIPrefix  = "/v1"
	DocsPath   = "/docs"
	HealthPath = "/health"
)

// Options holds the dependencies of the handler tree.
type Options struct {
	Config  config.Config
	Version string
	Counter countersvc.Service
	Catalog *catalog.Catalog
}

// New returns the root handler.
func New(opts Options) (http.Handler, error) {
	if opts.Counter == nil {
		return nil, errors.New("routes: counter service is required")
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	guard, err := htmx.Guard(opts.Config.Guard)
	if err != nil {
		return nil, err
	}
	site, err := pages.New(pages.Options{
		Counter: opts.Counter,
		Catalog: opts.Catalog,
		Mode:    opts.Config.HeaderMode,
	})
	if err != nil {
		return nil, err
	}

	respond.Install()

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(APIPrefix + DocsPath),
		appmiddleware.CORS(opts.Config.CORSAllowedOrigins...),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
		htmx.AutoVary(),
	)

	router.Get(HealthPath, health.Handler(func(ctx context.Context) error {
		_, err := opts.Counter.Get(ctx)
		return err
	}))
	site.Register(router, guard)

	router.Route(APIPrefix, func(r chi.Router) {
		// JSON and CBOR are negotiated from Accept.
		r.Use(appmiddleware.Vary("Accept"))
		v1routes.Register(newAPI(r, opts.Version), opts.Counter, opts.Catalog)
	})
	return router, nil
}

func newAPI(r chi.Router, version string) huma.API {
	if version == "" {
		version = "dev"
	}
	cfg := huma.DefaultConfig("htmx playground API", version)
	cfg.Servers = []*huma.Server{{URL: APIPrefix}}
	cfg.DocsPath = DocsPath
	api := humachi.New(r, cfg)

	// Every JSON body is also offered as CBOR.
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			if op.RequestBody != nil && op.RequestBody.Content != nil {
				if content, ok := op.RequestBody.Content["application/json"]; ok {
					op.RequestBody.Content["application/cbor"] = content
				}
			}
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if content, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = content
				}
			}
		},
	)
	return api
}
