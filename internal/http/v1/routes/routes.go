package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/htmx-playground/internal/http/v1/counter"
	"github.com/janisto/htmx-playground/internal/http/v1/parts"
	"github.com/janisto/htmx-playground/internal/service/catalog"
	countersvc "github.com/janisto/htmx-playground/internal/service/counter"
)

// Register wires all JSON API routes into the provided API router.
func Register(api huma.API, counterService countersvc.Service, cat *catalog.Catalog) {
	counter.Register(api, counterService)
	parts.Register(api, cat, apiPrefix(api))
}

// apiPrefix returns the path of the first OpenAPI server, where the API is
// mounted.
func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
