package parts

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/htmx-playground/internal/pagination"
	"github.com/janisto/htmx-playground/internal/service/catalog"
)

// CursorKind tags cursors of the parts list.
const CursorKind = "part"

// Register registers the catalog endpoints. prefix is prepended to paths in
// Link headers.
func Register(api huma.API, cat *catalog.Catalog, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "list-parts",
		Method:      http.MethodGet,
		Path:        "/parts",
		Summary:     "Search parts",
		Description: "Returns a page of parts matching q. Follow the Link header for the next page.",
		Tags:        []string{"Parts"},
	}, func(_ context.Context, input *ListInput) (*ListOutput, error) {
		cursor, err := pagination.DecodeCursor(input.Cursor, CursorKind)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid cursor")
		}
		page, err := pagination.Paginate(cat.Search(input.Query), cursor, input.Limit, partSKU)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid cursor")
		}

		query := url.Values{}
		if input.Query != "" {
			query.Set("q", input.Query)
		}
		return &ListOutput{
			Link: page.LinkHeader(prefix+"/parts", query, input.Limit),
			Body: ListData{Parts: page.Items, Total: page.Total},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-part",
		Method:      http.MethodGet,
		Path:        "/parts/{sku}",
		Summary:     "Get a part",
		Tags:        []string{"Parts"},
	}, func(_ context.Context, input *GetInput) (*GetOutput, error) {
		part, ok := cat.Lookup(input.SKU)
		if !ok {
			return nil, huma.Error404NotFound("part not found")
		}
		return &GetOutput{Body: part}, nil
	})
}

func partSKU(p catalog.Part) string {
	return p.SKU
}
