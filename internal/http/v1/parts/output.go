package parts

import "github.com/janisto/htmx-playground/internal/service/catalog"

// ListData is the body of a parts page.
type ListData struct {
	Parts []catalog.Part `json:"parts" doc:"Parts on this page"`
	Total int            `json:"total" doc:"Number of parts matching the query" example:"16"`
}

// ListOutput for GET /parts
type ListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 next page link"`
	Body ListData
}

// GetOutput for GET /parts/{sku}
type GetOutput struct {
	Body catalog.Part
}
