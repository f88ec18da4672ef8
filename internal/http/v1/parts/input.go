package parts

// ListInput for GET /parts
type ListInput struct {
	Query  string `query:"q"      doc:"Words that must all appear in the name or category" example:"shelf"`
	Cursor string `query:"cursor" doc:"Opaque cursor from the previous page"`
	Limit  int    `query:"limit"  doc:"Maximum parts per page"                             default:"10" minimum:"1" maximum:"50"`
}

// GetInput for GET /parts/{sku}
type GetInput struct {
	SKU string `path:"sku" doc:"Part SKU" example:"P-1001"`
}
