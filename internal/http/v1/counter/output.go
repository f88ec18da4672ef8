package counter

// GetOutput for GET /counter
type GetOutput struct {
	Body Counter
}

// IncrementOutput for POST /counter/increment. Trigger raises counterChanged
// on htmx clients.
type IncrementOutput struct {
	Trigger string `header:"HX-Trigger" doc:"htmx client events"`
	Body    Counter
}

// ResetOutput for DELETE /counter (204 No Content)
type ResetOutput struct {
	Trigger string `header:"HX-Trigger-After-Settle" doc:"htmx client events"`
}
