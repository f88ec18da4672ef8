package counter

// Counter is the API view of the shared counter.
type Counter struct {
	Value int64 `json:"value" doc:"Current counter value" example:"3"`
}

// Changed is the data of the counterChanged client event.
type Changed struct {
	Count int64 `json:"count"`
}
