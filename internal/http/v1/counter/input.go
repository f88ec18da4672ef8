package counter

// IncrementInput for POST /counter/increment
type IncrementInput struct {
	Body struct {
		Step int64 `json:"step" minimum:"-100" maximum:"100" required:"true" doc:"Amount to add" example:"1"`
	}
}
