package htmx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SwapOption is a value of the hx-swap attribute.
type SwapOption string

// Swap styles supported by htmx.
const (
	// SwapInnerHTML replaces the inner html of the target element.
	SwapInnerHTML SwapOption = "innerHTML"
	// SwapOuterHTML replaces the entire target element with the response.
	SwapOuterHTML SwapOption = "outerHTML"
	// SwapBeforeBegin inserts the response before the target element.
	SwapBeforeBegin SwapOption = "beforebegin"
	// SwapAfterBegin inserts the response before the first child of the target element.
	SwapAfterBegin SwapOption = "afterbegin"
	// SwapBeforeEnd inserts the response after the last child of the target element.
	SwapBeforeEnd SwapOption = "beforeend"
	// SwapAfterEnd inserts the response after the target element.
	SwapAfterEnd SwapOption = "afterend"
	// SwapDelete deletes the target element regardless of the response.
	SwapDelete SwapOption = "delete"
	// SwapNone does not append content from the response. Out of band items are still processed.
	SwapNone SwapOption = "none"
)

// Valid reports whether o is one of the known swap styles.
func (o SwapOption) Valid() bool {
	switch o {
	case SwapInnerHTML, SwapOuterHTML, SwapBeforeBegin, SwapAfterBegin,
		SwapBeforeEnd, SwapAfterEnd, SwapDelete, SwapNone:
		return true
	}
	return false
}

// Swap is a swap style with optional modifiers such as "swap:1s" or
// "scroll:top".
type Swap struct {
	Option    SwapOption
	Modifiers []string
}

// String renders the swap value as sent on the wire.
func (s Swap) String() string {
	if len(s.Modifiers) == 0 {
		return string(s.Option)
	}
	return string(s.Option) + " " + strings.Join(s.Modifiers, " ")
}

// IsZero reports whether no swap style is set.
func (s Swap) IsZero() bool {
	return s.Option == "" && len(s.Modifiers) == 0
}

func (s Swap) validate() error {
	if !s.Option.Valid() {
		return fmt.Errorf("%w: unknown swap style %q", ErrInvalidHeaderValue, s.Option)
	}
	for _, m := range s.Modifiers {
		if m == "" || strings.ContainsAny(m, " \t") {
			return fmt.Errorf("%w: swap modifier %q", ErrInvalidHeaderValue, m)
		}
	}
	return nil
}

// MarshalJSON encodes the swap value as a JSON string.
func (s Swap) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
