package htmx

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/net/http/httpguts"

	applog "github.com/janisto/htmx-playground/internal/platform/logging"
)

// Setter writes a single response header. It validates the value first and
// leaves the header untouched when it returns an error.
type Setter func(http.Header) error

// Mode selects how Apply treats setters that fail to encode.
type Mode int

const (
	// Lenient omits headers that fail to encode and logs a warning.
	Lenient Mode = iota
	// Strict reports every encoding failure to the caller.
	Strict
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Apply runs the setters against h. In Strict mode the failures are joined
// and returned; headers that encoded cleanly are still written. In Lenient
// mode failures are logged through the request-scoped logger and dropped.
func Apply(ctx context.Context, h http.Header, mode Mode, setters ...Setter) error {
	var errs []error
	for _, set := range setters {
		if set == nil {
			continue
		}
		if err := set(h); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	if mode == Strict {
		return errors.Join(errs...)
	}
	for _, err := range errs {
		fields := []zap.Field{zap.Error(err)}
		var encErr *EncodingError
		if errors.As(err, &encErr) {
			fields = append(fields, zap.String("header", encErr.Header))
		}
		applog.LogWarn(ctx, "htmx header omitted", fields...)
	}
	return nil
}

// SetLocation sets HX-Location.
func SetLocation(loc Location) Setter {
	return func(h http.Header) error {
		v, err := loc.encode()
		if err != nil {
			return encodingError(HXLocation, loc.Path, err)
		}
		return setValue(h, HXLocation, v)
	}
}

// SetLocationPath sets HX-Location to a bare path.
func SetLocationPath(path string) Setter {
	return SetLocation(Location{Path: path})
}

// SetPushURL sets HX-Push-Url.
func SetPushURL(u string) Setter {
	return stringSetter(HXPushURL, u)
}

// PreventPushURL sets HX-Push-Url to "false" so the history is not updated.
func PreventPushURL() Setter {
	return stringSetter(HXPushURL, "false")
}

// SetRedirect sets HX-Redirect.
func SetRedirect(u string) Setter {
	return stringSetter(HXRedirect, u)
}

// SetRefresh sets HX-Refresh to "true" when refresh is true. When false no
// header is written.
func SetRefresh(refresh bool) Setter {
	return func(h http.Header) error {
		if !refresh {
			return nil
		}
		return setValue(h, HXRefresh, "true")
	}
}

// SetReplaceURL sets HX-Replace-Url.
func SetReplaceURL(u string) Setter {
	return stringSetter(HXReplaceURL, u)
}

// PreventReplaceURL sets HX-Replace-Url to "false".
func PreventReplaceURL() Setter {
	return stringSetter(HXReplaceURL, "false")
}

// SetReswap sets HX-Reswap.
func SetReswap(s Swap) Setter {
	return func(h http.Header) error {
		if err := s.validate(); err != nil {
			return encodingError(HXReswap, s.String(), err)
		}
		return setValue(h, HXReswap, s.String())
	}
}

// SetRetarget sets HX-Retarget to a CSS selector.
func SetRetarget(selector string) Setter {
	return stringSetter(HXRetarget, selector)
}

// SetReselect sets HX-Reselect to a CSS selector.
func SetReselect(selector string) Setter {
	return stringSetter(HXReselect, selector)
}

// SetTriggers writes the trigger header selected by the set's timing class.
// An empty set writes nothing.
func SetTriggers(set TriggerSet) Setter {
	return func(h http.Header) error {
		f, err := ComposeTrigger(set)
		if err != nil {
			return err
		}
		if f == nil {
			return nil
		}
		h.Set(f.Header.String(), f.Value)
		return nil
	}
}

// VaryOn merges the given request headers into Vary. Use it when a handler
// branches on a header without going through the extraction functions.
func VaryOn(ids ...RequestHeader) Setter {
	return func(h http.Header) error {
		names := make([]string, 0, len(ids))
		for _, id := range ids {
			if id.Valid() {
				names = append(names, id.String())
			}
		}
		MergeVary(h, names...)
		return nil
	}
}

func stringSetter(id ResponseHeader, v string) Setter {
	return func(h http.Header) error {
		if v == "" {
			return encodingError(id, v, fmt.Errorf("%w: empty", ErrInvalidHeaderValue))
		}
		return setValue(h, id, v)
	}
}

func setValue(h http.Header, id ResponseHeader, v string) error {
	if !httpguts.ValidHeaderFieldValue(v) {
		return encodingError(id, v, ErrInvalidHeaderValue)
	}
	h.Set(id.String(), v)
	return nil
}
