// Package htmx provides typed access to the htmx request and response headers
// and middleware that keeps the Vary header in sync with the request headers a
// handler actually consulted.
//
// See https://htmx.org/reference/#headers for the header vocabulary.
package htmx

import "strings"

// VaryHeader is the standard cache-variance response header.
const VaryHeader = "Vary"

// RequestHeader identifies a request header sent by the htmx client.
type RequestHeader uint8

// Request headers, in registry order.
const (
	// HXBoosted indicates that the request is via an element using hx-boost.
	HXBoosted RequestHeader = iota
	// HXCurrentURL is the current URL of the browser.
	HXCurrentURL
	// HXHistoryRestoreRequest is set for history restoration after a miss in the local history cache.
	HXHistoryRestoreRequest
	// HXPrompt is the user response to an hx-prompt.
	HXPrompt
	// HXRequest is always "true" on requests made by htmx.
	HXRequest
	// HXTarget is the id of the target element, if it exists.
	HXTarget
	// HXTriggerName is the name of the triggered element, if it exists.
	HXTriggerName
	// HXTrigger is the id of the triggered element, if it exists.
	HXTrigger

	numRequestHeaders
)

// ResponseHeader identifies a response header understood by the htmx client.
type ResponseHeader uint8

// Response headers, in registry order.
const (
	// HXLocation performs a client-side redirect without a full page reload.
	HXLocation ResponseHeader = iota
	// HXPushURL pushes a new URL onto the history stack.
	HXPushURL
	// HXRedirect performs a client-side redirect with a full page load.
	HXRedirect
	// HXRefresh makes the client do a full refresh of the page.
	HXRefresh
	// HXReplaceURL replaces the current URL in the location bar.
	HXReplaceURL
	// HXReswap overrides how the response is swapped in.
	HXReswap
	// HXRetarget is a CSS selector that changes the target of the swap.
	HXRetarget
	// HXReselect is a CSS selector that picks the part of the response to swap in.
	HXReselect
	// HXResponseTrigger triggers client-side events as soon as the response is received.
	HXResponseTrigger
	// HXTriggerAfterSettle triggers client-side events after the settle step.
	HXTriggerAfterSettle
	// HXTriggerAfterSwap triggers client-side events after the swap step.
	HXTriggerAfterSwap

	numResponseHeaders
)

var requestHeaderNames = [numRequestHeaders]string{
	HXBoosted:               "HX-Boosted",
	HXCurrentURL:            "HX-Current-URL",
	HXHistoryRestoreRequest: "HX-History-Restore-Request",
	HXPrompt:                "HX-Prompt",
	HXRequest:               "HX-Request",
	HXTarget:                "HX-Target",
	HXTriggerName:           "HX-Trigger-Name",
	HXTrigger:               "HX-Trigger",
}

var responseHeaderNames = [numResponseHeaders]string{
	HXLocation:           "HX-Location",
	HXPushURL:            "HX-Push-Url",
	HXRedirect:           "HX-Redirect",
	HXRefresh:            "HX-Refresh",
	HXReplaceURL:         "HX-Replace-Url",
	HXReswap:             "HX-Reswap",
	HXRetarget:           "HX-Retarget",
	HXReselect:           "HX-Reselect",
	HXResponseTrigger:    "HX-Trigger",
	HXTriggerAfterSettle: "HX-Trigger-After-Settle",
	HXTriggerAfterSwap:   "HX-Trigger-After-Swap",
}

var (
	requestHeaderIndex  map[string]RequestHeader
	responseHeaderIndex map[string]ResponseHeader
)

func init() {
	requestHeaderIndex = make(map[string]RequestHeader, numRequestHeaders)
	for i, name := range requestHeaderNames {
		requestHeaderIndex[strings.ToLower(name)] = RequestHeader(i)
	}
	responseHeaderIndex = make(map[string]ResponseHeader, numResponseHeaders)
	for i, name := range responseHeaderNames {
		responseHeaderIndex[strings.ToLower(name)] = ResponseHeader(i)
	}
}

// String returns the canonical header name.
func (h RequestHeader) String() string {
	if h >= numRequestHeaders {
		return ""
	}
	return requestHeaderNames[h]
}

// Valid reports whether h is a member of the registry.
func (h RequestHeader) Valid() bool {
	return h < numRequestHeaders
}

// String returns the canonical header name.
func (h ResponseHeader) String() string {
	if h >= numResponseHeaders {
		return ""
	}
	return responseHeaderNames[h]
}

// Valid reports whether h is a member of the registry.
func (h ResponseHeader) Valid() bool {
	return h < numResponseHeaders
}

// LookupRequestHeader resolves a header name case-insensitively.
func LookupRequestHeader(name string) (RequestHeader, bool) {
	h, ok := requestHeaderIndex[strings.ToLower(name)]
	return h, ok
}

// LookupResponseHeader resolves a header name case-insensitively.
func LookupResponseHeader(name string) (ResponseHeader, bool) {
	h, ok := responseHeaderIndex[strings.ToLower(name)]
	return h, ok
}

// RequestHeaders returns every registered request header in registry order.
func RequestHeaders() []RequestHeader {
	out := make([]RequestHeader, numRequestHeaders)
	for i := range out {
		out[i] = RequestHeader(i)
	}
	return out
}

// ResponseHeaders returns every registered response header in registry order.
func ResponseHeaders() []ResponseHeader {
	out := make([]ResponseHeader, numResponseHeaders)
	for i := range out {
		out[i] = ResponseHeader(i)
	}
	return out
}

// RequestHeaderNames returns the canonical names of all request headers.
func RequestHeaderNames() []string {
	return append([]string(nil), requestHeaderNames[:]...)
}

// ResponseHeaderNames returns the canonical names of all response headers.
func ResponseHeaderNames() []string {
	return append([]string(nil), responseHeaderNames[:]...)
}
