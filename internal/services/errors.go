package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/tracklist/internal/shared"
)

// ErrorKind categorises a failed request.
type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1 // request never produced a response
	KindStatus                         // non-2xx response
	KindMalformed                      // body is not the JSON shape we consume
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindTransport:
		return shared.ErrTransport
	case KindStatus:
		return shared.ErrHTTPStatus
	default:
		return shared.ErrMalformedResponse
	}
}

// HTTPError is returned by [SpotifyClient] for every failed call.
//
// errors.Is matches the shared sentinel for its Kind; a 401 also matches [shared.ErrTokenExpired].
type HTTPError struct {
	Kind       ErrorKind
	Endpoint   Endpoint
	StatusCode int
	Message    string
	Err        error
}

func (e *HTTPError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v", e.Endpoint, e.Kind.sentinel())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *HTTPError) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.StatusCode == http.StatusUnauthorized {
		errs = append(errs, shared.ErrTokenExpired)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
