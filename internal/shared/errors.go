package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed      = fmt.Errorf("authentication failed")
	ErrUnauthenticated = fmt.Errorf("no access token")
	ErrTokenExpired    = fmt.Errorf("access token expired")
	ErrRefreshFailed   = fmt.Errorf("token refresh failed")
	ErrTimeout         = fmt.Errorf("operation timed out")

	// API and service errors
	ErrTransport          = fmt.Errorf("transport failure")
	ErrHTTPStatus         = fmt.Errorf("unexpected HTTP status")
	ErrMalformedResponse  = fmt.Errorf("malformed response")
	ErrStaleSelection     = fmt.Errorf("selection no longer resolves")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
