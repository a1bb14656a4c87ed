// Package server provides the short-lived HTTP listener used by `tracklist auth login`.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] implements it over
// [http.ServeMux], registering method-qualified patterns so the mux answers other methods with 405.
//
// [Middleware] wraps handlers so that the first one added runs outermost. [RequestLogger] logs every request at
// debug level with a request ID, and [Recoverer] turns panics into 500 responses.
//
// # OAuth Callback Handler
//
// [CallbackHandler] serves the authorization code redirect. It rejects a mismatched state parameter, reports a
// provider error, and otherwise hands the request to a [TokenExchanger] for the code exchange. Exactly one
// [AuthResult] is delivered per handler; later hits are refused.
//
// # Lifecycle
//
// [Listen] binds the configured host and port before the browser is opened, serves in the background, and is
// shut down as soon as the result arrives.
package server
