// package server contains the router, middleware, and handlers for the local OAuth callback listener
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows the route patterns it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router registers handlers behind a shared middleware stack.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Listener is a running HTTP server bound to a local address.
type Listener struct {
	srv    *http.Server
	addr   string
	errs   chan error
	logger *log.Logger
}

// Listen binds addr and serves handler in the background.
//
// The address is bound before Listen returns, so a browser redirect cannot race the server start.
func Listen(addr string, handler http.Handler, logger *log.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	l := &Listener{
		srv:    &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		addr:   ln.Addr().String(),
		errs:   make(chan error, 1),
		logger: logger,
	}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.errs <- err
		}
		close(l.errs)
	}()

	logger.Debug("callback server listening", "addr", l.addr)
	return l, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() string {
	return l.addr
}

// Errors delivers a serve failure, if any, and is closed when the server stops.
func (l *Listener) Errors() <-chan error {
	return l.errs
}

// Shutdown stops the server, waiting up to five seconds for in-flight requests.
func (l *Listener) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := l.srv.Shutdown(ctx); err != nil {
		l.logger.Warn("error shutting down server", "error", err)
		return err
	}
	return nil
}
