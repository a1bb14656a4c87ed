package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/tracklist/internal/shared"
	"golang.org/x/oauth2"
)

// TokenExchanger validates the redirect's state and trades its authorization code for a token.
//
// spotifyauth.Authenticator satisfies this interface.
type TokenExchanger interface {
	Token(ctx context.Context, state string, r *http.Request, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// AuthResult is the outcome of one authorization redirect.
type AuthResult struct {
	Token *oauth2.Token
	Err   error
}

// CallbackHandler serves the OAuth redirect exactly once and delivers the result on [CallbackHandler.Result].
type CallbackHandler struct {
	exchanger TokenExchanger
	state     string
	path      string
	results   chan AuthResult
	once      sync.Once
	mu        sync.Mutex
	hit       bool
}

// NewCallbackHandler creates a handler serving path that expects state on the redirect.
// The state should come from [shared.GenerateState].
func NewCallbackHandler(exchanger TokenExchanger, state, path string) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		exchanger: exchanger,
		state:     state,
		path:      path,
		results:   make(chan AuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"GET " + h.path}
}

// ServeHTTP checks the state and error parameters, then exchanges the code for a token.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	q := r.URL.Query()
	if q.Get("state") != h.state {
		h.send(AuthResult{Err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	if errParam := q.Get("error"); errParam != "" || q.Get("code") == "" {
		h.send(AuthResult{Err: fmt.Errorf("%w: %s %s", shared.ErrAuthFailed, errParam, q.Get("error_description"))})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.exchanger.Token(r.Context(), h.state, r)
	if err != nil {
		h.send(AuthResult{Err: fmt.Errorf("%w: token exchange failed: %v", shared.ErrAuthFailed, err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(AuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

func (h *CallbackHandler) send(result AuthResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result receives exactly one [AuthResult] and is then closed.
func (h *CallbackHandler) Result() <-chan AuthResult {
	return h.results
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>tracklist: signed in</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #121212; color: #fff; }
        .container { text-align: center; padding: 2rem; }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #b3b3b3; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Signed in</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
