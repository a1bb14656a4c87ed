package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/shared"
	"golang.org/x/oauth2"
)

type stubExchanger struct {
	token *oauth2.Token
	err   error
	calls int
}

func (s *stubExchanger) Token(_ context.Context, _ string, _ *http.Request, _ ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	s.calls++
	return s.token, s.err
}

func receive(t *testing.T, h *CallbackHandler) AuthResult {
	t.Helper()
	select {
	case r := <-h.Result():
		return r
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
		return AuthResult{}
	}
}

func TestCallbackHandler(t *testing.T) {
	t.Run("exchanges code for token", func(t *testing.T) {
		ex := &stubExchanger{token: &oauth2.Token{AccessToken: "tok"}}
		h := NewCallbackHandler(ex, "xyz", "")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=abc", nil))

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
		res := receive(t, h)
		if res.Err != nil || res.Token.AccessToken != "tok" {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("rejects mismatched state", func(t *testing.T) {
		ex := &stubExchanger{}
		h := NewCallbackHandler(ex, "xyz", "")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?state=evil&code=abc", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		if res := receive(t, h); !errors.Is(res.Err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", res.Err)
		}
		if ex.calls != 0 {
			t.Errorf("expected no exchange, got %d", ex.calls)
		}
	})

	t.Run("reports provider error", func(t *testing.T) {
		h := NewCallbackHandler(&stubExchanger{}, "xyz", "")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&error=access_denied", nil))

		res := receive(t, h)
		if !errors.Is(res.Err, shared.ErrAuthFailed) || !strings.Contains(res.Err.Error(), "access_denied") {
			t.Errorf("expected access_denied failure, got %v", res.Err)
		}
	})

	t.Run("exchange failure", func(t *testing.T) {
		h := NewCallbackHandler(&stubExchanger{err: errors.New("bad code")}, "xyz", "")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=abc", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", w.Code)
		}
		if res := receive(t, h); res.Err == nil {
			t.Error("expected exchange error")
		}
	})

	t.Run("second hit is refused", func(t *testing.T) {
		ex := &stubExchanger{token: &oauth2.Token{AccessToken: "tok"}}
		h := NewCallbackHandler(ex, "xyz", "")
		req := func() *http.Request { return httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=abc", nil) }

		h.ServeHTTP(httptest.NewRecorder(), req())
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req())

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on replay, got %d", w.Code)
		}
		if ex.calls != 1 {
			t.Errorf("expected 1 exchange, got %d", ex.calls)
		}
		receive(t, h)
		if _, open := <-h.Result(); open {
			t.Error("expected result channel closed after one result")
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("middleware order and method filtering", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "pong")
		}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Body.String() != "pong" {
			t.Errorf("expected pong, got %q", w.Body.String())
		}
		if strings.Join(order, ",") != "first,second" {
			t.Errorf("unexpected middleware order %v", order)
		}

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", w.Code)
		}
	})

	t.Run("registers handler routes", func(t *testing.T) {
		h := NewCallbackHandler(&stubExchanger{token: &oauth2.Token{AccessToken: "tok"}}, "s", "/cb")
		r := NewBasicRouter()
		r.Handler(h)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cb?state=s&code=c", nil))
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("RequestLogger logs and tags requests", func(t *testing.T) {
		var buf bytes.Buffer
		logger := shared.NewLogger(&buf)
		shared.SetLogLevel(logger, log.DebugLevel)

		h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback", nil))

		if w.Header().Get("X-Request-ID") == "" {
			t.Error("expected request ID header")
		}
		if out := buf.String(); !strings.Contains(out, "/callback") || !strings.Contains(out, "418") {
			t.Errorf("expected path and status in log, got %q", out)
		}
	})

	t.Run("RequestLogger keeps incoming request ID", func(t *testing.T) {
		h := RequestLogger(shared.NewLogger(io.Discard))(http.NotFoundHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if got := w.Header().Get("X-Request-ID"); got != "abc" {
			t.Errorf("expected abc, got %q", got)
		}
	})

	t.Run("Recoverer returns 500", func(t *testing.T) {
		h := Recoverer(shared.NewLogger(io.Discard))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", w.Code)
		}
	})
}

func TestListen(t *testing.T) {
	l, err := Listen("127.0.0.1:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "ok")
	}), shared.NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	resp, err := http.Get("http://" + l.Addr() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("expected ok, got %q", body)
	}

	if err := l.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	if err, open := <-l.Errors(); open || err != nil {
		t.Errorf("expected closed error channel, got %v", err)
	}
}
