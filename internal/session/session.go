// Package session holds the bearer token shared by every API call.
//
// The token is written by the authentication flow (or loaded from config) and read by the API client on each request.
// When a [Refresher] is configured, an expired token that carries a refresh token is renewed on read and the
// optional callback is told about the new token so it can be saved.
package session

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// Refresher exchanges a refresh token for a new access token.
//
// spotifyauth.Authenticator satisfies this interface.
type Refresher interface {
	RefreshToken(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
}

// Option configures a [Session].
type Option func(*Session)

// WithRefresher enables token refresh on read.
func WithRefresher(r Refresher) Option {
	return func(s *Session) { s.refresher = r }
}

// WithRefreshCallback registers fn to be called with each refreshed token.
func WithRefreshCallback(fn func(*oauth2.Token)) Option {
	return func(s *Session) { s.onRefresh = fn }
}

// Session is the process-wide holder of the current bearer token.
type Session struct {
	mu        sync.RWMutex
	token     *oauth2.Token
	refresher Refresher
	onRefresh func(*oauth2.Token)
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetToken replaces the current token. A nil or empty token clears the session.
func (s *Session) SetToken(token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == nil || token.AccessToken == "" {
		s.token = nil
	} else {
		t := *token
		s.token = &t
	}
}

// Clear removes the current token.
func (s *Session) Clear() {
	s.SetToken(nil)
}

// Token returns a copy of the stored token, or nil.
func (s *Session) Token() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil
	}
	t := *s.token
	return &t
}

// Ready reports whether a usable access token is present without attempting a refresh.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil && (s.token.Valid() || s.canRefresh())
}

// AccessToken returns the bearer credential and whether one is available.
//
// An expired token is refreshed first when possible; a failed refresh reports no token.
func (s *Session) AccessToken(ctx context.Context) (string, bool) {
	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()

	if tok == nil {
		return "", false
	}
	if tok.Valid() {
		return tok.AccessToken, true
	}

	return s.refresh(ctx)
}

func (s *Session) canRefresh() bool {
	return s.refresher != nil && s.token != nil && s.token.RefreshToken != ""
}

func (s *Session) refresh(ctx context.Context) (string, bool) {
	s.mu.Lock()
	if s.token == nil {
		s.mu.Unlock()
		return "", false
	}
	if s.token.Valid() {
		tok := s.token.AccessToken
		s.mu.Unlock()
		return tok, true
	}
	if !s.canRefresh() {
		s.mu.Unlock()
		return "", false
	}

	fresh, err := s.refresher.RefreshToken(ctx, s.token)
	if err != nil || fresh == nil || fresh.AccessToken == "" {
		s.mu.Unlock()
		return "", false
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = s.token.RefreshToken
	}
	t := *fresh
	s.token = &t
	cb := s.onRefresh
	s.mu.Unlock()

	if cb != nil {
		cb(fresh)
	}
	return fresh.AccessToken, true
}
