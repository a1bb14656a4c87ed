package services

import (
	"fmt"

	"github.com/desertthunder/tracklist/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

const defaultRedirectURI = "http://127.0.0.1:3000/callback"

// Scopes are the read-only permissions requested at login.
var Scopes = []string{
	spotifyauth.ScopeUserReadPrivate,
	spotifyauth.ScopeUserReadEmail,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// NewAuthenticator creates an OAuth2 authenticator from client credentials.
func NewAuthenticator(credentials map[string]string) (*spotifyauth.Authenticator, error) {
	clientID := credentials["client_id"]
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret := credentials["client_secret"]
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := credentials["redirect_uri"]
	if redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	return spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithClientSecret(clientSecret),
		spotifyauth.WithRedirectURL(redirectURI),
		spotifyauth.WithScopes(Scopes...),
	), nil
}
