// package services defines the read-only Web API surface used by the playlist browser
package services

import (
	"context"

	"github.com/desertthunder/tracklist/internal/models"
)

// Endpoint names one of the logical calls the client can make. Cache keys are derived from it.
type Endpoint string

const (
	EndpointProfile        Endpoint = "profile"
	EndpointPlaylists      Endpoint = "playlists"
	EndpointPlaylistTracks Endpoint = "playlistTracks"
	EndpointSearch         Endpoint = "search"
)

// Client defines the four authenticated reads against the music provider.
type Client interface {
	// UserProfile retrieves the current user's account.
	UserProfile(ctx context.Context) (models.UserProfile, error)

	// Playlists retrieves the first page of the current user's playlists.
	Playlists(ctx context.Context) (models.PlaylistCollection, error)

	// PlaylistTracks retrieves the first page of tracks behind an opaque reference returned by Playlists.
	PlaylistTracks(ctx context.Context, ref string) ([]models.Track, error)

	// SearchTracks searches the catalog for tracks matching query.
	SearchTracks(ctx context.Context, query string) ([]models.Track, error)
}

// TokenSource supplies the bearer credential for each request.
//
// *session.Session satisfies this interface.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, bool)
}
