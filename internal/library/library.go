// Package library binds the Web API client to one query cache per endpoint.
//
// Every query is gated on the session holding a usable token, so nothing is fetched before sign-in.
// Playlist tracks are keyed by the opaque tracks reference and searches by the literal query string;
// an empty reference or a blank query never reaches the network.
package library

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/cache"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/services"
	"github.com/desertthunder/tracklist/internal/shared"
)

// Gate reports whether requests may be issued.
//
// *session.Session satisfies this interface.
type Gate interface {
	Ready() bool
}

// Library serves the four cached reads.
type Library struct {
	profile   *cache.Query[models.UserProfile]
	playlists *cache.Query[models.PlaylistCollection]
	tracks    *cache.Query[[]models.Track]
	search    *cache.Query[[]models.Track]
}

// New creates a library over client, gated by gate.
func New(client services.Client, gate Gate, logger *log.Logger) *Library {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	common := []cache.Option{cache.WithGate(gate.Ready), cache.WithLogger(logger)}
	blank := cache.WithSkip(func(p string) bool { return strings.TrimSpace(p) == "" })

	return &Library{
		profile: cache.NewQuery(string(services.EndpointProfile),
			func(ctx context.Context, _ string) (models.UserProfile, error) {
				return client.UserProfile(ctx)
			}, common...),
		playlists: cache.NewQuery(string(services.EndpointPlaylists),
			func(ctx context.Context, _ string) (models.PlaylistCollection, error) {
				return client.Playlists(ctx)
			}, common...),
		tracks: cache.NewQuery(string(services.EndpointPlaylistTracks),
			client.PlaylistTracks, append(common, blank)...),
		search: cache.NewQuery(string(services.EndpointSearch),
			client.SearchTracks, append(common, blank)...),
	}
}

// Profile resolves the current user's profile.
func (l *Library) Profile(ctx context.Context) cache.Entry[models.UserProfile] {
	return l.profile.Resolve(ctx, "")
}

// Playlists resolves the current user's playlists.
func (l *Library) Playlists(ctx context.Context) cache.Entry[models.PlaylistCollection] {
	return l.playlists.Resolve(ctx, "")
}

// PlaylistTracks resolves the tracks behind ref.
func (l *Library) PlaylistTracks(ctx context.Context, ref string) cache.Entry[[]models.Track] {
	return l.tracks.Resolve(ctx, ref)
}

// Search resolves the catalog search for query.
func (l *Library) Search(ctx context.Context, query string) cache.Entry[[]models.Track] {
	return l.search.Resolve(ctx, query)
}

// Refresh drops the cached entry behind a single key so the next read fetches again.
func (l *Library) Refresh(endpoint services.Endpoint, param string) {
	switch endpoint {
	case services.EndpointProfile:
		l.profile.Invalidate(param)
	case services.EndpointPlaylists:
		l.playlists.Invalidate(param)
	case services.EndpointPlaylistTracks:
		l.tracks.Invalidate(param)
	case services.EndpointSearch:
		l.search.Invalidate(param)
	}
}

// Reset drops every cached entry.
func (l *Library) Reset() {
	l.profile.Reset()
	l.playlists.Reset()
	l.tracks.Reset()
	l.search.Reset()
}
