package state

import (
	"context"

	"github.com/desertthunder/tracklist/internal/cache"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/services"
)

// Library is the cached read surface effects are performed against.
//
// *library.Library satisfies this interface.
type Library interface {
	Profile(ctx context.Context) cache.Entry[models.UserProfile]
	Playlists(ctx context.Context) cache.Entry[models.PlaylistCollection]
	PlaylistTracks(ctx context.Context, ref string) cache.Entry[[]models.Track]
	Search(ctx context.Context, query string) cache.Entry[[]models.Track]
	Refresh(endpoint services.Endpoint, param string)
	Reset()
}

// Perform resolves eff and returns the action describing its result, or nil when there is nothing to dispatch.
func Perform(ctx context.Context, lib Library, eff Effect) Action {
	switch eff := eff.(type) {
	case ResetCache:
		lib.Reset()
		return nil
	case InvalidateCache:
		lib.Refresh(eff.Endpoint, eff.Param)
		return nil
	case FetchProfile:
		return ProfileResolved{Entry: lib.Profile(ctx)}
	case FetchPlaylists:
		return PlaylistsResolved{Entry: lib.Playlists(ctx)}
	case FetchTracks:
		return TracksResolved{Ref: eff.Ref, Entry: lib.PlaylistTracks(ctx, eff.Ref)}
	case FetchSearch:
		return SearchResolved{Query: eff.Query, Seq: eff.Seq, Entry: lib.Search(ctx, eff.Query)}
	default:
		return nil
	}
}
