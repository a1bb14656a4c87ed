package state

import (
	"github.com/desertthunder/tracklist/internal/cache"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/services"
	"github.com/desertthunder/tracklist/internal/viewmodel"
)

// Action is an input to [Store.Dispatch].
type Action interface{ action() }

// TokenChanged reports that the session token was set or cleared.
type TokenChanged struct{ Ready bool }

// ProfileResolved carries the profile query's entry.
type ProfileResolved struct{ Entry cache.Entry[models.UserProfile] }

// PlaylistsResolved carries the playlists query's entry.
type PlaylistsResolved struct{ Entry cache.Entry[models.PlaylistCollection] }

// PlaylistSelected selects a playlist by identity (see [models.PlaylistSummary.Key]).
type PlaylistSelected struct{ Key string }

// PlaylistSelectedByName selects the first playlist named Name.
type PlaylistSelectedByName struct{ Name string }

// TracksResolved carries the tracks entry fetched for Ref.
type TracksResolved struct {
	Ref   string
	Entry cache.Entry[[]models.Track]
}

// SortRequested asks for the displayed tracks to be sorted by Column.
type SortRequested struct{ Column viewmodel.SortColumn }

// QueryChanged reports new text in the search input.
type QueryChanged struct{ Query string }

// SearchResolved carries the search entry fetched for Query by request Seq.
type SearchResolved struct {
	Query string
	Seq   uint64
	Entry cache.Entry[[]models.Track]
}

// SearchFocused reports that the search input gained focus.
type SearchFocused struct{}

// SearchBlurred reports that the search input lost focus.
type SearchBlurred struct{}

// RefreshRequested asks for the playlists and the selected playlist's tracks to be fetched again.
type RefreshRequested struct{}

func (TokenChanged) action()           {}
func (ProfileResolved) action()        {}
func (PlaylistsResolved) action()      {}
func (PlaylistSelected) action()       {}
func (PlaylistSelectedByName) action() {}
func (TracksResolved) action()         {}
func (SortRequested) action()          {}
func (QueryChanged) action()           {}
func (SearchResolved) action()         {}
func (SearchFocused) action()          {}
func (SearchBlurred) action()          {}
func (RefreshRequested) action()       {}

// Effect is a fetch requested by [Store.Dispatch]. [Perform] resolves it into an [Action].
type Effect interface{ effect() }

// ResetCache drops every cached query result.
type ResetCache struct{}

// FetchProfile resolves the user's profile.
type FetchProfile struct{}

// FetchPlaylists resolves the user's playlists.
type FetchPlaylists struct{}

// FetchTracks resolves the tracks behind Ref.
type FetchTracks struct{ Ref string }

// InvalidateCache drops the cached entry for one endpoint and parameter.
type InvalidateCache struct {
	Endpoint services.Endpoint
	Param    string
}

// FetchSearch resolves the catalog search for Query on behalf of request Seq.
type FetchSearch struct {
	Query string
	Seq   uint64
}

func (ResetCache) effect()      {}
func (InvalidateCache) effect() {}
func (FetchProfile) effect()   {}
func (FetchPlaylists) effect() {}
func (FetchTracks) effect()    {}
func (FetchSearch) effect()    {}
