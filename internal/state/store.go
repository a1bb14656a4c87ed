// Package state holds the browser's state and the single path by which it changes.
//
// # Flow
//
// Inputs (key presses, command flags, fetch completions) are expressed as an [Action] and passed to
// [Store.Dispatch]. Dispatch updates the state synchronously and returns the fetches the new state calls for as
// [Effect] values. [Perform] resolves one effect through the query cache and returns the [Action] describing the
// result, which is dispatched in turn.
//
// The terminal UI turns each effect into a command and feeds results back through its update loop.
// Command-line commands call [Store.Run], which performs effects in order until none remain.
//
// # Stale results
//
// Tracks are applied only when they were fetched for the currently selected playlist's reference, and search
// results only when they answer the active query's latest request. A new selection clears the displayed tracks until its own
// arrive. Entries that are not successful leave nothing to display.
//
// The Store is not safe for concurrent use.
package state

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/cache"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/search"
	"github.com/desertthunder/tracklist/internal/services"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/desertthunder/tracklist/internal/viewmodel"
	"golang.org/x/text/language"
)

// Selection is the playlist whose tracks are displayed.
type Selection struct {
	Playlist models.PlaylistSummary
	Err      error // set when the requested playlist could not be resolved
}

// Store is the explicit state of the browser.
type Store struct {
	ready     bool
	profile   cache.Entry[models.UserProfile]
	playlists cache.Entry[models.PlaylistCollection]
	selection Selection
	selected  bool
	tracks    cache.Entry[[]models.Track]
	view      *viewmodel.TrackView
	search    *search.Session
	logger    *log.Logger
}

// StoreOpts configures a [Store].
type StoreOpts struct {
	Locale language.Tag // collation for sorting; defaults to English
	Logger *log.Logger
}

// NewStore creates a signed-out store.
func NewStore(opts StoreOpts) *Store {
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	return &Store{
		view:   viewmodel.NewTrackView(opts.Locale),
		search: search.New(),
		logger: opts.Logger,
	}
}

// Ready reports whether a token is present.
func (s *Store) Ready() bool { return s.ready }

// Profile returns the profile entry.
func (s *Store) Profile() cache.Entry[models.UserProfile] { return s.profile }

// Playlists returns the playlists entry.
func (s *Store) Playlists() cache.Entry[models.PlaylistCollection] { return s.playlists }

// Selection returns the current selection and whether one was made.
func (s *Store) Selection() (Selection, bool) { return s.selection, s.selected }

// TracksEntry returns the entry for the selected playlist's tracks.
func (s *Store) TracksEntry() cache.Entry[[]models.Track] { return s.tracks }

// View returns the sorted projection of the selected playlist's tracks.
func (s *Store) View() *viewmodel.TrackView { return s.view }

// Search returns the search session.
func (s *Store) Search() *search.Session { return s.search }

// Dispatch applies a to the state and returns the effects it calls for.
func (s *Store) Dispatch(a Action) []Effect {
	switch a := a.(type) {
	case TokenChanged:
		return s.tokenChanged(a.Ready)
	case ProfileResolved:
		s.profile = a.Entry
	case PlaylistsResolved:
		s.playlists = a.Entry
	case PlaylistSelected:
		var (
			p  models.PlaylistSummary
			ok bool
		)
		if s.playlists.Ready() {
			p, ok = s.playlists.Data.ByKey(a.Key)
		}
		return s.selectPlaylist(p, ok, a.Key)
	case PlaylistSelectedByName:
		var (
			p  models.PlaylistSummary
			ok bool
		)
		if s.playlists.Ready() {
			p, ok = s.playlists.Data.ByName(a.Name)
		}
		return s.selectPlaylist(p, ok, a.Name)
	case TracksResolved:
		s.tracksResolved(a.Ref, a.Entry)
	case SortRequested:
		if !s.view.SortBy(a.Column) {
			s.logger.Debug("sort ignored", "column", a.Column, "has_source", s.view.HasSource())
		}
	case QueryChanged:
		req := s.search.SetQuery(a.Query)
		if req.Skip {
			return nil
		}
		return []Effect{FetchSearch{Query: req.Query, Seq: req.Seq}}
	case SearchResolved:
		s.searchResolved(a.Query, a.Seq, a.Entry)
	case SearchFocused:
		s.search.Focus()
	case SearchBlurred:
		s.search.Blur()
	case RefreshRequested:
		return s.refresh()
	default:
		s.logger.Warn("unknown action", "type", fmt.Sprintf("%T", a))
	}
	return nil
}

func (s *Store) tokenChanged(ready bool) []Effect {
	s.ready = ready
	s.profile = cache.Entry[models.UserProfile]{}
	s.playlists = cache.Entry[models.PlaylistCollection]{}
	s.clearSelection()
	query := s.search.Query()
	s.search.Reset()

	effects := []Effect{ResetCache{}}
	if !ready {
		return effects
	}

	effects = append(effects, FetchProfile{}, FetchPlaylists{})
	if req := s.search.SetQuery(query); !req.Skip {
		effects = append(effects, FetchSearch{Query: req.Query, Seq: req.Seq})
	}
	return effects
}

// refresh drops the cached playlists and selected tracks and fetches them again. The selection is kept.
func (s *Store) refresh() []Effect {
	if !s.ready {
		return nil
	}

	effects := []Effect{InvalidateCache{Endpoint: services.EndpointPlaylists}, FetchPlaylists{}}
	if !s.selected || s.selection.Err != nil {
		return effects
	}

	ref := s.selection.Playlist.TracksRef
	s.tracks = cache.Entry[[]models.Track]{
		Key:    cache.Key{Endpoint: string(services.EndpointPlaylistTracks), Param: ref},
		Status: cache.StatusPending,
	}
	return append(effects, InvalidateCache{Endpoint: services.EndpointPlaylistTracks, Param: ref}, FetchTracks{Ref: ref})
}

func (s *Store) clearSelection() {
	s.selection = Selection{}
	s.selected = false
	s.tracks = cache.Entry[[]models.Track]{}
	s.view.Clear()
}

func (s *Store) selectPlaylist(p models.PlaylistSummary, found bool, requested string) []Effect {
	s.clearSelection()
	s.selected = true

	if !found || p.TracksRef == "" {
		s.selection.Err = fmt.Errorf("%w: %q", shared.ErrStaleSelection, requested)
		s.logger.Debug("selection not resolved", "requested", requested)
		return nil
	}

	s.selection.Playlist = p
	s.tracks = cache.Entry[[]models.Track]{
		Key:    cache.Key{Endpoint: string(services.EndpointPlaylistTracks), Param: p.TracksRef},
		Status: cache.StatusPending,
	}
	return []Effect{FetchTracks{Ref: p.TracksRef}}
}

func (s *Store) tracksResolved(ref string, entry cache.Entry[[]models.Track]) {
	if !s.selected || s.selection.Err != nil || ref != s.selection.Playlist.TracksRef {
		s.logger.Debug("discarding tracks for stale selection", "ref", ref)
		return
	}

	s.tracks = entry
	if entry.Ready() {
		s.view.SetSource(entry.Data)
		return
	}
	s.view.Clear()
}

func (s *Store) searchResolved(query string, seq uint64, entry cache.Entry[[]models.Track]) {
	var applied bool
	switch entry.Status {
	case cache.StatusSuccess:
		applied = s.search.Receive(search.Result{Query: query, Seq: seq, Tracks: entry.Data})
	case cache.StatusError:
		applied = s.search.Receive(search.Result{Query: query, Seq: seq, Err: entry.Err})
	case cache.StatusIdle:
		applied = s.search.Receive(search.Result{Query: query, Seq: seq})
	}
	if !applied {
		s.logger.Debug("discarding search result", "query", query, "seq", seq, "status", entry.Status)
	}
}

// Run dispatches each action in turn, performing every effect it produces until none remain.
func (s *Store) Run(ctx context.Context, lib Library, actions ...Action) error {
	for _, a := range actions {
		queue := s.Dispatch(a)
		for len(queue) > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			eff := queue[0]
			queue = queue[1:]
			if next := Perform(ctx, lib, eff); next != nil {
				queue = append(queue, s.Dispatch(next)...)
			}
		}
	}
	return ctx.Err()
}
