package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/tracklist/internal/cache"
	"github.com/desertthunder/tracklist/internal/formatter"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/desertthunder/tracklist/internal/state"
	"github.com/desertthunder/tracklist/internal/viewmodel"
	"github.com/urfave/cli/v3"
)

var errNotSignedIn = fmt.Errorf("%w: run 'tracklist auth login' or pass --access-token", shared.ErrUnauthenticated)

// entryErr converts a resolved entry that carries no data into an error.
func entryErr[T any](what string, entry cache.Entry[T]) error {
	switch entry.Status {
	case cache.StatusSuccess:
		return nil
	case cache.StatusError:
		return fmt.Errorf("failed to load %s: %w", what, entry.Err)
	case cache.StatusIdle:
		return errNotSignedIn
	default:
		return fmt.Errorf("%w: %s still loading", shared.ErrTimeout, what)
	}
}

// parseSort maps a --sort value to a column; empty keeps playlist order.
func parseSort(s string) (viewmodel.SortColumn, error) {
	if s == "" {
		return viewmodel.SortNone, nil
	}
	column, ok := viewmodel.ParseSortColumn(s)
	if !ok {
		return viewmodel.SortNone, fmt.Errorf("%w: unknown sort column %q", shared.ErrInvalidArgument, s)
	}
	return column, nil
}

// Me prints the signed-in user's profile.
func (r *Runner) Me(ctx context.Context, cmd *cli.Command) error {
	entry := r.library.Profile(ctx)
	if err := entryErr("profile", entry); err != nil {
		return err
	}

	profile := entry.Data
	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}

	r.writePlainHeader(profile.DisplayName)
	r.writePlain("ID:    %s\n", profile.ID)
	r.writePlain("Email: %s\n", profile.Email)
	if img, ok := profile.Avatar(); ok {
		r.writePlain("Image: %s\n", img.URL)
	}
	return nil
}

// Playlists lists the current user's playlists in provider order.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	entry := r.library.Playlists(ctx)
	if err := entryErr("playlists", entry); err != nil {
		return err
	}

	playlists := entry.Data.All()
	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	r.logger.Debugf("found %v playlists", len(playlists))
	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
	}
	return nil
}

// Tracks selects a playlist by name, sorts its tracks, and renders them in the requested format.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("playlist")
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: --playlist is required", shared.ErrMissingArgument)
	}

	column, err := parseSort(cmd.String("sort"))
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if !r.session.Ready() {
		return errNotSignedIn
	}

	store := r.newStore()
	err = store.Run(ctx, r.library,
		state.PlaylistsResolved{Entry: r.library.Playlists(ctx)},
		state.PlaylistSelectedByName{Name: name},
		state.SortRequested{Column: column},
	)
	if err != nil {
		return err
	}

	if err := entryErr("playlists", store.Playlists()); err != nil {
		return err
	}

	sel, _ := store.Selection()
	if sel.Err != nil {
		if errors.Is(sel.Err, shared.ErrStaleSelection) {
			available := strings.Join(store.Playlists().Data.Names(), ", ")
			return fmt.Errorf("%w: %q (available: %s)", shared.ErrPlaylistNotFound, name, available)
		}
		return sel.Err
	}

	if err := entryErr("tracks", store.TracksEntry()); err != nil {
		return err
	}

	listing := newListing(sel.Playlist, store.View())
	output := cmd.String("output")
	if output != "" {
		path, err := formatter.WriteExport(listing, format, output)
		if err != nil {
			return err
		}
		r.logger.Infof("exported %v tracks to %v", len(listing.Tracks), path)
		r.writePlain("✓ Exported %d tracks to %s\n", len(listing.Tracks), path)
		return nil
	}

	data, err := formatter.Export(listing, format)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

func newListing(p models.PlaylistSummary, view *viewmodel.TrackView) *formatter.Listing {
	listing := &formatter.Listing{
		Title:  p.Name,
		Tracks: view.Tracks(),
	}
	if view.Column() != viewmodel.SortNone {
		listing.SortBy = string(view.Column())
	}
	for _, t := range listing.Tracks {
		if img, ok := t.Cover(); ok {
			listing.Cover = img.URL
			break
		}
	}
	return listing
}

// Search prints catalog tracks matching the query argument.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	entry := r.library.Search(ctx, query)
	if err := entryErr("search results", entry); err != nil {
		return err
	}

	tracks := entry.Data
	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	if len(tracks) == 0 {
		r.writePlain("No tracks found for %q\n", query)
		return nil
	}

	r.writePlain("Results for %q:\n\n", query)
	for i, t := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, t.ArtistNames(), t.Name)
		if t.Album.Name != "" {
			r.writePlain("   Album: %s\n", t.Album.Name)
		}
	}
	return nil
}
