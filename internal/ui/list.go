package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/desertthunder/tracklist/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.PlaylistSummary] to implement [list.Item].
type playlistItem struct {
	playlist models.PlaylistSummary
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%d tracks", i.playlist.TrackCount)
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := i.track.ArtistNames()
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return desc
}

func playlistItems(playlists []models.PlaylistSummary) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

func trackRows(tracks []models.Track) []table.Row {
	rows := make([]table.Row, len(tracks))
	for i, t := range tracks {
		released := t.Album.ReleaseDate
		if released == "" {
			released = "-"
		}
		rows[i] = table.Row{fmt.Sprint(i + 1), t.Name, t.ArtistNames(), t.Album.Name, released}
	}
	return rows
}

// trackColumns splits width between the table's columns, giving title and artist the most room.
func trackColumns(width int) []table.Column {
	const fixed = 4 + 10
	rest := max(width-fixed-10, 30)
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Title", Width: rest * 4 / 10},
		{Title: "Artist", Width: rest * 3 / 10},
		{Title: "Album", Width: rest * 3 / 10},
		{Title: "Released", Width: 10},
	}
}
