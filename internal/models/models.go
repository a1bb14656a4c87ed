// package models defines the data model for the playlist browser
package models

import (
	"strings"

	"github.com/samber/lo"
)

// Image is a provider-hosted artwork or avatar.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// UserProfile is the authenticated account.
type UserProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Images      []Image `json:"images"`
}

// Avatar returns the first profile image, if any.
func (u UserProfile) Avatar() (Image, bool) {
	if len(u.Images) == 0 {
		return Image{}, false
	}
	return u.Images[0], true
}

// Artist credits a track.
type Artist struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Album is the release a track belongs to.
type Album struct {
	Name        string  `json:"name"`
	ReleaseDate string  `json:"release_date"` // provider formatted, may be year or year-month only
	Images      []Image `json:"images"`
}

// Track is a single entry in a playlist or in search results.
type Track struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Album   Album    `json:"album"`
	Artists []Artist `json:"artists"`
}

// PrimaryArtist returns the first credited artist's name, or "" when there are none.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// ArtistNames joins all credited artists with ", ".
func (t Track) ArtistNames() string {
	return strings.Join(lo.Map(t.Artists, func(a Artist, _ int) string { return a.Name }), ", ")
}

// Cover returns the album's first image, if any.
func (t Track) Cover() (Image, bool) {
	if len(t.Album.Images) == 0 {
		return Image{}, false
	}
	return t.Album.Images[0], true
}

// PlaylistSummary is one playlist owned or followed by the user.
type PlaylistSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TracksRef  string `json:"tracks_ref"` // href of the playlist's tracks resource, passed through unmodified
	TrackCount int    `json:"track_count"`
}

// Key is the playlist's identity within a [PlaylistCollection]: its ID, or its tracks reference when the provider sent no ID.
func (p PlaylistSummary) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.TracksRef
}

// PlaylistCollection is an ordered mapping from playlist identity to summary.
//
// Provider order is preserved and nothing is deduplicated; when two entries share an identity, lookups return the first.
type PlaylistCollection struct {
	items []PlaylistSummary
	index map[string]int
}

// NewPlaylistCollection builds a collection over a copy of items.
func NewPlaylistCollection(items []PlaylistSummary) PlaylistCollection {
	c := PlaylistCollection{
		items: append([]PlaylistSummary(nil), items...),
		index: make(map[string]int, len(items)),
	}
	for i, p := range c.items {
		key := p.Key()
		if key == "" {
			continue
		}
		if _, seen := c.index[key]; !seen {
			c.index[key] = i
		}
	}
	return c
}

// Len returns the number of playlists.
func (c PlaylistCollection) Len() int { return len(c.items) }

// All returns the playlists in provider order.
func (c PlaylistCollection) All() []PlaylistSummary {
	return append([]PlaylistSummary(nil), c.items...)
}

// ByKey looks a playlist up by identity.
func (c PlaylistCollection) ByKey(key string) (PlaylistSummary, bool) {
	i, ok := c.index[key]
	if !ok || key == "" {
		return PlaylistSummary{}, false
	}
	return c.items[i], true
}

// ByName returns the first playlist named name.
func (c PlaylistCollection) ByName(name string) (PlaylistSummary, bool) {
	return lo.Find(c.items, func(p PlaylistSummary) bool { return p.Name == name })
}

// Names lists playlist names in provider order, duplicates included.
func (c PlaylistCollection) Names() []string {
	return lo.Map(c.items, func(p PlaylistSummary, _ int) string { return p.Name })
}
