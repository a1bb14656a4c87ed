package models

import (
	"reflect"
	"testing"
)

func TestPlaylistCollection(t *testing.T) {
	items := []PlaylistSummary{
		{ID: "p1", Name: "Gym", TracksRef: "H1"},
		{ID: "p2", Name: "Chill", TracksRef: "H2"},
		{ID: "p3", Name: "Gym", TracksRef: "H3"},
		{Name: "No ID", TracksRef: "H4"},
	}
	c := NewPlaylistCollection(items)

	t.Run("preserves provider order without dedup", func(t *testing.T) {
		want := []string{"Gym", "Chill", "Gym", "No ID"}
		if got := c.Names(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		if c.Len() != 4 {
			t.Errorf("expected 4 playlists, got %d", c.Len())
		}
	})

	t.Run("ByName returns first match", func(t *testing.T) {
		p, ok := c.ByName("Gym")
		if !ok || p.TracksRef != "H1" {
			t.Errorf("expected H1, got %+v (ok=%v)", p, ok)
		}
		if _, ok := c.ByName("Missing"); ok {
			t.Error("expected no match for missing name")
		}
	})

	t.Run("ByKey disambiguates duplicate names", func(t *testing.T) {
		p, ok := c.ByKey("p3")
		if !ok || p.TracksRef != "H3" {
			t.Errorf("expected H3, got %+v", p)
		}
	})

	t.Run("Key falls back to tracks ref", func(t *testing.T) {
		p, ok := c.ByKey("H4")
		if !ok || p.Name != "No ID" {
			t.Errorf("expected playlist without ID to be keyed by ref, got %+v", p)
		}
		if _, ok := c.ByKey(""); ok {
			t.Error("empty key must not resolve")
		}
	})

	t.Run("collection is isolated from caller slice", func(t *testing.T) {
		items[0].Name = "Mutated"
		if c.All()[0].Name != "Gym" {
			t.Error("collection should copy its input")
		}
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var empty PlaylistCollection
		if empty.Len() != 0 {
			t.Error("expected empty collection")
		}
		if _, ok := empty.ByKey("p1"); ok {
			t.Error("expected no match on zero value")
		}
	})
}

func TestTrack(t *testing.T) {
	track := Track{
		Name:    "Song",
		Artists: []Artist{{Name: "A"}, {Name: "B"}},
		Album:   Album{Images: []Image{{URL: "cover"}}},
	}

	if track.PrimaryArtist() != "A" {
		t.Errorf("expected A, got %s", track.PrimaryArtist())
	}
	if track.ArtistNames() != "A, B" {
		t.Errorf("expected 'A, B', got %s", track.ArtistNames())
	}
	if img, ok := track.Cover(); !ok || img.URL != "cover" {
		t.Errorf("expected cover image, got %+v", img)
	}

	var bare Track
	if bare.PrimaryArtist() != "" || bare.ArtistNames() != "" {
		t.Error("expected empty artist strings for track without artists")
	}
	if _, ok := bare.Cover(); ok {
		t.Error("expected no cover")
	}
}

func TestUserProfileAvatar(t *testing.T) {
	u := UserProfile{Images: []Image{{URL: "first"}, {URL: "second"}}}
	if img, ok := u.Avatar(); !ok || img.URL != "first" {
		t.Errorf("expected first image, got %+v", img)
	}
	if _, ok := (UserProfile{}).Avatar(); ok {
		t.Error("expected no avatar for empty images")
	}
}
