package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
	th "github.com/desertthunder/tracklist/internal/testing"
)

func testListing() *Listing {
	return &Listing{
		Title:  "Test Playlist",
		SortBy: "Title",
		Tracks: []models.Track{
			{
				ID:      "track1",
				Name:    "Song One",
				Album:   models.Album{Name: "Album One", ReleaseDate: "1999-05-05"},
				Artists: []models.Artist{{Name: "Artist One"}, {Name: "Guest"}},
			},
			{
				ID:      "track2",
				Name:    "Song | Two",
				Album:   models.Album{Name: "Album Two"},
				Artists: []models.Artist{{Name: "Artist Two"}},
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testListing())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Position,Title,Artists,Album,Release Date") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `1,Song One,"Artist One, Guest",Album One,1999-05-05`) {
			t.Errorf("CSV missing track1 row, got: %s", output)
		}
		if !strings.Contains(output, "2,Song | Two,Artist Two,Album Two,") {
			t.Errorf("CSV missing track2 row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testListing())
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)

			if !strings.Contains(output, "# Test Playlist") {
				t.Errorf("Markdown missing title")
			}
			if !strings.Contains(output, "**Tracks**: 2") {
				t.Errorf("Markdown missing track count")
			}
			if !strings.Contains(output, "**Sorted by**: Title") {
				t.Errorf("Markdown missing sort column")
			}
			if !strings.Contains(output, "| 1 | Song One | Artist One, Guest | Album One | 1999-05-05 |") {
				t.Errorf("Markdown missing track1, got: %s", output)
			}
			if !strings.Contains(output, `| 2 | Song \| Two | Artist Two | Album Two | - |`) {
				t.Errorf("Markdown missing escaped track2, got: %s", output)
			}
			if strings.Contains(output, "![Cover]") {
				t.Errorf("Markdown should not reference a cover")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			l := testListing()
			l.Cover = "https://i.scdn.co/image/cover"
			data, err := ExportToMarkdown(l)
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			if !strings.Contains(string(data), "![Cover](https://i.scdn.co/image/cover)") {
				t.Errorf("Markdown missing cover image reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		l := testListing()
		l.Tracks = append(l.Tracks, models.Track{Name: "Orphan"})

		data, err := ExportToText(l)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Playlist: Test Playlist") {
			t.Errorf("Text missing playlist name")
		}
		if !strings.Contains(output, "Tracks: 3") {
			t.Errorf("Text missing track count")
		}
		if !strings.Contains(output, "1. Artist One, Guest - Song One (1999-05-05)") {
			t.Errorf("Text missing track1, got: %s", output)
		}
		if !strings.Contains(output, "3. Unknown artist - Orphan (-)") {
			t.Errorf("Text missing artistless track, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testListing())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded Listing
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("ExportToJSON produced invalid JSON: %v", err)
		}
		if decoded.Title != "Test Playlist" || len(decoded.Tracks) != 2 {
			t.Errorf("unexpected decoded listing %+v", decoded)
		}
		if decoded.Tracks[0].Album.ReleaseDate != "1999-05-05" {
			t.Errorf("JSON lost release date")
		}
	})

	t.Run("ExportToJSON with no tracks", func(t *testing.T) {
		l := &Listing{Title: "Empty"}
		data, err := ExportToJSON(l)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), `"tracks": []`) {
			t.Errorf("expected empty track array, got: %s", data)
		}
		if l.Tracks != nil {
			t.Errorf("caller's listing was modified")
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":         FormatText,
		"text":     FormatText,
		"MD":       FormatMarkdown,
		"markdown": FormatMarkdown,
		"csv":      FormatCSV,
		" json ":   FormatJSON,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Export(testListing(), Format("yaml")); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument from Export, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("WithDefaultPath", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteExport(testListing(), FormatCSV, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "tracks.csv" {
			t.Errorf("Expected 'tracks.csv', got '%s'", path)
		}

		th.AssertFileExists(t, path)
		if !strings.Contains(th.MustReadFile(t, path), "Song One") {
			t.Errorf("CSV missing track data")
		}
	})

	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gym.md")

		got, err := WriteExport(testListing(), FormatMarkdown, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("Expected '%s', got '%s'", path, got)
		}
		if !strings.Contains(th.MustReadFile(t, path), "# Test Playlist") {
			t.Errorf("Markdown file missing title")
		}
	})

	t.Run("UnwritablePath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "out.txt")
		if _, err := WriteExport(testListing(), FormatText, path); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
