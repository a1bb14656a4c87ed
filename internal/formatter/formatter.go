// package formatter renders a playlist's displayed tracks as plain text, Markdown, CSV, or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
)

// Format is an output format for [Export].
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat maps a flag value to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Listing is a titled track list in display order.
type Listing struct {
	Title  string         `json:"title"`
	SortBy string         `json:"sort_by,omitempty"`
	Cover  string         `json:"cover,omitempty"`
	Tracks []models.Track `json:"tracks"`
}

// Export renders l in format f.
func Export(l *Listing, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return ExportToText(l)
	case FormatMarkdown:
		return ExportToMarkdown(l)
	case FormatCSV:
		return ExportToCSV(l)
	case FormatJSON:
		return ExportToJSON(l)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

func releaseDate(t models.Track) string {
	if t.Album.ReleaseDate == "" {
		return "-"
	}
	return t.Album.ReleaseDate
}

// ExportToCSV converts a Listing to CSV format with columns: Position, Title, Artists, Album, Release Date
func ExportToCSV(l *Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Title", "Artists", "Album", "Release Date"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range l.Tracks {
		record := []string{
			strconv.Itoa(i + 1),
			track.Name,
			track.ArtistNames(),
			track.Album.Name,
			track.Album.ReleaseDate,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Listing to Markdown format, linking the cover image when present
func ExportToMarkdown(l *Listing) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", l.Title))

	if l.Cover != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", l.Cover))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(l.Tracks)))
	if l.SortBy != "" {
		buf.WriteString(fmt.Sprintf("**Sorted by**: %s\n", l.SortBy))
	}
	buf.WriteString("\n")

	buf.WriteString("| # | Title | Artists | Album | Released |\n")
	buf.WriteString("|---|-------|---------|-------|----------|\n")
	for i, track := range l.Tracks {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, escapeCell(track.Name), escapeCell(track.ArtistNames()), escapeCell(track.Album.Name), releaseDate(track)))
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportToText converts a Listing to plain text format
func ExportToText(l *Listing) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", l.Title))
	if l.SortBy != "" {
		buf.WriteString(fmt.Sprintf("Sorted by: %s\n", l.SortBy))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(l.Tracks)))

	for i, track := range l.Tracks {
		artists := track.ArtistNames()
		if artists == "" {
			artists = "Unknown artist"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, artists, track.Name, releaseDate(track)))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a Listing to indented JSON
func ExportToJSON(l *Listing) ([]byte, error) {
	if l.Tracks == nil {
		c := *l
		c.Tracks = []models.Track{}
		l = &c
	}
	return shared.MarshalJSON(l, true)
}

// WriteExport renders l in format f and writes it to path.
//
// Defaults to "tracks.<ext>" when path is empty and returns the path written.
func WriteExport(l *Listing, f Format, path string) (string, error) {
	if path == "" {
		path = "tracks." + f.Ext()
	}

	data, err := Export(l, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

// Ext returns the conventional file extension for f.
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}
