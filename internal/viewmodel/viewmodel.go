// Package viewmodel derives the displayed, sorted order of a playlist's tracks.
//
// A [TrackView] keeps the source tracks exactly as fetched and a separate displayed order. Sorting always starts
// from a fresh copy of the source, so the source is never reordered and repeated sorts are idempotent.
//
// Release dates arrive with year, month, or day precision. [ParseReleaseDate] turns them into comparable keys;
// anything it cannot read sorts after every dated track.
package viewmodel

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/tracklist/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortColumn names a sortable track attribute.
type SortColumn string

const (
	SortNone        SortColumn = ""
	SortTitle       SortColumn = "title"
	SortArtist      SortColumn = "artist"
	SortReleaseDate SortColumn = "release_date"
)

// Columns lists the sortable columns in display order.
func Columns() []SortColumn {
	return []SortColumn{SortTitle, SortArtist, SortReleaseDate}
}

// Valid reports whether c is one of [Columns].
func (c SortColumn) Valid() bool {
	return slices.Contains(Columns(), c)
}

// Label returns a human readable column name.
func (c SortColumn) Label() string {
	switch c {
	case SortTitle:
		return "Title"
	case SortArtist:
		return "Artist"
	case SortReleaseDate:
		return "Release date"
	default:
		return "Playlist order"
	}
}

// ParseSortColumn maps user input to a column. Unknown input reports false.
func ParseSortColumn(s string) (SortColumn, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title", "name":
		return SortTitle, true
	case "artist":
		return SortArtist, true
	case "release_date", "release-date", "date", "released":
		return SortReleaseDate, true
	default:
		return SortNone, false
	}
}

// UndatedKey is the release-date key for dates that cannot be parsed.
const UndatedKey int64 = math.MaxInt64

// ParseReleaseDate parses a year ("2006"), year-month ("2006-01") or full date ("2006-01-02") to the start of that
// period in UTC. Year 0, empty input, and any other shape report false.
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)

	var layout string
	switch len(s) {
	case 4:
		layout = "2006"
	case 7:
		layout = "2006-01"
	case 10:
		layout = "2006-01-02"
	default:
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil || t.Year() == 0 {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// ReleaseDateKey returns the sort key for a release date, or [UndatedKey].
func ReleaseDateKey(s string) int64 {
	t, ok := ParseReleaseDate(s)
	if !ok {
		return UndatedKey
	}
	return t.Unix()
}

// TrackView holds a source track list and its displayed order.
//
// TrackView is not safe for concurrent use.
type TrackView struct {
	collator  *collate.Collator
	source    []models.Track
	display   []models.Track
	column    SortColumn
	hasSource bool
}

// NewTrackView creates an empty view collating titles and artists for tag.
func NewTrackView(tag language.Tag) *TrackView {
	return &TrackView{collator: collate.New(tag)}
}

// SetSource replaces the source, resets the displayed order to it, and forgets the sort column.
func (v *TrackView) SetSource(tracks []models.Track) {
	v.source = slices.Clone(tracks)
	if v.source == nil {
		v.source = []models.Track{}
	}
	v.display = slices.Clone(v.source)
	v.column = SortNone
	v.hasSource = true
}

// Clear removes the source.
func (v *TrackView) Clear() {
	v.source, v.display = nil, nil
	v.column = SortNone
	v.hasSource = false
}

// HasSource reports whether a source has been set since the last [TrackView.Clear].
func (v *TrackView) HasSource() bool {
	return v.hasSource
}

// Column returns the active sort column, or [SortNone] for source order.
func (v *TrackView) Column() SortColumn {
	return v.column
}

// Len returns the number of displayed tracks.
func (v *TrackView) Len() int {
	return len(v.display)
}

// Tracks returns a copy of the displayed order.
func (v *TrackView) Tracks() []models.Track {
	return slices.Clone(v.display)
}

// Source returns a copy of the source in fetched order.
func (v *TrackView) Source() []models.Track {
	return slices.Clone(v.source)
}

// SortBy replaces the displayed order with a stable ascending sort of the source by column.
// An unknown column or a missing source leaves the view unchanged and reports false.
func (v *TrackView) SortBy(column SortColumn) bool {
	if !v.hasSource || !column.Valid() {
		return false
	}
	v.display = v.sorted(column)
	v.column = column
	return true
}

type keyed struct {
	track models.Track
	text  string
	date  int64
}

func (v *TrackView) sorted(column SortColumn) []models.Track {
	rows := make([]keyed, len(v.source))
	for i, t := range v.source {
		rows[i] = keyed{track: t}
		switch column {
		case SortTitle:
			rows[i].text = t.Name
		case SortArtist:
			rows[i].text = t.PrimaryArtist()
		case SortReleaseDate:
			rows[i].date = ReleaseDateKey(t.Album.ReleaseDate)
		}
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		if column == SortReleaseDate {
			return cmp.Compare(a.date, b.date)
		}
		return v.collator.CompareString(a.text, b.text)
	})

	out := make([]models.Track, len(rows))
	for i, r := range rows {
		out[i] = r.track
	}
	return out
}
