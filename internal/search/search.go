// Package search tracks the live catalog search: the active query, its results, and whether they are shown.
//
// Results are keyed by the query and request sequence that produced them. A response for anything other than the
// active request is discarded, so a slow response for "a" can never replace the results for "ab", and a response
// issued before the query was re-armed (after a token change, say) can never replace the one issued after. Results are only visible while
// the input is focused; blurring hides them without clearing them.
package search

import (
	"slices"
	"strings"

	"github.com/desertthunder/tracklist/internal/models"
)

// Request describes the fetch a query change calls for.
type Request struct {
	Query string
	Seq   uint64
	Skip  bool // blank query: nothing to fetch
}

// Result is a completed search for Query.
type Result struct {
	Query  string
	Seq    uint64
	Tracks []models.Track
	Err    error
}

// Session is the state of the search input. It is not safe for concurrent use.
type Session struct {
	query   string
	results []models.Track
	err     error
	seq     uint64
	pending bool
	focused bool
}

// New creates an empty, unfocused session.
func New() *Session {
	return &Session{}
}

// SetQuery makes q the active query and drops results for the previous one.
func (s *Session) SetQuery(q string) Request {
	s.seq++
	s.query = q
	s.results = nil
	s.err = nil

	if strings.TrimSpace(q) == "" {
		s.pending = false
		return Request{Query: q, Seq: s.seq, Skip: true}
	}
	s.pending = true
	return Request{Query: q, Seq: s.seq}
}

// Receive applies r when it answers the active request and reports whether it did.
func (s *Session) Receive(r Result) bool {
	if r.Query != s.query || r.Seq != s.seq || !s.pending {
		return false
	}

	s.pending = false
	if r.Err != nil {
		s.results = nil
		s.err = r.Err
		return true
	}
	s.results = slices.Clone(r.Tracks)
	s.err = nil
	return true
}

// Focus marks the input as focused.
func (s *Session) Focus() { s.focused = true }

// Blur marks the input as unfocused. Results are kept.
func (s *Session) Blur() { s.focused = false }

// Focused reports whether the input has focus.
func (s *Session) Focused() bool { return s.focused }

// Query returns the active query.
func (s *Session) Query() string { return s.query }

// Pending reports whether a response for the active query is outstanding.
func (s *Session) Pending() bool { return s.pending }

// Err returns the failure for the active query, if any.
func (s *Session) Err() error { return s.err }

// Results returns the results for the active query regardless of focus.
func (s *Session) Results() []models.Track {
	return slices.Clone(s.results)
}

// Visible returns the results to display: none unless focused.
func (s *Session) Visible() []models.Track {
	if !s.focused {
		return nil
	}
	return s.Results()
}

// Reset clears the query and results, keeping focus. The sequence keeps counting so earlier requests stay stale.
func (s *Session) Reset() {
	*s = Session{seq: s.seq, focused: s.focused}
}
