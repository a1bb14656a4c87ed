package search

import (
	"errors"
	"testing"

	"github.com/desertthunder/tracklist/internal/models"
)

func tracks(names ...string) []models.Track {
	out := make([]models.Track, len(names))
	for i, n := range names {
		out[i] = models.Track{ID: n, Name: n}
	}
	return out
}

func TestSession(t *testing.T) {
	t.Run("stale response never overwrites newer query", func(t *testing.T) {
		s := New()
		s.Focus()
		a := s.SetQuery("a")
		ab := s.SetQuery("ab")

		if !s.Receive(Result{Query: "ab", Seq: ab.Seq, Tracks: tracks("ab1")}) {
			t.Fatal("expected ab result to apply")
		}
		if s.Receive(Result{Query: "a", Seq: a.Seq, Tracks: tracks("a1", "a2")}) {
			t.Error("expected stale a result to be discarded")
		}

		got := s.Visible()
		if len(got) != 1 || got[0].Name != "ab1" {
			t.Errorf("expected ab results, got %+v", got)
		}
	})

	t.Run("stale response arriving first is discarded", func(t *testing.T) {
		s := New()
		a := s.SetQuery("a")
		s.SetQuery("ab")

		if s.Receive(Result{Query: "a", Seq: a.Seq, Tracks: tracks("a1")}) {
			t.Error("expected stale a result to be discarded")
		}
		if !s.Pending() {
			t.Error("expected ab to still be pending")
		}
		if len(s.Results()) != 0 {
			t.Errorf("expected no results yet, got %+v", s.Results())
		}
	})

	t.Run("query change clears results", func(t *testing.T) {
		s := New()
		a := s.SetQuery("a")
		s.Receive(Result{Query: "a", Seq: a.Seq, Tracks: tracks("a1")})
		s.SetQuery("b")

		if len(s.Results()) != 0 {
			t.Errorf("expected cleared results, got %+v", s.Results())
		}
		if s.Query() != "b" {
			t.Errorf("expected active query b, got %q", s.Query())
		}
	})

	t.Run("blank query skips the fetch", func(t *testing.T) {
		s := New()
		req := s.SetQuery("   ")
		if !req.Skip {
			t.Error("expected blank query to be skipped")
		}
		if s.Pending() {
			t.Error("expected nothing pending")
		}
		if s.Receive(Result{Query: "   ", Seq: req.Seq, Tracks: tracks("x")}) {
			t.Error("expected unrequested result to be discarded")
		}

		if req := s.SetQuery("q"); req.Skip || req.Query != "q" {
			t.Errorf("unexpected request %+v", req)
		}
	})

	t.Run("error replaces results", func(t *testing.T) {
		s := New()
		req := s.SetQuery("a")
		boom := errors.New("boom")

		if !s.Receive(Result{Query: "a", Seq: req.Seq, Err: boom}) {
			t.Fatal("expected error result to apply")
		}
		if !errors.Is(s.Err(), boom) || len(s.Results()) != 0 {
			t.Errorf("expected error and no results, got %v %+v", s.Err(), s.Results())
		}
	})

	t.Run("duplicate delivery is ignored", func(t *testing.T) {
		s := New()
		req := s.SetQuery("a")
		s.Receive(Result{Query: "a", Seq: req.Seq, Tracks: tracks("a1")})
		if s.Receive(Result{Query: "a", Seq: req.Seq, Tracks: tracks("other")}) {
			t.Error("expected second delivery to be ignored")
		}
		if got := s.Results(); len(got) != 1 || got[0].Name != "a1" {
			t.Errorf("unexpected results %+v", got)
		}
	})

	t.Run("results visible only while focused", func(t *testing.T) {
		s := New()
		req := s.SetQuery("a")
		s.Receive(Result{Query: "a", Seq: req.Seq, Tracks: tracks("a1")})

		if len(s.Visible()) != 0 {
			t.Error("expected nothing visible before focus")
		}
		s.Focus()
		if len(s.Visible()) != 1 {
			t.Error("expected results visible while focused")
		}
		s.Blur()
		if len(s.Visible()) != 0 {
			t.Error("expected nothing visible after blur")
		}
		if len(s.Results()) != 1 {
			t.Error("expected blur to keep results")
		}
		s.Focus()
		if len(s.Visible()) != 1 {
			t.Error("expected results visible again after refocus")
		}
	})

	t.Run("re-armed query ignores the earlier request", func(t *testing.T) {
		s := New()
		old := s.SetQuery("abba")
		s.Reset()
		fresh := s.SetQuery("abba")

		if fresh.Seq == old.Seq {
			t.Fatalf("expected a new sequence, got %d twice", fresh.Seq)
		}
		if s.Receive(Result{Query: "abba", Seq: old.Seq, Tracks: tracks("old")}) {
			t.Error("expected result for the earlier request to be discarded")
		}
		if !s.Pending() {
			t.Error("expected the fresh request to still be pending")
		}
		if !s.Receive(Result{Query: "abba", Seq: fresh.Seq, Tracks: tracks("new")}) {
			t.Fatal("expected result for the fresh request to apply")
		}
		if got := s.Results(); len(got) != 1 || got[0].Name != "new" {
			t.Errorf("expected fresh results, got %+v", got)
		}
	})

	t.Run("Reset keeps focus", func(t *testing.T) {
		s := New()
		s.Focus()
		s.SetQuery("a")
		s.Reset()
		if !s.Focused() || s.Query() != "" || s.Pending() {
			t.Errorf("unexpected state after reset: %+v", s)
		}
	})
}
