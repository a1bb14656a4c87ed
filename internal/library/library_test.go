package library

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/desertthunder/tracklist/internal/cache"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/services"
)

type fakeGate bool

func (g *fakeGate) Ready() bool { return bool(*g) }

type fakeClient struct {
	mu        sync.Mutex
	calls     map[string]int
	playlists []models.PlaylistSummary
	tracks    map[string][]models.Track
	searchErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}, tracks: map[string][]models.Track{}}
}

func (f *fakeClient) record(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
}

func (f *fakeClient) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeClient) UserProfile(context.Context) (models.UserProfile, error) {
	f.record("profile")
	return models.UserProfile{ID: "u1", DisplayName: "Ada"}, nil
}

func (f *fakeClient) Playlists(context.Context) (models.PlaylistCollection, error) {
	f.record("playlists")
	return models.NewPlaylistCollection(f.playlists), nil
}

func (f *fakeClient) PlaylistTracks(_ context.Context, ref string) ([]models.Track, error) {
	f.record("tracks:" + ref)
	return f.tracks[ref], nil
}

func (f *fakeClient) SearchTracks(_ context.Context, query string) ([]models.Track, error) {
	f.record("search:" + query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []models.Track{{Name: query}}, nil
}

var _ services.Client = (*fakeClient)(nil)

func TestLibrary(t *testing.T) {
	ctx := context.Background()

	t.Run("no token means no requests", func(t *testing.T) {
		gate := fakeGate(false)
		client := newFakeClient()
		lib := New(client, &gate, nil)

		if e := lib.Profile(ctx); e.Status != cache.StatusIdle {
			t.Errorf("expected idle profile, got %v", e.Status)
		}
		if e := lib.Playlists(ctx); e.Status != cache.StatusIdle {
			t.Errorf("expected idle playlists, got %v", e.Status)
		}
		if e := lib.PlaylistTracks(ctx, "H1"); e.Status != cache.StatusIdle {
			t.Errorf("expected idle tracks, got %v", e.Status)
		}
		if e := lib.Search(ctx, "a"); e.Status != cache.StatusIdle {
			t.Errorf("expected idle search, got %v", e.Status)
		}
		if len(client.calls) != 0 {
			t.Errorf("expected no client calls, got %v", client.calls)
		}
	})

	t.Run("token arrival enables fetching", func(t *testing.T) {
		gate := fakeGate(false)
		client := newFakeClient()
		lib := New(client, &gate, nil)

		lib.Profile(ctx)
		gate = true
		e := lib.Profile(ctx)
		if e.Status != cache.StatusSuccess || e.Data.DisplayName != "Ada" {
			t.Errorf("unexpected profile entry %+v", e)
		}
		if client.count("profile") != 1 {
			t.Errorf("expected 1 profile call, got %d", client.count("profile"))
		}
	})

	t.Run("tracks keyed by reference", func(t *testing.T) {
		gate := fakeGate(true)
		client := newFakeClient()
		client.tracks["H1"] = []models.Track{{Name: "One"}}
		lib := New(client, &gate, nil)

		e := lib.PlaylistTracks(ctx, "H1")
		if e.Key != (cache.Key{Endpoint: "playlistTracks", Param: "H1"}) {
			t.Errorf("unexpected key %v", e.Key)
		}
		if len(e.Data) != 1 || e.Data[0].Name != "One" {
			t.Errorf("unexpected tracks %+v", e.Data)
		}
		lib.PlaylistTracks(ctx, "H1")
		if client.count("tracks:H1") != 1 {
			t.Errorf("expected cached second read, got %d calls", client.count("tracks:H1"))
		}
	})

	t.Run("empty reference and blank query are skipped", func(t *testing.T) {
		gate := fakeGate(true)
		client := newFakeClient()
		lib := New(client, &gate, nil)

		if e := lib.PlaylistTracks(ctx, ""); e.Status != cache.StatusIdle {
			t.Errorf("expected idle for empty ref, got %v", e.Status)
		}
		if e := lib.Search(ctx, "   "); e.Status != cache.StatusIdle {
			t.Errorf("expected idle for blank query, got %v", e.Status)
		}
		if len(client.calls) != 0 {
			t.Errorf("expected no client calls, got %v", client.calls)
		}
	})

	t.Run("search errors surface as error entries", func(t *testing.T) {
		gate := fakeGate(true)
		client := newFakeClient()
		client.searchErr = errors.New("down")
		lib := New(client, &gate, nil)

		e := lib.Search(ctx, "a")
		if e.Status != cache.StatusError || e.Err == nil {
			t.Errorf("expected error entry, got %+v", e)
		}
	})

	t.Run("Refresh and Reset force refetch", func(t *testing.T) {
		gate := fakeGate(true)
		client := newFakeClient()
		lib := New(client, &gate, nil)

		lib.Playlists(ctx)
		lib.Refresh(services.EndpointPlaylists, "")
		lib.Playlists(ctx)
		if client.count("playlists") != 2 {
			t.Errorf("expected refetch after Refresh, got %d", client.count("playlists"))
		}

		lib.Search(ctx, "a")
		lib.Reset()
		lib.Search(ctx, "a")
		if client.count("search:a") != 2 {
			t.Errorf("expected refetch after Reset, got %d", client.count("search:a"))
		}
	})
}
