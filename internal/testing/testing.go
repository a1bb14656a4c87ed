// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
)

// StaticTokens is a token source that always returns Token; an empty Token means "not signed in".
type StaticTokens struct {
	Token string
}

func (s StaticTokens) AccessToken(context.Context) (string, bool) {
	return s.Token, s.Token != ""
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// CountingHandler wraps an [http.Handler] and counts the requests it serves.
type CountingHandler struct {
	Next  http.Handler
	count atomic.Int64
}

func (c *CountingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.count.Add(1)
	c.Next.ServeHTTP(w, r)
}

// Count returns the number of requests served so far.
func (c *CountingHandler) Count() int {
	return int(c.count.Load())
}

// WriteJSON encodes v as the response body with a 200 status.
func WriteJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

// TrackJSON builds a track object in the Web API's shape.
func TrackJSON(id, name, artist, releaseDate string) map[string]any {
	artists := []map[string]any{}
	if artist != "" {
		artists = append(artists, map[string]any{"id": "ar-" + id, "name": artist})
	}
	return map[string]any{
		"id":   id,
		"name": name,
		"album": map[string]any{
			"name":         name + " (album)",
			"release_date": releaseDate,
			"images":       []map[string]any{{"url": "https://i.scdn.co/image/" + id, "height": 640, "width": 640}},
		},
		"artists": artists,
	}
}

// PlaylistJSON builds a simplified playlist object whose tracks live at href.
func PlaylistJSON(id, name, href string, total int) map[string]any {
	return map[string]any{
		"id":     id,
		"name":   name,
		"tracks": map[string]any{"href": href, "total": total},
	}
}

// PlaylistTracksJSON wraps tracks in a playlist items page.
func PlaylistTracksJSON(tracks ...map[string]any) map[string]any {
	items := make([]map[string]any, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, map[string]any{"added_at": "2024-01-01T00:00:00Z", "track": t})
	}
	return map[string]any{"items": items}
}

// SearchJSON wraps tracks in the search response envelope.
func SearchJSON(tracks ...map[string]any) map[string]any {
	if tracks == nil {
		tracks = []map[string]any{}
	}
	return map[string]any{"tracks": map[string]any{"items": tracks}}
}
