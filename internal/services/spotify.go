// Spotify Web API implementation of [Client]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyArtist represents a simplified artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a simplified album.
type SpotifyAlbum struct {
	Name                 string         `json:"name"`
	ReleaseDate          string         `json:"release_date"`
	ReleaseDatePrecision string         `json:"release_date_precision"`
	Images               []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Album   SpotifyAlbum    `json:"album"`
	Artists []SpotifyArtist `json:"artists"`
}

type tracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Tracks tracksRef `json:"tracks"`
}

// SpotifyPlaylistTrack represents a track within a playlist context. Track is null for removed or local items.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// Envelopes use pointers so a missing field can be told apart from an empty list.
type playlistsPage struct {
	Items *[]SpotifySimplePlaylist `json:"items"`
}

type playlistTracksPage struct {
	Items *[]SpotifyPlaylistTrack `json:"items"`
}

type searchEnvelope struct {
	Tracks *struct {
		Items *[]SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

type spotifyErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func toImages(images []SpotifyImage) []models.Image {
	return lo.Map(images, func(i SpotifyImage, _ int) models.Image {
		return models.Image{URL: i.URL, Height: i.Height, Width: i.Width}
	})
}

// Model converts the wire representation into a [models.Track].
func (t SpotifyTrack) Model() models.Track {
	return models.Track{
		ID:   t.ID,
		Name: t.Name,
		Album: models.Album{
			Name:        t.Album.Name,
			ReleaseDate: t.Album.ReleaseDate,
			Images:      toImages(t.Album.Images),
		},
		Artists: lo.Map(t.Artists, func(a SpotifyArtist, _ int) models.Artist {
			return models.Artist{ID: a.ID, Name: a.Name}
		}),
	}
}

// Model converts the wire representation into a [models.UserProfile].
func (u SpotifyUser) Model() models.UserProfile {
	return models.UserProfile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Images:      toImages(u.Images),
	}
}

// Model converts the wire representation into a [models.PlaylistSummary].
func (p SpotifySimplePlaylist) Model() models.PlaylistSummary {
	return models.PlaylistSummary{
		ID:         p.ID,
		Name:       p.Name,
		TracksRef:  p.Tracks.Href,
		TrackCount: p.Tracks.Total,
	}
}

// ClientOpts configures a [SpotifyClient].
type ClientOpts struct {
	BaseURL           string       // defaults to the public Web API
	HTTPClient        *http.Client // defaults to http.DefaultClient
	RequestsPerSecond float64      // client-side pacing; zero disables it
	Logger            *log.Logger
}

// SpotifyClient implements [Client] against the Spotify Web API.
//
// Every request carries the bearer token from its [TokenSource]; without one no request is made.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSpotifyClient creates a client reading tokens from tokens.
func NewSpotifyClient(tokens TokenSource, opts ClientOpts) *SpotifyClient {
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(1, int(opts.RequestsPerSecond)))
	}

	return &SpotifyClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		tokens:     tokens,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// Name returns the provider name.
func (c *SpotifyClient) Name() string {
	return "Spotify"
}

// resolve joins a relative reference onto the base URL; absolute references pass through untouched.
func (c *SpotifyClient) resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + "/" + strings.TrimLeft(ref, "/")
}

// doRequest performs an authenticated GET and decodes the JSON body into result.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint Endpoint, rawURL string, result any) error {
	token, ok := c.tokens.AccessToken(ctx)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrUnauthenticated, endpoint)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &HTTPError{Kind: KindTransport, Endpoint: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &HTTPError{Kind: KindTransport, Endpoint: endpoint, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("spotify request", "endpoint", endpoint, "url", rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &HTTPError{Kind: KindTransport, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &HTTPError{Kind: KindStatus, Endpoint: endpoint, StatusCode: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var apiErr spotifyErrorBody
		if json.Unmarshal(body, &apiErr) == nil {
			httpErr.Message = apiErr.Error.Message
		}
		c.logger.Warn("spotify request failed", "endpoint", endpoint, "status", resp.StatusCode)
		return httpErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &HTTPError{Kind: KindMalformed, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	return nil
}

// UserProfile retrieves the current authenticated user's profile.
func (c *SpotifyClient) UserProfile(ctx context.Context) (models.UserProfile, error) {
	var user SpotifyUser
	if err := c.doRequest(ctx, EndpointProfile, c.baseURL+"/me", &user); err != nil {
		return models.UserProfile{}, err
	}
	return user.Model(), nil
}

// Playlists retrieves the first page of the current user's playlists.
func (c *SpotifyClient) Playlists(ctx context.Context) (models.PlaylistCollection, error) {
	var page playlistsPage
	if err := c.doRequest(ctx, EndpointPlaylists, c.baseURL+"/me/playlists", &page); err != nil {
		return models.PlaylistCollection{}, err
	}
	if page.Items == nil {
		return models.PlaylistCollection{}, &HTTPError{Kind: KindMalformed, Endpoint: EndpointPlaylists, Message: "missing items"}
	}

	return models.NewPlaylistCollection(lo.Map(*page.Items, func(p SpotifySimplePlaylist, _ int) models.PlaylistSummary {
		return p.Model()
	})), nil
}

// PlaylistTracks retrieves the first page of tracks behind ref, skipping entries whose track is null.
func (c *SpotifyClient) PlaylistTracks(ctx context.Context, ref string) ([]models.Track, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("%w: empty playlist reference", shared.ErrStaleSelection)
	}

	var page playlistTracksPage
	if err := c.doRequest(ctx, EndpointPlaylistTracks, c.resolve(ref), &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		return nil, &HTTPError{Kind: KindMalformed, Endpoint: EndpointPlaylistTracks, Message: "missing items"}
	}

	tracks := make([]models.Track, 0, len(*page.Items))
	for _, item := range *page.Items {
		if item.Track == nil {
			continue
		}
		tracks = append(tracks, item.Track.Model())
	}
	return tracks, nil
}

// SearchTracks searches the catalog for tracks, flattening the tracks.items envelope.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidArgument)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")

	var env searchEnvelope
	if err := c.doRequest(ctx, EndpointSearch, c.baseURL+"/search?"+params.Encode(), &env); err != nil {
		return nil, err
	}
	if env.Tracks == nil || env.Tracks.Items == nil {
		return nil, &HTTPError{Kind: KindMalformed, Endpoint: EndpointSearch, Message: "missing tracks.items"}
	}

	return lo.Map(*env.Tracks.Items, func(t SpotifyTrack, _ int) models.Track { return t.Model() }), nil
}
