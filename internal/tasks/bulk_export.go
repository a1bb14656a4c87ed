package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/cache"
	"github.com/desertthunder/tracklist/internal/formatter"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/desertthunder/tracklist/internal/viewmodel"
	"golang.org/x/text/language"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
	manifestName   = "export_manifest.json"
)

// Source resolves playlists and their tracks. *library.Library satisfies this interface.
type Source interface {
	Playlists(ctx context.Context) cache.Entry[models.PlaylistCollection]
	PlaylistTracks(ctx context.Context, ref string) cache.Entry[[]models.Track]
}

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format     // Output format for each playlist file
	OutputDir  string               // Base output directory (default: tracklist_export_{epoch})
	NumWorkers int                  // Concurrent workers (default: 4, max: 10)
	SortBy     viewmodel.SortColumn // Column applied to every playlist; SortNone keeps playlist order
	Locale     language.Tag         // Collation for sorting (default: English)
	Names      []string             // Playlist names to export; empty exports all
}

// PlaylistExportResult is the outcome for one playlist.
type PlaylistExportResult struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	File         string `json:"file,omitempty"`
	Tracks       int    `json:"tracks"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	Err          error  `json:"-"`
}

// BulkExportResult summarizes a bulk export and is written as the manifest.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	Format            formatter.Format       `json:"format"`
	SortBy            viewmodel.SortColumn   `json:"sort_by,omitempty"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

type exportJob struct {
	index    int
	playlist models.PlaylistSummary
	file     string
}

// Exporter writes playlist track listings using a worker pool.
type Exporter struct {
	src    Source
	logger *log.Logger
}

// NewExporter creates an Exporter reading from src.
func NewExporter(src Source, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Exporter{src: src, logger: logger}
}

// BulkExport exports the selected playlists concurrently and writes a manifest.
//
// The returned error covers failures that stop the whole export (no playlists, unusable output directory);
// per-playlist failures are reported in the result.
func (e *Exporter) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tracklist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}

	sendProgress(prog, fetchingPlaylistsUpdate())
	entry := e.src.Playlists(ctx)
	switch entry.Status {
	case cache.StatusSuccess:
	case cache.StatusError:
		return nil, fmt.Errorf("failed to load playlists: %w", entry.Err)
	case cache.StatusIdle:
		return nil, fmt.Errorf("%w: cannot export playlists", shared.ErrUnauthenticated)
	default:
		return nil, fmt.Errorf("%w: playlists still loading", shared.ErrTimeout)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	selected, missing := selectPlaylists(entry.Data, opts.Names)
	total := len(selected) + len(missing)
	result := &BulkExportResult{
		TotalPlaylists:  total,
		Format:          opts.Format,
		SortBy:          opts.SortBy,
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, total),
	}

	for i, name := range missing {
		err := fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
		result.Results[len(selected)+i] = PlaylistExportResult{PlaylistName: name, Err: err, Error: err.Error()}
	}

	jobs := make(chan exportJob, len(selected))
	results := make(chan exportJob, len(selected))
	files := fileNames(selected, opts.Format)
	for i, p := range selected {
		jobs <- exportJob{index: i, playlist: p, file: files[i]}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, result.Results, opts)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	finished := make([]bool, len(selected))
	completed := 0
	for job := range results {
		completed++
		finished[job.index] = true
		res := result.Results[job.index]
		if res.Success {
			sendProgress(prog, exportCompletedUpdate(completed, total, res.PlaylistName, res.Tracks))
		} else {
			sendProgress(prog, exportFailedUpdate(completed, total, res.PlaylistName, res.Err))
		}
	}

	for i := range result.Results {
		res := &result.Results[i]
		if i < len(selected) && !finished[i] {
			// never reached by a worker because ctx was canceled
			res.PlaylistID, res.PlaylistName = selected[i].ID, selected[i].Name
			res.Err = context.Cause(ctx)
			if res.Err != nil {
				res.Error = res.Err.Error()
			}
		}
		if res.Success {
			result.SuccessfulExports++
		} else {
			result.FailedExports++
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))

	e.logger.Info("bulk export finished",
		"dir", opts.OutputDir, "ok", result.SuccessfulExports, "failed", result.FailedExports)
	return result, ctx.Err()
}

// exportWorker exports playlists from jobs, storing each outcome at the job's index.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	done chan<- exportJob,
	out []PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		out[job.index] = e.exportSinglePlaylist(ctx, job.playlist, job.file, opts)
		done <- job
	}
}

// exportSinglePlaylist resolves, sorts, and writes one playlist.
func (e *Exporter) exportSinglePlaylist(ctx context.Context, p models.PlaylistSummary, file string, opts BulkExportOpts) PlaylistExportResult {
	res := PlaylistExportResult{PlaylistID: p.ID, PlaylistName: p.Name}
	fail := func(err error) PlaylistExportResult {
		e.logger.Warn("playlist export failed", "playlist", p.Name, "error", err)
		res.Err, res.Error = err, err.Error()
		return res
	}

	if p.TracksRef == "" {
		return fail(fmt.Errorf("%w: %q has no tracks reference", shared.ErrStaleSelection, p.Name))
	}

	entry := e.src.PlaylistTracks(ctx, p.TracksRef)
	switch entry.Status {
	case cache.StatusSuccess:
	case cache.StatusError:
		return fail(entry.Err)
	case cache.StatusIdle:
		return fail(shared.ErrUnauthenticated)
	default:
		return fail(fmt.Errorf("%w: tracks still loading", shared.ErrTimeout))
	}

	view := viewmodel.NewTrackView(opts.Locale)
	view.SetSource(entry.Data)
	view.SortBy(opts.SortBy)

	listing := &formatter.Listing{Title: p.Name, Tracks: view.Tracks()}
	if opts.SortBy != viewmodel.SortNone {
		listing.SortBy = string(opts.SortBy)
	}

	path := filepath.Join(opts.OutputDir, file)
	written, err := formatter.WriteExport(listing, opts.Format, path)
	if err != nil {
		return fail(err)
	}

	e.logger.Debug("playlist exported", "playlist", p.Name, "file", written, "tracks", view.Len())
	res.File, res.Tracks, res.Success = written, view.Len(), true
	return res
}

// selectPlaylists returns the playlists named in names, in provider order, and the names that matched nothing.
// An empty names selects everything.
func selectPlaylists(c models.PlaylistCollection, names []string) ([]models.PlaylistSummary, []string) {
	if len(names) == 0 {
		return c.All(), nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var selected []models.PlaylistSummary
	for _, p := range c.All() {
		if want[p.Name] {
			selected = append(selected, p)
		}
	}

	var missing []string
	for _, n := range names {
		if _, ok := c.ByName(n); !ok {
			missing = append(missing, n)
		}
	}
	return selected, missing
}

// FileName derives a filesystem-safe file name for p, suffixed with its identity (see [models.PlaylistSummary.Key])
// so equal names do not collide.
func FileName(p models.PlaylistSummary, f formatter.Format) string {
	base := slug(p.Name)
	if key := p.Key(); key != "" {
		base += "_" + slug(key)
	}
	return base + "." + f.Ext()
}

// fileNames assigns each playlist a distinct file name. Repeats are numbered in provider order.
func fileNames(ps []models.PlaylistSummary, f formatter.Format) []string {
	used := make(map[string]bool, len(ps))
	out := make([]string, len(ps))
	for i, p := range ps {
		name := FileName(p, f)
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteRune('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "playlist"
	}
	return out
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
