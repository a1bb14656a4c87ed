package main

import (
	"context"

	"github.com/desertthunder/tracklist/internal/formatter"
	"github.com/desertthunder/tracklist/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"
)

// Export writes every selected playlist to its own file and prints progress as playlists finish.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	column, err := parseSort(cmd.String("sort"))
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if !r.session.Ready() {
		return errNotSignedIn
	}

	locale, err := language.Parse(r.config.API.Locale)
	if err != nil {
		locale = language.English
	}

	prog := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range prog {
			if u.Err != nil {
				r.writePlain("[%d/%d] ✗ %s: %v\n", u.Step, u.Total, u.Message, u.Err)
				continue
			}
			r.writePlain("[%d/%d] %s\n", u.Step, u.Total, u.Message)
		}
	}()

	exporter := tasks.NewExporter(r.library, r.logger)
	result, err := exporter.BulkExport(ctx, prog, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		SortBy:     column,
		Locale:     locale,
		Names:      cmd.StringSlice("playlist"),
	})
	close(prog)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("✓ Exported %d of %d playlists to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("⚠ %d failed; see %s\n", result.FailedExports, result.ManifestPath)
	}
	return nil
}
