// Package tasks runs long playlist operations with real-time progress reporting.
//
// # Bulk Export
//
// [Exporter.BulkExport] writes the tracks of many playlists to disk:
//
//   - Resolves the playlist collection through the query cache
//   - Fans the selected playlists out to a fixed pool of workers
//   - Each worker resolves the playlist's tracks, applies the requested sort, and writes one file
//   - Writes export_manifest.json summarizing every playlist, including failures
//
// A failure on one playlist is recorded in its result and does not stop the others.
//
// # Progress Reporting
//
// Operations accept an optional send-only channel of [ProgressUpdate]. Sends use select with default so a slow or
// absent reader never blocks the export.
package tasks
