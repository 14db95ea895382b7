// Package tasks runs long playlist operations with non-blocking progress reporting.
//
// # Bulk Export
//
// [ExportEngine.BulkExport] fetches a list of playlists and writes each one in a [formatter.Format]:
//
//  1. Playlists are requested one at a time, paced by a [rate.Limiter]
//  2. A bounded pool of workers writes the export files
//  3. A playlist that fails to fetch or write is recorded and the run continues
//  4. export_manifest.json summarizes every result once all workers finish
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel. Sends use select with default
// so a slow or absent reader never stalls an export.
package tasks
