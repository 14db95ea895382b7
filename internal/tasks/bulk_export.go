package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/callouts/internal/formatter"
	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
)

const manifestName = "export_manifest.json"

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format
	OutputDir  string           // Base output directory (default: youtube_export_{epoch})
	NumWorkers int              // Concurrent writers (default: 5, max: 10)
	RateLimit  float64          // Fetches per second (default: 5)
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Videos       int      `json:"videos"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	Format            formatter.Format       `json:"format"`
	ExportedAt        time.Time              `json:"exported_at"`
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

type exportJob struct {
	playlistID string
	wrapper    *models.PlaylistWrapper
}

// BulkExport exports multiple playlists concurrently with rate limiting and progress tracking.
//
// Fetches run sequentially under the rate limit and writes fan out to a worker pool. A playlist
// that fails is recorded in the result; the run only fails when the output directory or the
// manifest cannot be written.
func (e *ExportEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, ids []string, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: no playlist source", shared.ErrServiceUnavailable)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no playlists to export", shared.ErrMissingArgument)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("youtube_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Format:          opts.Format,
		ExportedAt:      time.Now().UTC(),
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(ids))
	results := make(chan PlaylistExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, playlistID := range ids {
			if err := limiter.Wait(ctx); err != nil {
				results <- failedResult(playlistID, fmt.Errorf("export cancelled: %w", err))
				continue
			}

			e.sendProgress(prog, fetchingPlaylistUpdate(i+1, len(ids), playlistID))

			wrapper, err := e.source.RequestPlaylist(ctx, playlistID)
			if err != nil {
				e.logger.Warn("failed to fetch playlist", "playlist", playlistID, "error", err)
				results <- failedResult(playlistID, fmt.Errorf("failed to fetch playlist: %w", err))
				continue
			}
			if e.cache != nil {
				e.cache.CachePlaylist(wrapper)
			}

			jobs <- exportJob{playlistID: playlistID, wrapper: wrapper}
			e.sendProgress(prog, exportingPlaylistUpdate(i+1, len(ids), wrapper.Playlist.Title))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			res.ErrorMessage = res.Error.Error()
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.PlaylistName, res.Error))
		}
		result.Results = append(result.Results, res)
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	e.sendProgress(prog, manifestUpdate(manifestPath))
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("bulk export finished", "ok", result.SuccessfulExports, "failed", result.FailedExports, "dir", opts.OutputDir)
	return result, nil
}

// exportWorker writes playlists from jobs until the channel closes.
//
// Once ctx is done the remaining jobs are reported as failures so every id still gets a result.
func (e *ExportEngine) exportWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan exportJob, results chan<- PlaylistExportResult, opts BulkExportOpts) {
	defer wg.Done()

	for job := range jobs {
		if err := ctx.Err(); err != nil {
			res := failedResult(job.playlistID, fmt.Errorf("export cancelled: %w", err))
			res.PlaylistName = job.wrapper.Playlist.Title
			results <- res
			continue
		}
		results <- exportSinglePlaylist(job, opts)
	}
}

// exportSinglePlaylist writes one playlist under the output directory.
func exportSinglePlaylist(j exportJob, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   j.playlistID,
		PlaylistName: j.wrapper.Playlist.Title,
		Videos:       len(j.wrapper.Items),
	}

	files, err := formatter.Write(j.wrapper, opts.Format, exportTarget(opts.OutputDir, j.wrapper.Playlist.ID, opts.Format))
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return result
	}

	result.Files = files
	result.Success = true
	return result
}

// exportTarget returns the path [formatter.Write] expects for format inside dir.
func exportTarget(dir, playlistID string, format formatter.Format) string {
	switch format {
	case formatter.FormatText:
		return filepath.Join(dir, playlistID+"_videos.txt")
	case formatter.FormatJSON:
		return filepath.Join(dir, playlistID+".json")
	default:
		// csv takes a base path, markdown a directory
		return filepath.Join(dir, playlistID)
	}
}

func failedResult(playlistID string, err error) PlaylistExportResult {
	return PlaylistExportResult{
		PlaylistID:   playlistID,
		PlaylistName: fmt.Sprintf("Unknown (%s)", playlistID),
		Error:        err,
	}
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
