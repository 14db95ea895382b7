package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/callouts/internal/formatter"
	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/repositories"
	"github.com/desertthunder/callouts/internal/services"
	"github.com/desertthunder/callouts/internal/shared"
	"github.com/desertthunder/callouts/internal/tasks"
)

// playlistArg accepts either a bare playlist ID or a playlist URL.
func playlistArg(cmd *cli.Command) (string, error) {
	raw := strings.TrimSpace(cmd.StringArg("playlist"))
	if raw == "" {
		return "", fmt.Errorf("%w: playlist ID or URL is required", shared.ErrMissingArgument)
	}
	if strings.Contains(raw, "://") {
		id, ok := services.PlaylistIDFromURL(raw)
		if !ok {
			return "", fmt.Errorf("%w: no playlist ID in %q", shared.ErrInvalidArgument, raw)
		}
		return id, nil
	}
	return raw, nil
}

// YouTubePlaylist fetches a playlist with all items, caches it, and prints or saves it.
func (r *Runner) YouTubePlaylist(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := playlistArg(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	fetcher, err := r.youtubeFetcher(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}

	r.logger.Infof("fetching youtube playlist %v", playlistID)

	wrapper, err := fetcher.RequestPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("playlist not cached", "error", err)
	} else {
		defer db.Close()
		repositories.NewPlaylistCacheAdapter(repositories.NewPlaylistRepository(db), r.logger).CachePlaylist(wrapper)
	}

	output := cmd.String("output")
	if output != "" || cmd.Bool("save") {
		files, err := formatter.Write(wrapper, format, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Playlist %s exported\n", wrapper.Playlist.Title)
		r.writePlain("  Videos: %d\n", len(wrapper.Items))
		for _, f := range files {
			r.writePlain("  File: %s\n", f)
		}
		return nil
	}

	data, err := formatter.Export(wrapper, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// YouTubeCached lists cached playlists, or prints one cached playlist with its items.
func (r *Runner) YouTubeCached(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewPlaylistRepository(db)

	if id := strings.TrimSpace(cmd.StringArg("playlist")); id != "" {
		wrapper, err := repo.Get(id)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(wrapper, true)
		}
		data, err := formatter.ExportToText(wrapper)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	playlists, err := repo.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	if len(playlists) == 0 {
		return r.writePlain("No cached playlists.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Cached playlists (%d)", len(playlists)))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Title)
		r.writePlain("   ID: %s\n", p.ID)
		if p.ChannelTitle != "" {
			r.writePlain("   Channel: %s\n", p.ChannelTitle)
		}
		r.writePlain("   Fetched: %s\n", p.FetchedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// YouTubeForget removes a playlist and its items from the cache.
func (r *Runner) YouTubeForget(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := playlistArg(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewPlaylistRepository(db).Delete(playlistID); err != nil {
		if errors.Is(err, shared.ErrPlaylistNotFound) {
			return fmt.Errorf("%w: %s is not cached", shared.ErrPlaylistNotFound, playlistID)
		}
		return err
	}

	return r.writePlain("✓ Removed %s from the cache\n", playlistID)
}

// cachedSource serves playlists from the local cache.
type cachedSource struct {
	repo *repositories.PlaylistRepository
}

func (s cachedSource) RequestPlaylist(ctx context.Context, playlistID string) (*models.PlaylistWrapper, error) {
	return s.repo.Get(playlistID)
}

// YouTubeExport exports several playlists concurrently and writes a manifest.
func (r *Runner) YouTubeExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var ids []string
	for _, raw := range cmd.Args().Slice() {
		id := strings.TrimSpace(raw)
		if strings.Contains(id, "://") {
			parsed, ok := services.PlaylistIDFromURL(id)
			if !ok {
				return fmt.Errorf("%w: no playlist ID in %q", shared.ErrInvalidArgument, raw)
			}
			id = parsed
		}
		if id != "" {
			ids = append(ids, id)
		}
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewPlaylistRepository(db)

	var engine *tasks.ExportEngine
	if cmd.Bool("cached") {
		if len(ids) == 0 {
			playlists, err := repo.List()
			if err != nil {
				return err
			}
			for _, p := range playlists {
				ids = append(ids, p.ID)
			}
		}
		engine = tasks.NewExportEngine(cachedSource{repo: repo}, nil, r.logger)
	} else {
		if len(ids) == 0 {
			return fmt.Errorf("%w: at least one playlist ID or URL is required", shared.ErrMissingArgument)
		}
		fetcher, err := r.youtubeFetcher(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
		}
		engine = tasks.NewExportEngine(fetcher, repositories.NewPlaylistCacheAdapter(repo, r.logger), r.logger)
	}

	if len(ids) == 0 {
		return r.writePlain("No cached playlists.\n")
	}

	prog := make(chan tasks.ProgressUpdate, len(ids)*3+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range prog {
			r.writePlainln("%s", u.Message)
		}
	}()

	result, err := engine.BulkExport(ctx, prog, ids, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  r.config.YouTube.RequestsPerSecond,
	})
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("\n✓ Exported %d/%d playlists to %s\n", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("✗ %d failed, see %s\n", result.FailedExports, result.ManifestPath)
	}
	return nil
}
