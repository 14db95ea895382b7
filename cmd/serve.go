package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/callouts/internal/repositories"
	"github.com/desertthunder/callouts/internal/server"
	"github.com/desertthunder/callouts/internal/services"
	"github.com/desertthunder/callouts/internal/shared"
	"github.com/desertthunder/callouts/internal/web"
)

// Serve runs the site until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = port
	}
	if cmd.Bool("dev") {
		r.config.Server.DevMode = true
	}

	if err := r.config.Validate(); err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := r.siteHandler(ctx, db)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	logger.Info("serving site", "url", r.config.Site.URL, "route", r.config.Site.Route, "static", r.config.Server.StaticDir)

	return server.New(r.config.Server.Addr(), handler, logger).Run(ctx)
}

// siteHandler wires the renderer, study deck, and optional YouTube client into the site router.
func (r *Runner) siteHandler(ctx context.Context, db *sql.DB) (http.Handler, error) {
	cfg := r.config

	renderer, err := web.NewRenderer(web.Options{
		Dir:    cfg.Server.TemplatesDir,
		Dev:    cfg.Server.DevMode,
		Logger: shared.WithLogger(r.logger, "component", "web"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	var youtube services.PlaylistFetcher
	if fetcher, err := r.youtubeFetcher(ctx); err != nil {
		r.logger.Warn("YouTube playlists disabled", "error", err)
	} else {
		youtube = fetcher
	}

	pages := server.NewPages(server.PagesOptions{
		Renderer:  renderer,
		Site:      server.Site{SiteConfig: cfg.Site},
		Deck:      r.deck(db),
		YouTube:   youtube,
		Cache:     repositories.NewPlaylistCacheAdapter(repositories.NewPlaylistRepository(db), r.logger),
		StaticDir: cfg.Server.StaticDir,
		Logger:    r.logger,
	})

	return server.NewSiteHandler(pages, shared.WithLogger(r.logger, "component", "http")), nil
}
