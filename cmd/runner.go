package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/callouts/internal/repositories"
	"github.com/desertthunder/callouts/internal/services"
	"github.com/desertthunder/callouts/internal/shared"
	"github.com/desertthunder/callouts/internal/study"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	// youtube overrides the OAuth-backed client; tests inject a fake fetcher here.
	youtube services.PlaylistFetcher
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	YouTube    services.PlaylistFetcher
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		youtube:    opts.YouTube,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, authCommand, youtubeCommand, entryCommand, studyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by every command.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDatabase opens the configured database and brings its schema up to date.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// deck builds the study service over db.
func (r *Runner) deck(db *sql.DB) *study.Service {
	return study.NewService(
		repositories.NewEntryRepository(db),
		repositories.NewReviewRepository(db),
		shared.WithLogger(r.logger, "component", "study"),
	)
}

// youtubeFetcher returns a YouTube client authorized with the cached token.
func (r *Runner) youtubeFetcher(ctx context.Context) (services.PlaylistFetcher, error) {
	if r.youtube != nil {
		return r.youtube, nil
	}

	yt := r.config.YouTube
	oauthConfig, err := services.LoadOAuthConfig(yt.ClientSecretPath, redirectURL(yt.RedirectPort))
	if err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	client, err := services.NewAuthenticatedClient(ctx, oauthConfig, services.NewTokenCache(yt.TokenCachePath))
	if err != nil {
		return nil, err
	}

	return services.NewYouTubeService(client, services.YouTubeOptions{
		BaseURL:           yt.APIURL,
		PageSize:          yt.PageSize,
		RequestsPerSecond: yt.RequestsPerSecond,
		Logger:            shared.WithLogger(r.logger, "component", "youtube"),
	}), nil
}

func redirectURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d/callback", port)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
