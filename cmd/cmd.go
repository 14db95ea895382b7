// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/callouts/internal/formatter"
)

// serveCommand runs the site
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the callouts site",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "Re-parse templates on every request",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:    "youtube",
				Aliases: []string{"yt"},
				Usage:   "Authorize read access to YouTube using OAuth2",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the consent URL instead of opening a browser",
					},
				},
				Action: r.AuthYouTube,
			},
			{
				Name:   "status",
				Usage:  "Show whether a YouTube token is cached",
				Action: r.AuthStatus,
			},
		},
	}
}

// youtubeCommand handles YouTube playlist operations
func youtubeCommand(r *Runner) *cli.Command {
	formats := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		formats[i] = string(f)
	}

	return &cli.Command{
		Name:    "youtube",
		Aliases: []string{"yt"},
		Usage:   "YouTube playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "playlist",
				Usage: "Fetch a playlist by ID or URL and cache it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (" + strings.Join(formats, ", ") + ")",
						Value:   string(formatter.FormatText),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Save to this path instead of printing",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save using the default file name for the format",
					},
				},
				Action: r.YouTubePlaylist,
			},
			{
				Name:      "export",
				Usage:     "Export several playlists to a directory",
				ArgsUsage: "[playlist...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (" + strings.Join(formats, ", ") + ")",
						Value:   string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory (default: youtube_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent file writers",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read playlists from the cache instead of the API; with no IDs, export every cached playlist",
					},
				},
				Action: r.YouTubeExport,
			},
			{
				Name:  "cached",
				Usage: "List cached playlists, or show one by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.YouTubeCached,
			},
			{
				Name:  "forget",
				Usage: "Remove a playlist from the cache",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Action: r.YouTubeForget,
			},
		},
	}
}

// entryCommand manages the study deck
func entryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "entry",
		Aliases: []string{"entries"},
		Usage:   "Manage study entries",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a callout to the deck",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "header",
						Usage: "Map or mode the callout belongs to",
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Answer shown after reveal",
					},
					&cli.StringFlag{
						Name:  "footer",
						Usage: "Note shown once the entry is learned",
					},
				},
				Action: r.EntryAdd,
			},
			{
				Name:  "list",
				Usage: "List entries",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "due",
						Usage: "Only list entries due now",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.EntryList,
			},
			{
				Name:  "show",
				Usage: "Show an entry with its review history",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.EntryShow,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove an entry from the deck",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.EntryRemove,
			},
		},
	}
}

// studyCommand returns the top-level TUI command for an interactive review session.
func studyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "study",
		Aliases: []string{"review", "tui"},
		Usage:   "Review due entries in an interactive TUI",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of cards in the session",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal",
				Value: "./tmp/callouts-tui.log",
			},
		},
		Action: r.Study,
	}
}
