// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// discoverCommand runs the discovery pipeline
func discoverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "discover",
		Usage: "Query discovery sources and store scored candidates",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Maximum candidates to request per source",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the discovery report as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Discover,
	}
}

// curateCommand builds a playlist from stored candidates
func curateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "curate",
		Usage: "Rank stored candidates and assemble a playlist",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of tracks to select",
				Value:   25,
			},
			&cli.FloatFlag{
				Name:  "min-score",
				Usage: "Minimum style-compatibility score",
				Value: 0.6,
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Playlist name (default: profile name + date)",
			},
			&cli.BoolFlag{
				Name:  "flow",
				Usage: "Reorder the selected tracks by tempo",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format after curation (rekordbox, m3u, txt, csv, usb)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export directory (default: config export.directory)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the curation report as JSON",
			},
		},
		Action: r.Curate,
	}
}

// tracksCommand lists stored candidates
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List stored candidates above a score threshold",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "min-score",
				Usage: "Minimum style-compatibility score",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum rows to display",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Tracks,
	}
}

// statsCommand shows database statistics
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show candidate and playlist statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Stats,
	}
}

// exportCommand re-exports a stored playlist
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a stored playlist for DJ hardware or players",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Playlist ID to export (default: most recent)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format (rekordbox, m3u, txt, csv, usb)",
				Value: "usb",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export directory (default: config export.directory)",
			},
		},
		Action: r.Export,
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
