// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// migrateCommand runs the migration for one playlist or all playlists.
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Migrate playlists from Spotify to YouTube Music",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "playlist-id",
				Usage: "Spotify playlist ID to migrate",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Migrate all playlists",
			},
			&cli.BoolFlag{
				Name:  "no-update",
				Usage: "Skip updating already-migrated playlists",
			},
		},
		Action: r.Migrate,
	}
}

// playlistsCommand lists playlists on either catalog.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "service",
				Usage: "Catalog to list (spotify or youtube)",
				Value: "spotify",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Playlists,
	}
}

// storeCommand inspects the migration state store.
func storeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "store",
		Usage: "Migration state store operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the playlist mapping",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.StoreShow,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the match cache.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a default config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Path for the configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the match cache database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive migration.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Run a migration with a live progress view",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "playlist-id",
				Usage: "Spotify playlist ID to migrate",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Migrate all playlists",
			},
			&cli.BoolFlag{
				Name:  "no-update",
				Usage: "Skip updating already-migrated playlists",
			},
		},
		Action: r.TUI,
	}
}
