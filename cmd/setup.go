package main

import (
	"context"
	"fmt"

	"github.com/offify/offify/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a default config.toml.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Wrote %s\n", path)
	r.writePlain("Edit it to add your Spotify credentials and YouTube Music proxy settings.\n")
	return nil
}

// SetupDatabase initializes the match cache database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	if path == "" {
		return fmt.Errorf("%w: database path not configured", shared.ErrInvalidConfig)
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	r.writePlain("✓ Database initialized at %s\n", path)
	return nil
}
