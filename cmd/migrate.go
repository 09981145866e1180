package main

import (
	"context"
	"fmt"

	"github.com/offify/offify/internal/shared"
	"github.com/offify/offify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// validateMigrateFlags enforces that exactly one of --all and --playlist-id
// is supplied.
func validateMigrateFlags(all bool, playlistID string) error {
	if all && playlistID != "" {
		return fmt.Errorf("%w: --all and --playlist-id are mutually exclusive", shared.ErrInvalidFlag)
	}
	if !all && playlistID == "" {
		return fmt.Errorf("%w: one of --all or --playlist-id is required", shared.ErrInvalidFlag)
	}
	return nil
}

// Migrate runs the migration for one playlist or for all playlists.
//
// Per-track and per-playlist failures are logged without affecting the exit
// code; only initialization failures (missing credentials, corrupt state
// store, bad flags) return an error.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	all := cmd.Bool("all")
	playlistID := cmd.String("playlist-id")
	update := !cmd.Bool("no-update")

	if err := validateMigrateFlags(all, playlistID); err != nil {
		return err
	}

	migrator, err := r.ensureMigrator()
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.CreateDest:
				r.writePlain("📝 %s\n", update.Message)
			case tasks.AddTrack, tasks.SkipTrack:
				r.writePlain("   %s\n", update.Message)
			case tasks.BatchProgress:
				r.writePlain("\n🎵 %s\n", update.Message)
			case tasks.PlaylistDone:
				r.writePlain("✓ %s\n", update.Message)
			}
		}
	}()

	if all {
		result, err := migrator.MigrateAll(ctx, update, progressCh)
		close(progressCh)
		<-drained

		if err != nil {
			// The batch never started; the state store is untouched.
			r.logger.Error("migration aborted", "error", err)
			return nil
		}

		r.writePlain("\n")
		r.writePlainHeader("Migration Complete")
		r.writePlain("Playlists: %d  Migrated: %d  Failed: %d\n", result.Playlists, result.Migrated, result.Failed)
		return nil
	}

	destID, err := migrator.Migrate(ctx, playlistID, update, progressCh)
	close(progressCh)
	<-drained

	if err != nil {
		r.logger.Error("migration failed", "playlist_id", playlistID, "error", err)
		if destID == "" {
			return nil
		}
	}

	r.writePlain("\n")
	r.writePlainHeader("Migration Complete")
	r.writePlain("Destination playlist: %s\n", destID)
	return nil
}
