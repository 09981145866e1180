package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/offify/offify/internal/tasks"
	"github.com/offify/offify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI runs a migration with a live progress view.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
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
	done := make(chan error, 1)

	go func() {
		var runErr error
		if all {
			_, runErr = migrator.MigrateAll(ctx, update, progressCh)
		} else {
			_, runErr = migrator.Migrate(ctx, playlistID, update, progressCh)
		}
		close(progressCh)
		done <- runErr
	}()

	title := "offify: Spotify -> YouTube Music"
	model := ui.NewModel(title, progressCh, done)

	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}
