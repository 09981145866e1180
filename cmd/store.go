package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// StoreShow prints the persisted playlist mapping.
func (r *Runner) StoreShow(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")

	st, err := r.ensureStore()
	if err != nil {
		return err
	}

	entries := st.Entries()
	if len(entries) == 0 {
		r.writePlain("No playlists migrated yet (%s)\n", st.Path())
		return nil
	}

	return r.writeJSON(entries, pretty)
}
