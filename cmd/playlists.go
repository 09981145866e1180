package main

import (
	"context"
	"fmt"

	"github.com/offify/offify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists playlists on the requested catalog.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	service := cmd.String("service")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	switch service {
	case "spotify":
		return r.sourcePlaylists(ctx, useJSON, pretty)
	case "youtube", "ytmusic":
		return r.destPlaylists(ctx, useJSON, pretty)
	default:
		return fmt.Errorf("%w: invalid service '%s' (must be 'spotify' or 'youtube')", shared.ErrInvalidArgument, service)
	}
}

func (r *Runner) sourcePlaylists(ctx context.Context, useJSON, pretty bool) error {
	if r.source == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("listing source playlists")

	playlists, err := r.source.ListPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("%s Playlists (%d)", r.source.Name(), len(playlists)))
	for _, pl := range playlists {
		r.writePlain("%s  %s (%d tracks)\n", pl.ID, pl.Name, pl.TrackCount)
	}

	return nil
}

func (r *Runner) destPlaylists(ctx context.Context, useJSON, pretty bool) error {
	if r.dest == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("listing destination playlists")

	playlists, err := r.dest.ListPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("%s Playlists (%d)", r.dest.Name(), len(playlists)))
	for name, id := range playlists {
		r.writePlain("%s  %s\n", id, name)
	}

	return nil
}
