package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/offify/offify/internal/match"
	"github.com/offify/offify/internal/repositories"
	"github.com/offify/offify/internal/services"
	"github.com/offify/offify/internal/shared"
	"github.com/offify/offify/internal/store"
	"github.com/offify/offify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	source services.SourceClient
	dest   services.DestinationClient
	logger *log.Logger
	output io.Writer

	// Built lazily by ensureMigrator so commands that do not touch the state
	// store never open it.
	store    *store.Store
	db       *sql.DB
	migrator *tasks.Migrator
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Source services.SourceClient
	Dest   services.DestinationClient
	Logger *log.Logger
	Output io.Writer
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

	return &Runner{
		config: opts.Config,
		source: opts.Source,
		dest:   opts.Dest,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		migrateCommand, playlistsCommand, storeCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureMigrator builds the migration engine on first use: opens the state
// store (corrupt state aborts here), wires the optional sqlite match cache,
// and constructs the Migrator from config.
func (r *Runner) ensureMigrator() (*tasks.Migrator, error) {
	if r.migrator != nil {
		return r.migrator, nil
	}

	if r.source == nil {
		return nil, fmt.Errorf("%w: Spotify client_id and client_secret must be configured", shared.ErrMissingCredentials)
	}
	if r.dest == nil {
		return nil, fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	st, err := store.Open(r.config.Store.Path)
	if err != nil {
		return nil, err
	}
	r.store = st

	var cache tasks.MatchCache
	if r.config.Database.Path != "" {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			r.logger.Warn("match cache unavailable", "error", err)
		} else if err := shared.RunMigrations(db); err != nil {
			r.logger.Warn("match cache migrations failed", "error", err)
			db.Close()
		} else {
			shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
			r.db = db
			cache = repositories.NewMatchCacheAdapter(repositories.NewMatchRepository(db))
		}
	}

	matching := r.config.Matching
	r.migrator = tasks.NewMigrator(tasks.MigratorOpts{
		Source: r.source,
		Dest:   r.dest,
		Store:  st,
		Cache:  cache,
		Match: match.Config{
			DurationTolerance: matching.DurationTolerance,
			Threshold:         matching.Threshold,
			TitleWeight:       0.5,
			ArtistWeight:      0.5,
		},
		SearchLimit: matching.SearchLimit,
		Delay:       time.Duration(matching.DelaySeconds * float64(time.Second)),
		Privacy:     r.config.Credentials.YouTube.Privacy,
		Description: r.config.Credentials.YouTube.ExtraNote,
		Logger:      r.logger,
	})

	return r.migrator, nil
}

// ensureStore opens the state store without building the full engine.
func (r *Runner) ensureStore() (*store.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	st, err := store.Open(r.config.Store.Path)
	if err != nil {
		return nil, err
	}
	r.store = st
	return st, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
