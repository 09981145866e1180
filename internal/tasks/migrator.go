package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/offify/offify/internal/match"
	"github.com/offify/offify/internal/services"
	"github.com/offify/offify/internal/shared"
	"github.com/offify/offify/internal/store"
	"github.com/xrash/smetrics"
	"golang.org/x/time/rate"
)

// duplicateNameScore is the JaroWinkler score above which a destination
// library playlist is reported as a probable duplicate of the one about to be
// created.
const duplicateNameScore = 0.95

// MatchCache is an optional durable cache of accepted matches keyed by source
// track id. Implemented by repositories.MatchCacheAdapter.
type MatchCache interface {
	Lookup(sourceTrackID string) (mediaID string, score float64, ok bool, err error)
	Store(sourceTrackID, mediaID, title, artist string, score float64) error
}

// PlaylistResult summarizes one playlist migration pass.
type PlaylistResult struct {
	SourceID string
	DestID   string
	Name     string
	Total    int // Source tracks considered
	Added    int // Tracks appended to the destination playlist
	Skipped  int // Tracks with no accepted match or failed appends
	Existing int // Tracks already present in the destination playlist
}

// BatchResult summarizes a migrate-all run.
type BatchResult struct {
	RunID     string
	Playlists int
	Migrated  int
	Failed    int
}

// Migrator drives the end-to-end migration workflow. All network calls are
// strictly sequential; a rate limiter throttles destination writes to respect
// third-party limits.
type Migrator struct {
	source  services.SourceClient
	dest    services.DestinationClient
	store   *store.Store
	cache   MatchCache
	match   match.Config
	limit   int
	privacy string
	note    string
	limiter *rate.Limiter
	logger  *log.Logger
}

// MigratorOpts contains configuration options for creating a Migrator.
type MigratorOpts struct {
	Source      services.SourceClient
	Dest        services.DestinationClient
	Store       *store.Store
	Cache       MatchCache // optional, nil disables caching
	Match       match.Config
	SearchLimit int           // Destination search result limit (default 5)
	Delay       time.Duration // Inter-call throttle (default 1s)
	Privacy     string        // Destination playlist visibility (default PRIVATE)
	Description string        // Destination playlist description
	Logger      *log.Logger
}

// NewMigrator creates a Migrator with the provided collaborators.
func NewMigrator(opts MigratorOpts) *Migrator {
	if opts.Match == (match.Config{}) {
		opts.Match = match.DefaultConfig()
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 5
	}
	if opts.Delay == 0 {
		opts.Delay = time.Second
	}
	if opts.Privacy == "" {
		opts.Privacy = "PRIVATE"
	}
	if opts.Description == "" {
		opts.Description = "Migrated from Spotify"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limiter := rate.NewLimiter(rate.Every(opts.Delay), 1)
	if opts.Delay < 0 {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	return &Migrator{
		source:  opts.Source,
		dest:    opts.Dest,
		store:   opts.Store,
		cache:   opts.Cache,
		match:   opts.Match,
		limit:   opts.SearchLimit,
		privacy: opts.Privacy,
		note:    opts.Description,
		limiter: limiter,
		logger:  opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (m *Migrator) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Migrate migrates a single source playlist and returns the destination
// playlist id.
//
// A playlist already in the state store is returned unchanged when
// updateExisting is false; otherwise missing tracks are appended to the
// existing destination playlist. An unknown playlist is fetched, created on
// the destination, and its mapping persisted before any tracks are added so
// an interruption mid-add leaves a resumable mapping.
//
// Per-track failures (no match, failed append) are logged and skipped, never
// fatal. An error return means the overall fetch/create step failed.
func (m *Migrator) Migrate(ctx context.Context, sourceID string, updateExisting bool, progress chan<- ProgressUpdate) (string, error) {
	if entry, ok := m.store.Get(sourceID); ok {
		if !updateExisting {
			m.logger.Info("playlist already migrated", "name", entry.Name, "dest_id", entry.YouTubeID)
			return entry.YouTubeID, nil
		}
		return m.updateExisting(ctx, sourceID, entry, progress)
	}

	return m.migrateNew(ctx, sourceID, progress)
}

// migrateNew fetches a source playlist, creates its destination counterpart,
// persists the mapping, then appends matched tracks.
func (m *Migrator) migrateNew(ctx context.Context, sourceID string, progress chan<- ProgressUpdate) (string, error) {
	m.sendProgress(progress, fetchSourceUpdate(sourceID))

	detail, err := m.source.GetPlaylist(ctx, sourceID)
	if err != nil {
		return "", fmt.Errorf("%w: source playlist %s: %v", shared.ErrFetch, sourceID, err)
	}

	m.warnDuplicateName(ctx, detail.Name)

	destID, err := m.dest.CreatePlaylist(ctx, detail.Name, m.note, m.privacy)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create playlist '%s': %v", shared.ErrAPIRequest, detail.Name, err)
	}

	m.logger.Info("created playlist", "name", detail.Name, "dest_id", destID)
	m.sendProgress(progress, createDestUpdate(detail.Name, destID))

	// Persist the mapping before adding tracks: a crash mid-add must leave a
	// resumable mapping rather than an orphaned destination playlist.
	m.store.Put(sourceID, store.Entry{
		Name:        detail.Name,
		YouTubeID:   destID,
		LastUpdated: store.Now(),
	})
	saveErr := m.store.Save()
	if saveErr != nil {
		m.logger.Error("failed to persist mapping", "source_id", sourceID, "error", saveErr)
	}

	result := m.addMissingTracks(ctx, destID, detail.Tracks, map[string]struct{}{}, progress)
	result.SourceID = sourceID
	result.Name = detail.Name

	m.sendProgress(progress, playlistDoneUpdate(detail.Name, result))
	return destID, saveErr
}

// updateExisting diffs the current source tracks against the destination
// playlist's current contents and appends what is missing.
func (m *Migrator) updateExisting(ctx context.Context, sourceID string, entry store.Entry, progress chan<- ProgressUpdate) (string, error) {
	m.logger.Info("updating existing playlist", "name", entry.Name, "dest_id", entry.YouTubeID)
	m.sendProgress(progress, fetchSourceUpdate(entry.Name))

	detail, err := m.source.GetPlaylist(ctx, sourceID)
	if err != nil {
		return "", fmt.Errorf("%w: source playlist %s: %v", shared.ErrFetch, sourceID, err)
	}

	// Destination contents are fetched fresh on every update pass.
	existing, err := m.dest.GetPlaylistTrackIDs(ctx, entry.YouTubeID)
	if err != nil {
		return "", fmt.Errorf("%w: destination playlist %s: %v", shared.ErrFetch, entry.YouTubeID, err)
	}

	result := m.addMissingTracks(ctx, entry.YouTubeID, detail.Tracks, existing, progress)
	result.SourceID = sourceID
	result.Name = entry.Name

	// The timestamp is only bumped when the pass actually changed the playlist.
	var saveErr error
	if result.Added > 0 {
		m.store.Touch(sourceID)
		saveErr = m.store.Save()
		if saveErr != nil {
			m.logger.Error("failed to persist mapping", "source_id", sourceID, "error", saveErr)
		}
	}

	m.sendProgress(progress, playlistDoneUpdate(entry.Name, result))
	return entry.YouTubeID, saveErr
}

// addMissingTracks matches each source track and appends accepted matches not
// already present in the destination playlist. Tracks are processed strictly
// in source-catalog order.
func (m *Migrator) addMissingTracks(ctx context.Context, destID string, tracks []services.Track, existing map[string]struct{}, progress chan<- ProgressUpdate) PlaylistResult {
	result := PlaylistResult{DestID: destID, Total: len(tracks)}

	for i, track := range tracks {
		m.sendProgress(progress, matchTrackUpdate(i+1, len(tracks), track.Title, track.Artist))

		mediaID, ok := m.resolve(ctx, track)
		if !ok {
			result.Skipped++
			m.sendProgress(progress, skippedTrackUpdate(i+1, len(tracks), track.Title, "no match"))
			continue
		}

		if _, present := existing[mediaID]; present {
			result.Existing++
			continue
		}

		if err := m.dest.AddTracks(ctx, destID, []string{mediaID}); err != nil {
			result.Skipped++
			m.logger.Error("failed to add track", "title", track.Title, "media_id", mediaID, "error", fmt.Errorf("%w: %v", shared.ErrAppend, err))
			m.sendProgress(progress, skippedTrackUpdate(i+1, len(tracks), track.Title, "append failed"))
			continue
		}

		existing[mediaID] = struct{}{}
		result.Added++
		m.logger.Info("added to playlist", "title", track.Title, "media_id", mediaID)
		m.sendProgress(progress, addedTrackUpdate(i+1, len(tracks), track.Title, mediaID))

		if err := m.limiter.Wait(ctx); err != nil {
			m.logger.Warn("throttle interrupted", "error", err)
			return result
		}
	}

	return result
}

// resolve finds the destination media id for a source track, consulting the
// match cache first and falling back to a destination search plus selection.
// Search failures are treated as "no match" for the track.
func (m *Migrator) resolve(ctx context.Context, track services.Track) (string, bool) {
	if m.cache != nil {
		mediaID, score, ok, err := m.cache.Lookup(track.ID)
		if err != nil {
			m.logger.Warn("match cache lookup failed", "track_id", track.ID, "error", err)
		} else if ok {
			m.logger.Debug("match cache hit", "title", track.Title, "media_id", mediaID, "score", score)
			return mediaID, true
		}
	}

	query := fmt.Sprintf("%s %s", track.Artist, track.Title)
	candidates, err := m.dest.Search(ctx, query, m.limit)
	if err != nil {
		m.logger.Warn("search failed", "query", query, "error", fmt.Errorf("%w: %v", shared.ErrSearch, err))
		return "", false
	}

	res := match.Select(track, candidates, m.match)
	if !res.Accepted() {
		m.logger.Warn("no good match found", "title", track.Title, "artist", track.Artist, "reason", res.Reason.String())
		return "", false
	}

	if m.cache != nil {
		if err := m.cache.Store(track.ID, res.MediaID, track.Title, track.Artist, res.Score); err != nil {
			m.logger.Warn("match cache store failed", "track_id", track.ID, "error", err)
		}
	}

	return res.MediaID, true
}

// warnDuplicateName checks the destination library for a playlist whose name
// closely resembles the one about to be created and logs a warning. Listing
// failures are ignored; this is advisory only.
func (m *Migrator) warnDuplicateName(ctx context.Context, name string) {
	playlists, err := m.dest.ListPlaylists(ctx)
	if err != nil {
		m.logger.Debug("failed to list destination playlists", "error", err)
		return
	}

	lowered := strings.ToLower(name)
	for existing := range playlists {
		if smetrics.JaroWinkler(lowered, strings.ToLower(existing), 0.7, 4) > duplicateNameScore {
			m.logger.Warn("destination already has a similarly named playlist", "name", name, "existing", existing, "dest_id", playlists[existing])
			return
		}
	}
}

// MigrateAll migrates every source playlist sequentially. Per-playlist
// failures are logged and skipped so one bad playlist cannot abort the batch.
func (m *Migrator) MigrateAll(ctx context.Context, updateExisting bool, progress chan<- ProgressUpdate) (*BatchResult, error) {
	result := &BatchResult{RunID: shared.GenerateID()}
	logger := m.logger.With("run_id", result.RunID)

	playlists, err := m.source.ListPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list source playlists: %v", shared.ErrFetch, err)
	}

	result.Playlists = len(playlists)

	for i, pl := range playlists {
		logger.Info("processing playlist", "step", fmt.Sprintf("%d/%d", i+1, len(playlists)), "name", pl.Name)
		m.sendProgress(progress, batchProgressUpdate(i+1, len(playlists), pl.Name))

		if _, err := m.Migrate(ctx, pl.ID, updateExisting, progress); err != nil {
			result.Failed++
			logger.Error("migration failed", "playlist_id", pl.ID, "name", pl.Name, "error", err)
		} else {
			result.Migrated++
		}

		if err := m.limiter.Wait(ctx); err != nil {
			logger.Warn("throttle interrupted", "error", err)
			return result, nil
		}
	}

	return result, nil
}
