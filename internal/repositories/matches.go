// package repositories provides the persistence layer for the match cache.
//
// Accepted matches are cached in SQLite so update passes can skip searching
// the destination catalog for tracks that were already resolved.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/offify/offify/internal/shared"
)

// CachedMatch is a persisted accepted match for a single source track.
type CachedMatch struct {
	ID            string
	SourceTrackID string
	MediaID       string
	Title         string
	Artist        string
	Score         float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MatchRepository handles CRUD operations for cached matches.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new MatchRepository with the given database connection
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Put inserts or updates the cached match for a source track.
func (r *MatchRepository) Put(sourceTrackID, mediaID, title, artist string, score float64) error {
	now := time.Now().UTC()

	query := `
		INSERT INTO matches (id, source_track_id, media_id, title, artist, score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_track_id) DO UPDATE SET
			media_id = excluded.media_id,
			title = excluded.title,
			artist = excluded.artist,
			score = excluded.score,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, shared.GenerateID(), sourceTrackID, mediaID, title, artist, score, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	return nil
}

// GetBySourceTrackID retrieves the cached match for a source track.
// Returns (nil, nil) when no match has been cached.
func (r *MatchRepository) GetBySourceTrackID(sourceTrackID string) (*CachedMatch, error) {
	query := `
		SELECT id, source_track_id, media_id, title, artist, score, created_at, updated_at
		FROM matches
		WHERE source_track_id = ?
	`

	var m CachedMatch
	err := r.db.QueryRow(query, sourceTrackID).Scan(
		&m.ID,
		&m.SourceTrackID,
		&m.MediaID,
		&m.Title,
		&m.Artist,
		&m.Score,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query match: %w", err)
	}

	return &m, nil
}

// Delete removes the cached match for a source track.
func (r *MatchRepository) Delete(sourceTrackID string) error {
	if _, err := r.db.Exec("DELETE FROM matches WHERE source_track_id = ?", sourceTrackID); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return nil
}

// List retrieves all cached matches ordered by creation time.
func (r *MatchRepository) List() ([]CachedMatch, error) {
	query := `
		SELECT id, source_track_id, media_id, title, artist, score, created_at, updated_at
		FROM matches
		ORDER BY created_at
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []CachedMatch
	for rows.Next() {
		var m CachedMatch
		if err := rows.Scan(&m.ID, &m.SourceTrackID, &m.MediaID, &m.Title, &m.Artist, &m.Score, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// MatchCacheAdapter exposes MatchRepository through the lookup/store interface
// the migration engine consumes.
type MatchCacheAdapter struct {
	repo *MatchRepository
}

// NewMatchCacheAdapter creates a new MatchCacheAdapter with the given repository
func NewMatchCacheAdapter(repo *MatchRepository) *MatchCacheAdapter {
	return &MatchCacheAdapter{repo: repo}
}

// Lookup returns the cached media id and score for a source track,
// or ok=false when the track has not been resolved before.
func (a *MatchCacheAdapter) Lookup(sourceTrackID string) (string, float64, bool, error) {
	m, err := a.repo.GetBySourceTrackID(sourceTrackID)
	if err != nil {
		return "", 0, false, err
	}
	if m == nil {
		return "", 0, false, nil
	}
	return m.MediaID, m.Score, true, nil
}

// Store caches an accepted match.
func (a *MatchCacheAdapter) Store(sourceTrackID, mediaID, title, artist string, score float64) error {
	return a.repo.Put(sourceTrackID, mediaID, title, artist, score)
}
