// package store implements the durable migration state store.
//
// The store maps source playlist ids to the destination playlists they were
// migrated to. It is the sole source of truth for create-vs-update decisions:
// a playlist id present in the store is updated, an absent one is created.
//
// On-disk layout (backward-readable with stores written by earlier versions,
// unknown extra fields are ignored):
//
//	{"playlists": {"<sourceId>": {"name": ..., "youtube_id": ..., "last_updated": ...}}}
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/offify/offify/internal/shared"
)

// Entry records where a source playlist was migrated to.
type Entry struct {
	Name        string  `json:"name"`
	YouTubeID   string  `json:"youtube_id"`
	LastUpdated float64 `json:"last_updated"` // epoch seconds
}

type document struct {
	Playlists map[string]Entry `json:"playlists"`
}

// Store wraps the playlist mapping with an explicit load/save lifecycle.
// Get and Put operate on the in-memory mapping only; callers must Save to persist.
//
// Not safe for concurrent use; the migration workflow is single-threaded.
type Store struct {
	path      string
	playlists map[string]Entry
}

// Open loads the store from path. A missing file yields an empty store,
// malformed content is an error: the system cannot safely guess playlist
// mappings, so corruption must abort initialization.
func Open(path string) (*Store, error) {
	s := &Store{
		path:      path,
		playlists: make(map[string]Entry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state store: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrStateCorrupt, path, err)
	}

	if doc.Playlists != nil {
		s.playlists = doc.Playlists
	}

	return s, nil
}

// Get returns the entry for a source playlist id.
func (s *Store) Get(sourceID string) (Entry, bool) {
	entry, ok := s.playlists[sourceID]
	return entry, ok
}

// Put records an entry for a source playlist id in memory.
func (s *Store) Put(sourceID string, entry Entry) {
	s.playlists[sourceID] = entry
}

// Touch bumps the last-updated timestamp of an existing entry in memory.
func (s *Store) Touch(sourceID string) {
	if entry, ok := s.playlists[sourceID]; ok {
		entry.LastUpdated = Now()
		s.playlists[sourceID] = entry
	}
}

// Len returns the number of mapped playlists.
func (s *Store) Len() int {
	return len(s.playlists)
}

// Entries returns a copy of the playlist mapping.
func (s *Store) Entries() map[string]Entry {
	entries := make(map[string]Entry, len(s.playlists))
	for id, entry := range s.playlists {
		entries[id] = entry
	}
	return entries
}

// Path returns the on-disk location of the store.
func (s *Store) Path() string {
	return s.path
}

// Save persists the whole mapping, overwriting previous state. The document
// is written to a temp file and renamed so a concurrent Open never observes a
// partial write.
func (s *Store) Save() error {
	doc := document{Playlists: s.playlists}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStateSave, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".playlists_store-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStateSave, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", shared.ErrStateSave, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", shared.ErrStateSave, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", shared.ErrStateSave, err)
	}

	return nil
}

// Now returns the current time as epoch seconds, the timestamp format used
// for Entry.LastUpdated.
func Now() float64 {
	return float64(time.Now().UnixMilli()) / 1000.0
}
