package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/offify/offify/internal/services"
	"github.com/offify/offify/internal/store"
)

type mockSource struct {
	playlists   []services.PlaylistSummary
	details     map[string]*services.PlaylistDetail
	detailErrs  map[string]error
	listErr     error
	listCalls   int
	detailCalls int
}

func (m *mockSource) Name() string { return "mock-source" }

func (m *mockSource) ListPlaylists(ctx context.Context) ([]services.PlaylistSummary, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.playlists, nil
}

func (m *mockSource) GetPlaylist(ctx context.Context, playlistID string) (*services.PlaylistDetail, error) {
	m.detailCalls++
	if err, ok := m.detailErrs[playlistID]; ok {
		return nil, err
	}
	if detail, ok := m.details[playlistID]; ok {
		return detail, nil
	}
	return nil, fmt.Errorf("playlist not found")
}

type mockDest struct {
	searchResults map[string][]services.Candidate
	searchErr     error
	searchCalls   int

	library    map[string]string
	createErr  error
	created    []string
	nextDestID int

	trackIDs map[string]map[string]struct{}

	added    map[string][]string
	addErr   error
	addCalls int
}

func newMockDest() *mockDest {
	return &mockDest{
		searchResults: map[string][]services.Candidate{},
		library:       map[string]string{},
		trackIDs:      map[string]map[string]struct{}{},
		added:         map[string][]string{},
	}
}

func (m *mockDest) Name() string { return "mock-dest" }

func (m *mockDest) Search(ctx context.Context, query string, limit int) ([]services.Candidate, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults[query], nil
}

func (m *mockDest) CreatePlaylist(ctx context.Context, name, description, privacy string) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.nextDestID++
	id := fmt.Sprintf("yt%d", m.nextDestID)
	m.created = append(m.created, name)
	m.library[name] = id
	return id, nil
}

func (m *mockDest) ListPlaylists(ctx context.Context) (map[string]string, error) {
	return m.library, nil
}

func (m *mockDest) GetPlaylistTrackIDs(ctx context.Context, playlistID string) (map[string]struct{}, error) {
	ids := map[string]struct{}{}
	for id := range m.trackIDs[playlistID] {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (m *mockDest) AddTracks(ctx context.Context, playlistID string, mediaIDs []string) error {
	m.addCalls++
	if m.addErr != nil {
		return m.addErr
	}
	m.added[playlistID] = append(m.added[playlistID], mediaIDs...)
	return nil
}

type memoryCache struct {
	entries map[string]string
	stored  int
	lookups int
}

func (c *memoryCache) Lookup(sourceTrackID string) (string, float64, bool, error) {
	c.lookups++
	id, ok := c.entries[sourceTrackID]
	return id, 1.0, ok, nil
}

func (c *memoryCache) Store(sourceTrackID, mediaID, title, artist string, score float64) error {
	c.stored++
	c.entries[sourceTrackID] = mediaID
	return nil
}

func track(id, title, artist string, durationMS int) services.Track {
	return services.Track{ID: id, Title: title, Artist: artist, DurationMS: durationMS}
}

func exactCandidate(mediaID string, t services.Track) services.Candidate {
	return services.Candidate{
		MediaID:     mediaID,
		Title:       t.Title,
		Artists:     []services.CandidateArtist{{Name: t.Artist}},
		DurationSec: t.DurationMS / 1000,
	}
}

func query(t services.Track) string {
	return fmt.Sprintf("%s %s", t.Artist, t.Title)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "playlists_store.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newTestMigrator(t *testing.T, source *mockSource, dest *mockDest, st *store.Store, cache MatchCache) *Migrator {
	t.Helper()
	return NewMigrator(MigratorOpts{
		Source: source,
		Dest:   dest,
		Store:  st,
		Cache:  cache,
		Delay:  -1, // no throttling in tests
	})
}

func TestMigrateCreatesNewPlaylist(t *testing.T) {
	t1 := track("sp-t1", "Yesterday", "The Beatles", 125000)
	t2 := track("sp-t2", "Hey Jude", "The Beatles", 431000)

	source := &mockSource{
		details: map[string]*services.PlaylistDetail{
			"sp1": {Name: "Road Trip", Tracks: []services.Track{t1, t2}},
		},
	}
	dest := newMockDest()
	dest.searchResults[query(t1)] = []services.Candidate{exactCandidate("v1", t1)}
	dest.searchResults[query(t2)] = []services.Candidate{exactCandidate("v2", t2)}

	st := newTestStore(t)
	m := newTestMigrator(t, source, dest, st, nil)

	destID, err := m.Migrate(context.Background(), "sp1", true, nil)
	if err != nil {
		t.Fatalf("Migrate() returned error: %v", err)
	}
	if destID != "yt1" {
		t.Errorf("Migrate() = %q, want yt1", destID)
	}

	if len(dest.created) != 1 || dest.created[0] != "Road Trip" {
		t.Errorf("created playlists = %v, want [Road Trip]", dest.created)
	}

	// Tracks appended in source-catalog order.
	want := []string{"v1", "v2"}
	got := dest.added["yt1"]
	if len(got) != len(want) {
		t.Fatalf("added tracks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("added[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	entry, ok := st.Get("sp1")
	if !ok {
		t.Fatal("mapping not recorded in state store")
	}
	if entry.YouTubeID != "yt1" || entry.Name != "Road Trip" {
		t.Errorf("mapping = %+v, unexpected entry", entry)
	}
	if entry.LastUpdated == 0 {
		t.Error("mapping has zero last_updated")
	}

	// Mapping was persisted, a reload sees it.
	reloaded, err := store.Open(st.Path())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reloaded.Get("sp1"); !ok {
		t.Error("mapping not persisted to disk")
	}
}

func TestMigrateIdempotentWithoutUpdate(t *testing.T) {
	source := &mockSource{details: map[string]*services.PlaylistDetail{}}
	dest := newMockDest()

	st := newTestStore(t)
	st.Put("sp1", store.Entry{Name: "Road Trip", YouTubeID: "yt9", LastUpdated: 1})

	m := newTestMigrator(t, source, dest, st, nil)

	for i := 0; i < 2; i++ {
		destID, err := m.Migrate(context.Background(), "sp1", false, nil)
		if err != nil {
			t.Fatalf("Migrate() #%d returned error: %v", i+1, err)
		}
		if destID != "yt9" {
			t.Errorf("Migrate() #%d = %q, want yt9", i+1, destID)
		}
	}

	if dest.addCalls != 0 || dest.searchCalls != 0 || len(dest.created) != 0 {
		t.Errorf("destination touched on no-update path: adds=%d searches=%d creates=%d",
			dest.addCalls, dest.searchCalls, len(dest.created))
	}
	if source.detailCalls != 0 {
		t.Errorf("source fetched on no-update path: %d calls", source.detailCalls)
	}
}

func TestMigrateUpdateNeverReAddsExistingTracks(t *testing.T) {
	t1 := track("sp-t1", "Yesterday", "The Beatles", 125000)
	t2 := track("sp-t2", "Hey Jude", "The Beatles", 431000)

	source := &mockSource{
		details: map[string]*services.PlaylistDetail{
			"sp1": {Name: "Road Trip", Tracks: []services.Track{t1, t2}},
		},
	}
	dest := newMockDest()
	dest.searchResults[query(t1)] = []services.Candidate{exactCandidate("v1", t1)}
	dest.searchResults[query(t2)] = []services.Candidate{exactCandidate("v2", t2)}
	dest.trackIDs["yt9"] = map[string]struct{}{"v1": {}}

	st := newTestStore(t)
	st.Put("sp1", store.Entry{Name: "Road Trip", YouTubeID: "yt9", LastUpdated: 1})

	m := newTestMigrator(t, source, dest, st, nil)

	destID, err := m.Migrate(context.Background(), "sp1", true, nil)
	if err != nil {
		t.Fatalf("Migrate() returned error: %v", err)
	}
	if destID != "yt9" {
		t.Errorf("Migrate() = %q, want yt9", destID)
	}

	got := dest.added["yt9"]
	if len(got) != 1 || got[0] != "v2" {
		t.Errorf("added tracks = %v, want [v2]", got)
	}

	entry, _ := st.Get("sp1")
	if entry.LastUpdated <= 1 {
		t.Error("last_updated not bumped after adding tracks")
	}
}

func TestMigrateUpdateNoChangesKeepsTimestamp(t *testing.T) {
	t1 := track("sp-t1", "Yesterday", "The Beatles", 125000)

	source := &mockSource{
		details: map[string]*services.PlaylistDetail{
			"sp1": {Name: "Road Trip", Tracks: []services.Track{t1}},
		},
	}
	dest := newMockDest()
	dest.searchResults[query(t1)] = []services.Candidate{exactCandidate("v1", t1)}
	dest.trackIDs["yt9"] = map[string]struct{}{"v1": {}}

	st := newTestStore(t)
	st.Put("sp1", store.Entry{Name: "Road Trip", YouTubeID: "yt9", LastUpdated: 42})

	m := newTestMigrator(t, source, dest, st, nil)

	if _, err := m.Migrate(context.Background(), "sp1", true, nil); err != nil {
		t.Fatalf("Migrate() returned error: %v", err)
	}

	entry, _ := st.Get("sp1")
	if entry.LastUpdated != 42 {
		t.Errorf("last_updated = %v, want unchanged 42", entry.LastUpdated)
	}
}

func TestMigrateSearchFailureSkipsTrack(t *testing.T) {
	t1 := track("sp-t1", "Yesterday", "The Beatles", 125000)

	source := &mockSource{
		details: map[string]*services.PlaylistDetail{
			"sp1": {Name: "Road Trip", Tracks: []services.Track{t1}},
		},
	}
	dest := newMockDest()
	dest.searchErr = fmt.Errorf("proxy unavailable")

	st := newTestStore(t)
	m := newTestMigrator(t, source, dest, st, nil)

	destID, err := m.Migrate(context.Background(), "sp1", true, nil)
	if err != nil {
		t.Fatalf("Migrate() returned error on search failure: %v", err)
	}
	if destID == "" {
		t.Fatal("Migrate() returned empty destination id")
	}
	if dest.addCalls != 0 {
		t.Errorf("tracks added despite search failure: %d", dest.addCalls)
	}
}

func TestMigrateAppendFailureContinues(t *testing.T) {
	t1 := track("sp-t1", "Yesterday", "The Beatles", 125000)

	source := &mockSource{
		details: map[string]*services.PlaylistDetail{
			"sp1": {Name: "Road Trip", Tracks: []services.Track{t1}},
		},
	}
	dest := newMockDest()
	dest.searchResults[query(t1)] = []services.Candidate{exactCandidate("v1", t1)}
	dest.addErr = fmt.Errorf("quota exceeded")

	st := newTestStore(t)
	m := newTestMigrator(t, source, dest, st, nil)

	destID, err := m.Migrate(context.Background(), "sp1", true, nil)
	if err != nil {
		t.Fatalf("Migrate() returned error on append failure: %v", err)
	}
	if destID != "yt1" {
		t.Errorf("Migrate() = %q, want yt1", destID)
	}
	if _, ok := st.Get("sp1"); !ok {
		t.Error("mapping missing after append failure")
	}
}

func TestMigrateFetchFailureReturnsError(t *testing.T) {
	source := &mockSource{
		detailErrs: map[string]error{"sp1": fmt.Errorf("rate limited")},
	}
	dest := newMockDest()

	st := newTestStore(t)
	m := newTestMigrator(t, source, dest, st, nil)

	if _, err := m.Migrate(context.Background(), "sp1", true, nil); err == nil {
		t.Fatal("Migrate() returned nil error on source fetch failure")
	}
	if len(dest.created) != 0 {
		t.Error("destination playlist created despite fetch failure")
	}
}

func TestMigrateAllContinuesPastFailure(t *testing.T) {
	t1 := track("sp-t1", "Yesterday", "The Beatles", 125000)
	t3 := track("sp-t3", "Let It Be", "The Beatles", 243000)

	source := &mockSource{
		playlists: []services.PlaylistSummary{
			{ID: "sp1", Name: "First", TrackCount: 1},
			{ID: "sp2", Name: "Broken", TrackCount: 1},
			{ID: "sp3", Name: "Third", TrackCount: 1},
		},
		details: map[string]*services.PlaylistDetail{
			"sp1": {Name: "First", Tracks: []services.Track{t1}},
			"sp3": {Name: "Third", Tracks: []services.Track{t3}},
		},
		detailErrs: map[string]error{"sp2": fmt.Errorf("fetch failed")},
	}
	dest := newMockDest()
	dest.searchResults[query(t1)] = []services.Candidate{exactCandidate("v1", t1)}
	dest.searchResults[query(t3)] = []services.Candidate{exactCandidate("v3", t3)}

	st := newTestStore(t)
	m := newTestMigrator(t, source, dest, st, nil)

	result, err := m.MigrateAll(context.Background(), true, nil)
	if err != nil {
		t.Fatalf("MigrateAll() returned error: %v", err)
	}

	if result.Playlists != 3 || result.Migrated != 2 || result.Failed != 1 {
		t.Errorf("MigrateAll() = %+v, want 3 playlists, 2 migrated, 1 failed", result)
	}

	if len(dest.created) != 2 {
		t.Fatalf("created playlists = %v, want 2", dest.created)
	}
	if dest.created[0] != "First" || dest.created[1] != "Third" {
		t.Errorf("created playlists = %v, want [First Third]", dest.created)
	}
}

func TestMigrateAllListFailureIsFatal(t *testing.T) {
	source := &mockSource{listErr: fmt.Errorf("unauthorized")}
	dest := newMockDest()

	st := newTestStore(t)
	m := newTestMigrator(t, source, dest, st, nil)

	if _, err := m.MigrateAll(context.Background(), true, nil); err == nil {
		t.Fatal("MigrateAll() returned nil error when listing failed")
	}
}

func TestMigrateUsesMatchCache(t *testing.T) {
	t1 := track("sp-t1", "Yesterday", "The Beatles", 125000)

	source := &mockSource{
		details: map[string]*services.PlaylistDetail{
			"sp1": {Name: "Road Trip", Tracks: []services.Track{t1}},
		},
	}
	dest := newMockDest()
	cache := &memoryCache{entries: map[string]string{"sp-t1": "v1"}}

	st := newTestStore(t)
	m := newTestMigrator(t, source, dest, st, cache)

	if _, err := m.Migrate(context.Background(), "sp1", true, nil); err != nil {
		t.Fatalf("Migrate() returned error: %v", err)
	}

	if dest.searchCalls != 0 {
		t.Errorf("search called %d times despite cache hit", dest.searchCalls)
	}
	got := dest.added["yt1"]
	if len(got) != 1 || got[0] != "v1" {
		t.Errorf("added tracks = %v, want [v1]", got)
	}
}

func TestMigrateStoresAcceptedMatchesInCache(t *testing.T) {
	t1 := track("sp-t1", "Yesterday", "The Beatles", 125000)

	source := &mockSource{
		details: map[string]*services.PlaylistDetail{
			"sp1": {Name: "Road Trip", Tracks: []services.Track{t1}},
		},
	}
	dest := newMockDest()
	dest.searchResults[query(t1)] = []services.Candidate{exactCandidate("v1", t1)}
	cache := &memoryCache{entries: map[string]string{}}

	st := newTestStore(t)
	m := newTestMigrator(t, source, dest, st, cache)

	if _, err := m.Migrate(context.Background(), "sp1", true, nil); err != nil {
		t.Fatalf("Migrate() returned error: %v", err)
	}

	if cache.stored != 1 || cache.entries["sp-t1"] != "v1" {
		t.Errorf("cache = %+v, want sp-t1 -> v1", cache.entries)
	}
}

func TestMigrateEmitsProgress(t *testing.T) {
	t1 := track("sp-t1", "Yesterday", "The Beatles", 125000)

	source := &mockSource{
		details: map[string]*services.PlaylistDetail{
			"sp1": {Name: "Road Trip", Tracks: []services.Track{t1}},
		},
	}
	dest := newMockDest()
	dest.searchResults[query(t1)] = []services.Candidate{exactCandidate("v1", t1)}

	st := newTestStore(t)
	m := newTestMigrator(t, source, dest, st, nil)

	progress := make(chan ProgressUpdate, 50)
	if _, err := m.Migrate(context.Background(), "sp1", true, progress); err != nil {
		t.Fatalf("Migrate() returned error: %v", err)
	}
	close(progress)

	phases := map[Phase]bool{}
	for update := range progress {
		phases[update.Phase] = true
	}

	for _, want := range []Phase{FetchSource, CreateDest, MatchTracks, AddTrack, PlaylistDone} {
		if !phases[want] {
			t.Errorf("no progress update with phase %v", want)
		}
	}
}
