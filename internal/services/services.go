// package services defines the catalog client interfaces the migration engine depends on
//
// Spotify (source), YouTube Music via proxy (destination)
package services

import (
	"context"
)

// PlaylistSummary describes a playlist as returned by a catalog listing.
type PlaylistSummary struct {
	ID         string
	Name       string
	TrackCount int
}

// PlaylistDetail is a fully fetched source playlist with its tracks in catalog order.
type PlaylistDetail struct {
	Name   string
	Tracks []Track
}

// Track represents a source-catalog track. Immutable once fetched.
type Track struct {
	ID         string
	Title      string
	Artist     string
	DurationMS int
}

// CandidateArtist is one credited artist on a destination search result.
type CandidateArtist struct {
	Name string
	ID   string
}

// Candidate is a destination-catalog search result considered for matching.
// Duration is reported in seconds by the destination catalog.
type Candidate struct {
	MediaID     string
	Title       string
	Artists     []CandidateArtist
	DurationSec int
}

// SourceClient is the read-only interface to the catalog playlists are migrated from.
type SourceClient interface {
	// ListPlaylists retrieves all playlists for the authenticated user, handling pagination internally.
	ListPlaylists(ctx context.Context) ([]PlaylistSummary, error)

	// GetPlaylist retrieves a playlist's name and full track list, handling pagination internally.
	GetPlaylist(ctx context.Context, playlistID string) (*PlaylistDetail, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// DestinationClient is the interface to the catalog playlists are migrated to.
type DestinationClient interface {
	// Search runs a track search and returns ranked candidates.
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)

	// CreatePlaylist creates a playlist and returns its destination identifier.
	CreatePlaylist(ctx context.Context, name, description, privacy string) (string, error)

	// ListPlaylists returns the user's library playlists as a name -> id mapping.
	ListPlaylists(ctx context.Context) (map[string]string, error)

	// GetPlaylistTrackIDs returns the set of media ids currently in a playlist.
	GetPlaylistTrackIDs(ctx context.Context, playlistID string) (map[string]struct{}, error)

	// AddTracks appends media ids to a playlist.
	AddTracks(ctx context.Context, playlistID string, mediaIDs []string) error

	// Name returns the name of the service (e.g., "YouTube Music")
	Name() string
}
