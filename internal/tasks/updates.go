package tasks

import "fmt"

// ProgressUpdate represents a progress event during a migration.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	CreateDest
	MatchTracks
	AddTrack
	SkipTrack
	PlaylistDone
	BatchProgress
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case CreateDest:
		return "create_dest"
	case MatchTracks:
		return "match_tracks"
	case AddTrack:
		return "add_track"
	case SkipTrack:
		return "skip_track"
	case PlaylistDone:
		return "playlist_done"
	case BatchProgress:
		return "batch_progress"
	default:
		return ""
	}
}

func fetchSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching source playlist (%s)...", name),
	}
}

func createDestUpdate(name, destID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateDest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Created playlist: %s (ID: %s)", name, destID),
		Data:    destID,
	}
}

func matchTrackUpdate(step, total int, title, artist string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, artist, title),
	}
}

func addedTrackUpdate(step, total int, title, mediaID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s -> %s", step, total, title, mediaID),
	}
}

func skippedTrackUpdate(step, total int, title, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s (%s)", step, total, title, reason),
	}
}

func playlistDoneUpdate(name string, summary PlaylistResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlaylistDone,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Done: %s (%d added, %d skipped)", name, summary.Added, summary.Skipped),
		Data:    summary,
	}
}

func batchProgressUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchProgress,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Processing playlist %d/%d: %s", step, total, name),
	}
}
