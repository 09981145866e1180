package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Migration errors, downgraded to warnings at the playlist or track boundary
	ErrFetch  = fmt.Errorf("fetch failed")
	ErrSearch = fmt.Errorf("search failed")
	ErrAppend = fmt.Errorf("failed to add tracks")

	// State store errors
	ErrStateCorrupt = fmt.Errorf("migration state corrupt")
	ErrStateSave    = fmt.Errorf("failed to persist migration state")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
