// package match implements fuzzy track matching between catalogs.
//
// A source track is matched against ranked destination search candidates by
// filtering on duration, scoring title and artist similarity, and accepting
// the best candidate above a threshold.
package match

import (
	"github.com/offify/offify/internal/services"
)

// Reason explains why a selection was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoResults
	ReasonBelowThreshold
	ReasonInvalidDuration
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonNoResults:
		return "no_results"
	case ReasonBelowThreshold:
		return "below_threshold"
	case ReasonInvalidDuration:
		return "invalid_duration"
	default:
		return "unknown"
	}
}

// Result is the outcome of selecting a candidate for a source track.
// Either an accepted match (MediaID + Score) or a rejection with a Reason.
type Result struct {
	MediaID string
	Score   float64
	Reason  Reason
}

// Accepted reports whether the result carries an accepted match.
func (r Result) Accepted() bool {
	return r.Reason == ReasonNone
}

// Config holds the tunable matching parameters.
type Config struct {
	DurationTolerance float64 // Relative duration difference allowed (0.15 = 15%)
	Threshold         float64 // Minimum combined score for acceptance, exclusive
	TitleWeight       float64
	ArtistWeight      float64
}

// DefaultConfig returns the matching parameters used in production:
// 15% duration tolerance, 0.6 acceptance threshold, equal title/artist weights.
func DefaultConfig() Config {
	return Config{
		DurationTolerance: 0.15,
		Threshold:         0.6,
		TitleWeight:       0.5,
		ArtistWeight:      0.5,
	}
}

// Select picks the best candidate for a track, or rejects with a reason.
//
// Candidates whose duration differs from the track by more than the tolerance
// are discarded, as are candidates missing a title, artist list, or duration.
// Survivors are scored on title and artist similarity; the strictly highest
// combined score wins, so equal scores keep the first-seen candidate. The
// best candidate is accepted only when its score exceeds the threshold.
//
// A track duration of zero rejects every candidate (no valid denominator for
// the relative duration comparison).
func Select(track services.Track, candidates []services.Candidate, cfg Config) Result {
	if len(candidates) == 0 {
		return Result{Reason: ReasonNoResults}
	}
	if track.DurationMS <= 0 {
		return Result{Reason: ReasonInvalidDuration}
	}

	var best *services.Candidate
	bestScore := 0.0

	for i := range candidates {
		c := &candidates[i]

		if c.Title == "" || len(c.Artists) == 0 || c.DurationSec <= 0 {
			continue
		}

		candidateMS := c.DurationSec * 1000
		diff := candidateMS - track.DurationMS
		if diff < 0 {
			diff = -diff
		}
		if float64(diff)/float64(track.DurationMS) > cfg.DurationTolerance {
			continue
		}

		titleScore := Ratio(track.Title, c.Title)
		artistScore := 0.0
		for _, artist := range c.Artists {
			if score := Ratio(track.Artist, artist.Name); score > artistScore {
				artistScore = score
			}
		}

		combined := cfg.TitleWeight*titleScore + cfg.ArtistWeight*artistScore
		if combined > bestScore {
			bestScore = combined
			best = c
		}
	}

	if best == nil || bestScore <= cfg.Threshold {
		return Result{Reason: ReasonBelowThreshold, Score: bestScore}
	}

	return Result{MediaID: best.MediaID, Score: bestScore}
}
