package normalize

import (
	"strings"

	"totsuki/internal/grocery"
)

// DefaultMatchThreshold is the minimum similarity for a receipt item to
// be considered the same thing as an existing pantry item.
const DefaultMatchThreshold = 0.6

// Candidate is the slice of a pantry item the matcher needs. Canonical
// names are assumed to be pre-normalized; display names are normalized
// on the fly.
type Candidate struct {
	ID            int64
	Name          string
	CanonicalName string
	Category      grocery.Category
}

// Match is a candidate annotated with its similarity score.
type Match struct {
	Candidate
	Score float64
}

// FindBestMatch finds the pantry item most similar to a raw receipt
// name, or nil when nothing clears the threshold. Both the canonical
// and the display name of every candidate are scored; the single best
// score wins, and the first candidate to reach it takes precedence.
func FindBestMatch(rawName string, candidates []Candidate, threshold float64) *Match {
	if rawName == "" || len(candidates) == 0 {
		return nil
	}

	normalized := Normalize(rawName, false)
	if normalized == "" {
		return nil
	}

	var best *Match
	bestScore := 0.0

	for i := range candidates {
		c := &candidates[i]

		if c.CanonicalName != "" {
			score := Similarity(normalized, strings.ToLower(strings.TrimSpace(c.CanonicalName)))
			if score > bestScore {
				bestScore = score
				best = &Match{Candidate: *c, Score: score}
			}
		}

		if c.Name != "" {
			score := Similarity(normalized, Normalize(c.Name, false))
			if score > bestScore {
				bestScore = score
				best = &Match{Candidate: *c, Score: score}
			}
		}
	}

	if best != nil && bestScore >= threshold {
		return best
	}
	return nil
}
