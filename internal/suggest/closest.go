package suggest

import (
	"slices"
	"strings"
)

const (
	// DefaultMinScore is the lowest similarity a candidate needs to be suggested.
	DefaultMinScore = 0.5
	// DefaultMaxCandidates caps the number of suggestions returned.
	DefaultMaxCandidates = 3
)

// Config tunes Closest.
type Config struct {
	MinScore      float64
	MaxCandidates int
}

// DefaultConfig returns the default suggestion configuration.
func DefaultConfig() Config {
	return Config{
		MinScore:      DefaultMinScore,
		MaxCandidates: DefaultMaxCandidates,
	}
}

type candidate struct {
	name  string
	score float64
	pos   int
}

// Closest returns the candidates most similar to name, best first.
// Comparison is case-insensitive; exact matches of name itself are skipped.
// Ties keep the order in which candidates were given.
func Closest(name string, candidates []string, cfg Config) []string {
	if name == "" || cfg.MaxCandidates <= 0 {
		return nil
	}

	lower := strings.ToLower(name)

	var ranked []candidate

	for i, c := range candidates {
		if c == name {
			continue
		}

		score := Similarity(lower, strings.ToLower(c))
		if score < cfg.MinScore {
			continue
		}

		ranked = append(ranked, candidate{name: c, score: score, pos: i})
	}

	slices.SortStableFunc(ranked, func(a, b candidate) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return a.pos - b.pos
		}
	})

	if len(ranked) > cfg.MaxCandidates {
		ranked = ranked[:cfg.MaxCandidates]
	}

	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.name
	}

	return out
}
