package schema

import (
	"sort"

	"github.com/agext/levenshtein"
)

const (
	// maxSuggestDistance bounds the edit distance for a name to count as
	// a plausible typo of a known name.
	maxSuggestDistance = 3

	// maxSuggestions caps how many candidates a suggestion list carries.
	maxSuggestions = 3
)

type scoredName struct {
	name string
	dist int
}

// SuggestFields returns known field names of a model within a bounded edit
// distance of the (presumably mistyped) input, ordered by distance then
// alphabetically. An unknown model yields no suggestions.
func (c *Catalog) SuggestFields(model, field string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fields, ok := c.fieldIndex[model]
	if !ok {
		return nil
	}

	candidates := make([]string, 0, len(fields))
	for name := range fields {
		candidates = append(candidates, name)
	}
	return rankByDistance(field, candidates)
}

// suggestModelsLocked ranks known model names against an unknown one.
// Callers must hold at least a read lock.
func (c *Catalog) suggestModelsLocked(model string, limit int) []string {
	candidates := make([]string, 0, len(c.byName))
	for name := range c.byName {
		candidates = append(candidates, name)
	}
	out := rankByDistance(model, candidates)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func rankByDistance(input string, candidates []string) []string {
	var scored []scoredName
	for _, name := range candidates {
		d := levenshtein.Distance(input, name, nil)
		if d <= maxSuggestDistance {
			scored = append(scored, scoredName{name: name, dist: d})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].dist != scored[j].dist {
			return scored[i].dist < scored[j].dist
		}
		return scored[i].name < scored[j].name
	})

	out := make([]string, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
