package scope

import (
	"math"
	"sort"
	"strings"
)

// fuzzyThreshold is the minimum partial-similarity score for a fuzzy match.
const fuzzyThreshold = 0.85

// Result reports how a query matched the category registry. It is derived
// per request and never persisted.
type Result struct {
	InScope     bool
	MatchedTags []string
	Confidence  float64
}

// Classifier decides whether a query falls within the supported categories.
// Classification is deterministic, total over any input, and performs no I/O.
type Classifier struct {
	registry Registry
}

// NewClassifier creates a classifier over the given registry.
func NewClassifier(registry Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify runs the two matching tiers in order: exact substring matches
// first (confidence 100), then fuzzy partial-ratio matches. The fuzzy tier
// is only consulted when the exact tier finds nothing.
func (c *Classifier) Classify(text string) Result {
	lowered := strings.ToLower(text)

	tags := make(map[string]struct{})
	for _, category := range c.registry.List() {
		for _, keyword := range category.Keywords {
			if strings.Contains(lowered, keyword) {
				tags[category.Name+":"+keyword] = struct{}{}
			}
		}
	}
	if len(tags) > 0 {
		return Result{InScope: true, MatchedTags: sortedTags(tags), Confidence: 100.0}
	}

	best := 0.0
	for _, category := range c.registry.List() {
		for _, keyword := range category.Keywords {
			score := partialRatio(keyword, lowered)
			if score < fuzzyThreshold {
				continue
			}
			tags[category.Name+":"+keyword] = struct{}{}
			if score > best {
				best = score
			}
		}
	}
	if len(tags) > 0 {
		return Result{
			InScope:     true,
			MatchedTags: sortedTags(tags),
			Confidence:  math.Round(best*100*100) / 100,
		}
	}

	return Result{MatchedTags: []string{}}
}

func sortedTags(tags map[string]struct{}) []string {
	out := make([]string, 0, len(tags))
	for tag := range tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
