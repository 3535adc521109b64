package search

import (
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/villagers"
)

const (
	// MinSuggestLength is the shortest term that produces suggestions.
	MinSuggestLength = 2
	// DefaultMaxSuggestions caps suggestions when no limit is given.
	DefaultMaxSuggestions = 6
)

// SuggestionKind is what a suggestion completes to.
type SuggestionKind string

const (
	SuggestName        SuggestionKind = "name"
	SuggestSpecies     SuggestionKind = "species"
	SuggestPersonality SuggestionKind = "personality"
)

// Icon returns the glyph shown next to a suggestion.
func (k SuggestionKind) Icon() string {
	switch k {
	case SuggestName:
		return "🐾"
	case SuggestSpecies:
		return "🦎"
	case SuggestPersonality:
		return "✨"
	}
	return ""
}

// Suggestion is one search-box completion.
type Suggestion struct {
	Value string         `json:"value"`
	Kind  SuggestionKind `json:"type"`
	Count int            `json:"count,omitempty"`
	ID    int64          `json:"id,omitempty"`
}

type bucket struct {
	key     string
	display string
	records []models.Record
}

// Index groups a roster by folded name, species and personality for fast suggestions.
type Index struct {
	names         []bucket
	species       []bucket
	personalities []bucket
}

// NewIndex builds an index over records. Buckets keep first-seen order.
func NewIndex(records []models.Record) *Index {
	return &Index{
		names:         group(records, villagers.Name),
		species:       group(records, villagers.Species),
		personalities: group(records, villagers.Personality),
	}
}

func group(records []models.Record, get func(models.Record) string) []bucket {
	var buckets []bucket
	pos := make(map[string]int)
	for _, r := range records {
		display := get(r)
		key := shared.Fold(display)
		if key == "" {
			continue
		}
		if i, ok := pos[key]; ok {
			buckets[i].records = append(buckets[i].records, r)
			continue
		}
		pos[key] = len(buckets)
		buckets = append(buckets, bucket{key: key, display: display, records: []models.Record{r}})
	}
	return buckets
}

// Len is the number of distinct names indexed.
func (ix *Index) Len() int { return len(ix.names) }

// Suggest returns up to limit completions for term: names first, then species
// and personalities with their counts. Terms shorter than
// [MinSuggestLength] runes return nil.
func (ix *Index) Suggest(term string, limit int) []Suggestion {
	needle := shared.Fold(term)
	if utf8.RuneCountInString(needle) < MinSuggestLength {
		return nil
	}
	if limit <= 0 {
		limit = DefaultMaxSuggestions
	}

	var out []Suggestion
	add := func(s Suggestion) bool {
		if len(out) >= limit {
			return false
		}
		out = append(out, s)
		return true
	}

	for _, b := range ix.names {
		if strings.Contains(b.key, needle) && !add(Suggestion{Value: b.display, Kind: SuggestName, ID: villagers.ID(b.records[0])}) {
			return out
		}
	}
	for _, b := range ix.species {
		if strings.Contains(b.key, needle) && !add(Suggestion{Value: b.display, Kind: SuggestSpecies, Count: len(b.records)}) {
			return out
		}
	}
	for _, b := range ix.personalities {
		if strings.Contains(b.key, needle) && !add(Suggestion{Value: b.display, Kind: SuggestPersonality, Count: len(b.records)}) {
			return out
		}
	}
	return out
}
