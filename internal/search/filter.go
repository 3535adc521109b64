// package search filters, ranks and suggests over an in-memory villager roster.
package search

import (
	"slices"
	"strings"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/villagers"
)

// Membership answers collection questions for the collection filter.
type Membership interface {
	IsInHave(id int64) bool
	IsInWant(id int64) bool
}

// Criteria is the universal filter. Zero-valued fields are ignored.
type Criteria struct {
	Search        string                  `json:"search,omitempty"`
	Species       string                  `json:"species,omitempty"`
	Personality   string                  `json:"personality,omitempty"`
	Gender        string                  `json:"gender,omitempty"`
	Hobby         string                  `json:"hobby,omitempty"`
	Birthday      string                  `json:"birthday,omitempty"`
	FavoriteColor string                  `json:"favorite_color,omitempty"`
	EnhancedOnly  bool                    `json:"enhanced_only,omitempty"`
	Collection    models.CollectionFilter `json:"collection,omitempty"`
}

// IsZero reports whether c filters nothing.
func (c Criteria) IsZero() bool {
	return c == Criteria{} || c == Criteria{Collection: models.CollectionAll}
}

// Matches reports whether r passes every set criterion.
//
// Species, personality, gender and hobby compare exactly (case-insensitive).
// Search, birthday and favourite colour match substrings.
func (c Criteria) Matches(r models.Record, m Membership) bool {
	if c.Search != "" && !MatchesAny(r, c.Search, DefaultFields...) {
		return false
	}

	exact := []struct {
		want  string
		field villagers.Field
	}{
		{c.Species, villagers.FieldSpecies},
		{c.Personality, villagers.FieldPersonality},
		{c.Gender, villagers.FieldGender},
		{c.Hobby, villagers.FieldHobby},
	}
	for _, e := range exact {
		if e.want != "" && !strings.EqualFold(villagers.GetString(r, e.field), e.want) {
			return false
		}
	}

	if c.Birthday != "" && !shared.ContainsFold(villagers.Birthday(r), c.Birthday) {
		return false
	}

	if c.FavoriteColor != "" {
		colors := villagers.FavoriteGifts(r).Colors
		if !slices.ContainsFunc(colors, func(color string) bool { return shared.ContainsFold(color, c.FavoriteColor) }) {
			return false
		}
	}

	if c.EnhancedOnly && !villagers.HasEnhancedData(r) {
		return false
	}

	return InCollection(r, m, c.Collection)
}

// Filter returns the records matching c, preserving order.
func Filter(records []models.Record, c Criteria, m Membership) []models.Record {
	if c.IsZero() {
		return records
	}
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if c.Matches(r, m) {
			out = append(out, r)
		}
	}
	return out
}

// InCollection applies a collection filter to one record. Without a
// [Membership] only "all" and "neither" can match.
func InCollection(r models.Record, m Membership, f models.CollectionFilter) bool {
	if f == "" || f == models.CollectionAll {
		return true
	}

	var have, want bool
	if m != nil {
		id := villagers.ID(r)
		have, want = m.IsInHave(id), m.IsInWant(id)
	}

	switch f {
	case models.CollectionHave:
		return have
	case models.CollectionWant:
		return want
	case models.CollectionNeither:
		return !have && !want
	case models.CollectionEither:
		return have || want
	default:
		return true
	}
}

// ByCollection keeps records matching the collection filter.
func ByCollection(records []models.Record, m Membership, f models.CollectionFilter) []models.Record {
	return Filter(records, Criteria{Collection: f}, m)
}

// UniqueValues returns the sorted distinct non-empty values of field.
func UniqueValues(records []models.Record, field villagers.Field) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		switch v := villagers.Get(r, field).(type) {
		case []string:
			for _, s := range v {
				if s = strings.TrimSpace(s); s != "" {
					seen[s] = struct{}{}
				}
			}
		default:
			if s := strings.TrimSpace(villagers.GetString(r, field)); s != "" {
				seen[s] = struct{}{}
			}
		}
	}

	values := make([]string, 0, len(seen))
	for s := range seen {
		values = append(values, s)
	}
	slices.Sort(values)
	return values
}

// FilterOptions lists the selectable values for each filter dimension.
type FilterOptions struct {
	Species        []string `json:"species"`
	Personality    []string `json:"personality"`
	Gender         []string `json:"gender"`
	Hobby          []string `json:"hobby"`
	FavoriteColors []string `json:"favorite_colors"`
}

// Options collects [FilterOptions] from records.
func Options(records []models.Record) FilterOptions {
	return FilterOptions{
		Species:        UniqueValues(records, villagers.FieldSpecies),
		Personality:    UniqueValues(records, villagers.FieldPersonality),
		Gender:         UniqueValues(records, villagers.FieldGender),
		Hobby:          UniqueValues(records, villagers.FieldHobby),
		FavoriteColors: UniqueValues(records, villagers.FieldFavoriteColors),
	}
}

// Stage is one step of a [Batch] pipeline.
type Stage func([]models.Record) []models.Record

// WithCriteria builds a universal filter stage.
func WithCriteria(c Criteria, m Membership) Stage {
	return func(records []models.Record) []models.Record { return Filter(records, c, m) }
}

// WithCollection builds a collection filter stage.
func WithCollection(m Membership, f models.CollectionFilter) Stage {
	return func(records []models.Record) []models.Record { return ByCollection(records, m, f) }
}

// WithRank builds a ranked search stage that keeps only matching records in score order.
func WithRank(term string, opts RankOptions) Stage {
	return func(records []models.Record) []models.Record {
		if strings.TrimSpace(term) == "" {
			return records
		}
		return Records(Rank(records, term, opts))
	}
}

// Batch runs records through stages in order.
func Batch(records []models.Record, stages ...Stage) []models.Record {
	for _, stage := range stages {
		if stage != nil {
			records = stage(records)
		}
	}
	return records
}
