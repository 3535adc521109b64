package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/villagers"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultFields are searched when no fields are given.
var DefaultFields = []villagers.Field{villagers.FieldName, villagers.FieldSpecies, villagers.FieldPersonality}

// MatchesAny reports whether term occurs in any of fields, ignoring case and diacritics.
func MatchesAny(r models.Record, term string, fields ...villagers.Field) bool {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	for _, f := range fields {
		if shared.ContainsFold(villagers.GetString(r, f), term) {
			return true
		}
	}
	return false
}

// Search returns records where term occurs in any of fields. A blank term returns records unchanged.
func Search(records []models.Record, term string, fields ...villagers.Field) []models.Record {
	if strings.TrimSpace(term) == "" {
		return records
	}
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if MatchesAny(r, term, fields...) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a copy of records ordered by field using English collation.
// The id field sorts numerically. Ties keep their input order.
func Sort(records []models.Record, field villagers.Field, desc bool) []models.Record {
	type keyed struct {
		record models.Record
		key    string
		id     int64
	}

	items := make([]keyed, len(records))
	for i, r := range records {
		items[i] = keyed{record: r, key: villagers.GetString(r, field), id: villagers.ID(r)}
	}

	coll := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	slices.SortStableFunc(items, func(a, b keyed) int {
		var c int
		if field == villagers.FieldID {
			c = cmp.Compare(a.id, b.id)
		} else {
			c = coll.CompareString(a.key, b.key)
		}
		if desc {
			return -c
		}
		return c
	})

	out := make([]models.Record, len(items))
	for i, it := range items {
		out[i] = it.record
	}
	return out
}

// Limit truncates records to n when n is positive.
func Limit(records []models.Record, n int) []models.Record {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}

type nameSource []models.Record

func (s nameSource) String(i int) string { return villagers.Name(s[i]) }
func (s nameSource) Len() int            { return len(s) }

// Fuzzy matches term against villager names allowing gaps ("rymd" finds
// Raymond), best match first. limit <= 0 returns every match.
func Fuzzy(records []models.Record, term string, limit int) []models.Record {
	if strings.TrimSpace(term) == "" {
		return records
	}
	matches := fuzzy.FindFrom(term, nameSource(records))
	out := make([]models.Record, 0, len(matches))
	for _, m := range matches {
		out = append(out, records[m.Index])
	}
	return Limit(out, limit)
}
