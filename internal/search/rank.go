package search

import (
	"slices"
	"strings"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/villagers"
)

// MatchKind is how a term matched a field.
type MatchKind string

const (
	MatchExact    MatchKind = "exact"
	MatchPrefix   MatchKind = "prefix"
	MatchContains MatchKind = "contains"
)

// Match records one field hit.
type Match struct {
	Field villagers.Field `json:"field"`
	Kind  MatchKind       `json:"type"`
}

// Ranked is a scored search hit.
type Ranked struct {
	Record  models.Record `json:"-"`
	Score   int           `json:"score"`
	Matches []Match       `json:"matches"`
}

// RankOptions configures [Rank].
type RankOptions struct {
	Fields []villagers.Field
	// MaxResults truncates the result when positive.
	MaxResults int
	// FlatWeights scores name like any other field.
	FlatWeights bool
}

// RankFields are searched by [Rank] when no fields are given.
var RankFields = []villagers.Field{villagers.FieldName, villagers.FieldSpecies, villagers.FieldPersonality, villagers.FieldHobby}

type weights struct{ exact, prefix, contains int }

var (
	nameWeights  = weights{exact: 100, prefix: 75, contains: 50}
	fieldWeights = weights{exact: 50, prefix: 25, contains: 10}
)

// Rank scores every record against term and returns those with a positive
// score, highest first. Equal scores are ordered by name.
func Rank(records []models.Record, term string, opts RankOptions) []Ranked {
	needle := shared.Fold(term)
	if needle == "" {
		return nil
	}
	fields := opts.Fields
	if len(fields) == 0 {
		fields = RankFields
	}

	var results []Ranked
	for _, r := range records {
		hit := Ranked{Record: r}
		for _, f := range fields {
			w := fieldWeights
			if f == villagers.FieldName && !opts.FlatWeights {
				w = nameWeights
			}

			value := shared.Fold(villagers.GetString(r, f))
			switch {
			case value == "":
				continue
			case value == needle:
				hit.Score += w.exact
				hit.Matches = append(hit.Matches, Match{Field: f, Kind: MatchExact})
			case strings.HasPrefix(value, needle):
				hit.Score += w.prefix
				hit.Matches = append(hit.Matches, Match{Field: f, Kind: MatchPrefix})
			case strings.Contains(value, needle):
				hit.Score += w.contains
				hit.Matches = append(hit.Matches, Match{Field: f, Kind: MatchContains})
			}
		}
		if hit.Score > 0 {
			results = append(results, hit)
		}
	}

	slices.SortStableFunc(results, func(a, b Ranked) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(villagers.Name(a.Record), villagers.Name(b.Record))
	})

	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results
}

// Records unwraps ranked hits.
func Records(ranked []Ranked) []models.Record {
	out := make([]models.Record, len(ranked))
	for i, r := range ranked {
		out[i] = r.Record
	}
	return out
}
