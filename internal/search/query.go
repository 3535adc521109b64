package search

import (
	"strings"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/villagers"
)

// Query is a complete listing request. Records are filtered by the criteria,
// then matched (plain, ranked or fuzzy), then ordered and truncated.
type Query struct {
	Criteria
	SortBy villagers.Field `json:"sort,omitempty"`
	Desc   bool            `json:"desc,omitempty"`
	Ranked bool            `json:"rank,omitempty"`
	Fuzzy  bool            `json:"fuzzy,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

// Hit is one listing row. Score is set only for ranked queries.
type Hit struct {
	Record  models.Record
	Score   int
	Matches []Match
}

// Run applies q to records. Ranked and fuzzy results keep their match order;
// SortBy applies to plain listings only.
func (q Query) Run(records []models.Record, m Membership) []Hit {
	term := strings.TrimSpace(q.Search)
	c := q.Criteria
	if term != "" && (q.Ranked || q.Fuzzy) {
		c.Search = ""
	}
	filtered := Filter(records, c, m)

	var hits []Hit
	switch {
	case term != "" && q.Ranked:
		for _, r := range Rank(filtered, term, RankOptions{MaxResults: q.Limit}) {
			hits = append(hits, Hit{Record: r.Record, Score: r.Score, Matches: r.Matches})
		}
		return hits
	case term != "" && q.Fuzzy:
		filtered = Fuzzy(filtered, term, q.Limit)
	case q.SortBy != "":
		filtered = Sort(filtered, q.SortBy, q.Desc)
	}

	filtered = Limit(filtered, q.Limit)
	hits = make([]Hit, len(filtered))
	for i, r := range filtered {
		hits[i] = Hit{Record: r}
	}
	return hits
}
