package state

import (
	"math"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/villagers"
)

// NoFavorite is reported when nothing is owned yet.
const NoFavorite = "None yet"

// CollectionInsights summarises the collection against the roster.
type CollectionInsights struct {
	TotalVillagers      int    `json:"total_villagers"`
	HaveCount           int    `json:"have_count"`
	WantCount           int    `json:"want_count"`
	TotalTracked        int    `json:"total_tracked"`
	HavePercentage      int    `json:"have_percentage"`
	WantPercentage      int    `json:"want_percentage"`
	TrackedPercentage   int    `json:"tracked_percentage"`
	FavoriteSpecies     string `json:"favorite_species"`
	FavoritePersonality string `json:"favorite_personality"`
	Message             string `json:"message"`
}

// Insights computes percentages, favourites and a progress message.
// Owned ids missing from records count toward totals but not favourites.
func Insights(c *Collection, records []models.Record) CollectionInsights {
	stats := c.Stats()
	total := len(records)

	byID := make(map[int64]models.Record, total)
	for _, r := range records {
		byID[villagers.ID(r)] = r
	}

	species := map[string]int{}
	personalities := map[string]int{}
	for _, id := range c.HaveIDs() {
		r, ok := byID[id]
		if !ok {
			continue
		}
		if s := villagers.Species(r); s != "" {
			species[s]++
		}
		if p := villagers.Personality(r); p != "" {
			personalities[p]++
		}
	}

	return CollectionInsights{
		TotalVillagers:      total,
		HaveCount:           stats.HaveCount,
		WantCount:           stats.WantCount,
		TotalTracked:        stats.TotalTracked,
		HavePercentage:      percent(stats.HaveCount, total),
		WantPercentage:      percent(stats.WantCount, total),
		TrackedPercentage:   percent(stats.TotalTracked, total),
		FavoriteSpecies:     favorite(species),
		FavoritePersonality: favorite(personalities),
		Message:             Motivation(stats.HaveCount, stats.WantCount),
	}
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

// favorite returns the most common key; ties go to the alphabetically first.
func favorite(counts map[string]int) string {
	best, bestN := "", 0
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	if best == "" {
		return NoFavorite
	}
	return best
}

// Motivation picks the progress message for the given list sizes.
func Motivation(have, want int) string {
	switch {
	case have == 0 && want == 0:
		return "Start building your collection! Click the ❤️ and ⭐ buttons on villager cards."
	case have == 0:
		return "You have a wishlist! Time to start collecting your favorite villagers."
	case have < 5:
		return "Great start! Keep building your collection."
	case have < 10:
		return "You're building an impressive collection!"
	default:
		return "Wow! You're a serious collector! 🏆"
	}
}
