package models

import (
	"fmt"
	"strings"
	"time"
)

// CollectionStatus marks a tracked villager as owned or wished for.
type CollectionStatus string

const (
	StatusHave CollectionStatus = "have"
	StatusWant CollectionStatus = "want"
)

// Valid reports whether s is have or want.
func (s CollectionStatus) Valid() bool {
	return s == StatusHave || s == StatusWant
}

// Other returns the opposite list.
func (s CollectionStatus) Other() CollectionStatus {
	if s == StatusHave {
		return StatusWant
	}
	return StatusHave
}

// CollectionEntry is one row of the persisted collection.
type CollectionEntry struct {
	VillagerID int64            `json:"villager_id"`
	Name       string           `json:"name"`
	Status     CollectionStatus `json:"status"`
	Sequence   int              `json:"sequence"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Validate checks the entry before it is written.
func (e CollectionEntry) Validate() error {
	if e.VillagerID == 0 {
		return fmt.Errorf("villager id is required")
	}
	if !e.Status.Valid() {
		return fmt.Errorf("invalid collection status %q", e.Status)
	}
	return nil
}

// CollectionFilter restricts a listing by collection membership.
type CollectionFilter string

const (
	CollectionAll     CollectionFilter = "all"
	CollectionHave    CollectionFilter = "have"
	CollectionWant    CollectionFilter = "want"
	CollectionNeither CollectionFilter = "neither"
	CollectionEither  CollectionFilter = "either"
)

// CollectionFilters lists filters in cycling order.
var CollectionFilters = []CollectionFilter{CollectionAll, CollectionHave, CollectionWant, CollectionNeither, CollectionEither}

// ParseCollectionFilter resolves s; empty means all.
func ParseCollectionFilter(s string) (CollectionFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CollectionAll, nil
	}
	for _, f := range CollectionFilters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown collection filter %q", s)
}

// Next returns the filter after f in cycling order.
func (f CollectionFilter) Next() CollectionFilter {
	for i, c := range CollectionFilters {
		if c == f {
			return CollectionFilters[(i+1)%len(CollectionFilters)]
		}
	}
	return CollectionAll
}

// Theme is the persisted colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts exactly "light" or "dark".
func ParseTheme(s string) (Theme, bool) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark:
		return t, true
	}
	return "", false
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
