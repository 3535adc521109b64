package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/search"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/villagers"
)

// Catalog holds the loaded roster and its suggestion index. Readers see
// either the previous or the next roster, never a mix, while [Catalog.Reload]
// swaps them.
type Catalog struct {
	mu     sync.RWMutex
	result *LoadResult
	index  *search.Index
}

// NewCatalog wraps a load result. A nil result is an empty catalog.
func NewCatalog(result *LoadResult) *Catalog {
	c := &Catalog{}
	c.Replace(result)
	return c
}

// Replace swaps in a new roster.
func (c *Catalog) Replace(result *LoadResult) {
	if result == nil {
		result = &LoadResult{Source: models.SourceError, Format: models.FormatNew}
	}
	index := search.NewIndex(result.Records)

	c.mu.Lock()
	c.result, c.index = result, index
	c.mu.Unlock()
}

// Reload runs loader and replaces the roster on success. A failed load keeps
// the current roster, and so does a load that only succeeded by falling back
// to a lower tier than the one currently shown.
func (c *Catalog) Reload(ctx context.Context, loader *Loader, progress chan<- ProgressUpdate) (*LoadResult, error) {
	result, err := loader.Load(ctx, progress)
	if err != nil {
		return result, err
	}

	current := c.Result()
	if len(current.Records) > 0 && tierRank(result.Source) < tierRank(current.Source) {
		return result, fmt.Errorf("%w: reload fell back to %s data, keeping the %s roster",
			shared.ErrSourceUnavailable, result.Source, current.Source)
	}
	c.Replace(result)
	return result, nil
}

func tierRank(s models.Source) int {
	switch s {
	case models.SourceReal:
		return 3
	case models.SourceAPI:
		return 2
	case models.SourceSample:
		return 1
	default:
		return 0
	}
}

// Records returns the current roster. Callers must not modify it.
func (c *Catalog) Records() []models.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result.Records
}

// Index returns the suggestion index for the current roster.
func (c *Catalog) Index() *search.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// Result returns the load result backing the current roster.
func (c *Catalog) Result() *LoadResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// Find resolves a villager by numeric id or by name.
func (c *Catalog) Find(query string) (models.Record, bool) {
	return villagers.Find(c.Records(), query)
}

// NameOf returns the name for id, or "" when the id is not in the roster.
func (c *Catalog) NameOf(id int64) string {
	if r, ok := villagers.FindByID(c.Records(), id); ok {
		return villagers.Name(r)
	}
	return ""
}
