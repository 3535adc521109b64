package state

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
)

// CollectionStore persists collection entries.
type CollectionStore interface {
	List(ctx context.Context) ([]models.CollectionEntry, error)
	Put(ctx context.Context, entry *models.CollectionEntry) error
	Delete(ctx context.Context, villagerID int64) error
	Replace(ctx context.Context, entries []models.CollectionEntry) error
}

// Stats summarises list sizes.
type Stats struct {
	HaveCount    int `json:"have_count"`
	WantCount    int `json:"want_count"`
	TotalTracked int `json:"total_tracked"`
}

// Collection is the ordered have/want pair. A villager is in at most one list.
type Collection struct {
	mu     sync.RWMutex
	store  CollectionStore
	logger *log.Logger
	have   []models.CollectionEntry
	want   []models.CollectionEntry
}

// NewCollection rehydrates a collection from store. A nil store keeps the
// collection in memory only. Rehydrate failures are logged and leave the
// collection empty.
func NewCollection(ctx context.Context, store CollectionStore, logger *log.Logger) *Collection {
	if logger == nil {
		logger = log.Default()
	}
	c := &Collection{store: store, logger: logger}
	if store == nil {
		return c
	}

	entries, err := store.List(ctx)
	if err != nil {
		logger.Warn("failed to load collection, starting empty", "error", err)
		return c
	}
	for _, e := range entries {
		switch e.Status {
		case models.StatusHave:
			c.have = append(c.have, e)
		case models.StatusWant:
			c.want = append(c.want, e)
		}
	}
	return c
}

func (c *Collection) list(status models.CollectionStatus) *[]models.CollectionEntry {
	if status == models.StatusHave {
		return &c.have
	}
	return &c.want
}

func indexOf(entries []models.CollectionEntry, id int64) int {
	return slices.IndexFunc(entries, func(e models.CollectionEntry) bool { return e.VillagerID == id })
}

func (c *Collection) add(ctx context.Context, id int64, name string, status models.CollectionStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.list(status)
	if indexOf(*target, id) >= 0 {
		return nil
	}

	entry := models.CollectionEntry{VillagerID: id, Name: name, Status: status}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidArgument, err)
	}
	if c.store != nil {
		if err := c.store.Put(ctx, &entry); err != nil {
			return fmt.Errorf("%w: %w", shared.ErrPersistence, err)
		}
	}

	other := c.list(status.Other())
	if i := indexOf(*other, id); i >= 0 {
		*other = slices.Delete(*other, i, i+1)
	}
	*target = append(*target, entry)
	return nil
}

func (c *Collection) remove(ctx context.Context, id int64, status models.CollectionStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.list(status)
	i := indexOf(*target, id)
	if i < 0 {
		return nil
	}
	if c.store != nil {
		if err := c.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("%w: %w", shared.ErrPersistence, err)
		}
	}
	*target = slices.Delete(*target, i, i+1)
	return nil
}

// AddToHave marks a villager as owned, removing it from the wishlist.
func (c *Collection) AddToHave(ctx context.Context, id int64, name string) error {
	return c.add(ctx, id, name, models.StatusHave)
}

// AddToWant wishlists a villager, removing it from the owned list.
func (c *Collection) AddToWant(ctx context.Context, id int64, name string) error {
	return c.add(ctx, id, name, models.StatusWant)
}

// RemoveFromHave drops a villager from the owned list.
func (c *Collection) RemoveFromHave(ctx context.Context, id int64) error {
	return c.remove(ctx, id, models.StatusHave)
}

// RemoveFromWant drops a villager from the wishlist.
func (c *Collection) RemoveFromWant(ctx context.Context, id int64) error {
	return c.remove(ctx, id, models.StatusWant)
}

// Remove drops a villager from whichever list holds it.
func (c *Collection) Remove(ctx context.Context, id int64) error {
	if c.IsInHave(id) {
		return c.RemoveFromHave(ctx, id)
	}
	return c.RemoveFromWant(ctx, id)
}

// ToggleHave adds or removes a villager from the owned list and reports whether it is now owned.
func (c *Collection) ToggleHave(ctx context.Context, id int64, name string) (bool, error) {
	if c.IsInHave(id) {
		return false, c.RemoveFromHave(ctx, id)
	}
	if err := c.AddToHave(ctx, id, name); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleWant adds or removes a villager from the wishlist and reports whether it is now wanted.
func (c *Collection) ToggleWant(ctx context.Context, id int64, name string) (bool, error) {
	if c.IsInWant(id) {
		return false, c.RemoveFromWant(ctx, id)
	}
	if err := c.AddToWant(ctx, id, name); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Collection) IsInHave(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return indexOf(c.have, id) >= 0
}

func (c *Collection) IsInWant(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return indexOf(c.want, id) >= 0
}

// Status returns the list holding id, or "" when untracked.
func (c *Collection) Status(id int64) models.CollectionStatus {
	switch {
	case c.IsInHave(id):
		return models.StatusHave
	case c.IsInWant(id):
		return models.StatusWant
	}
	return ""
}

// Have returns a copy of the owned list in insertion order.
func (c *Collection) Have() []models.CollectionEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.have)
}

// Want returns a copy of the wishlist in insertion order.
func (c *Collection) Want() []models.CollectionEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.want)
}

// HaveIDs returns the owned villager ids in insertion order.
func (c *Collection) HaveIDs() []int64 { return ids(c.Have()) }

// WantIDs returns the wished-for villager ids in insertion order.
func (c *Collection) WantIDs() []int64 { return ids(c.Want()) }

func ids(entries []models.CollectionEntry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.VillagerID
	}
	return out
}

func (c *Collection) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{HaveCount: len(c.have), WantCount: len(c.want), TotalTracked: len(c.have) + len(c.want)}
}

// ImportLists is the browser export format: two id arrays under their storage keys.
type ImportLists struct {
	Have IDList `json:"acnh-have-list"`
	Want IDList `json:"acnh-want-list"`
}

// IDList is a list of villager ids. It decodes from a JSON array or from a
// string holding one, as found in a raw localStorage dump.
type IDList []int64

func (l *IDList) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		if strings.TrimSpace(encoded) == "" {
			*l = nil
			return nil
		}
		data = []byte(encoded)
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("%w: id list: %v", shared.ErrInvalidInput, err)
	}
	*l = ids
	return nil
}

// Import merges lists into the collection, have first. An id present in both
// ends up wanted. name resolves display names and may be nil. It returns the
// number of entries written.
func (c *Collection) Import(ctx context.Context, lists ImportLists, name func(int64) string) (int, error) {
	if name == nil {
		name = func(int64) string { return "" }
	}

	written := 0
	for _, id := range lists.Have {
		if c.IsInHave(id) {
			continue
		}
		if err := c.AddToHave(ctx, id, name(id)); err != nil {
			return written, err
		}
		written++
	}
	for _, id := range lists.Want {
		if c.IsInWant(id) {
			continue
		}
		if err := c.AddToWant(ctx, id, name(id)); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// Export returns the collection in the browser export format.
func (c *Collection) Export() ImportLists {
	return ImportLists{Have: c.HaveIDs(), Want: c.WantIDs()}
}

// Clear empties both lists.
func (c *Collection) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Replace(ctx, nil); err != nil {
			return fmt.Errorf("%w: %w", shared.ErrPersistence, err)
		}
	}
	c.have, c.want = nil, nil
	return nil
}
