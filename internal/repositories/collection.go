package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
)

const collectionTable = "collection_entries"

// CollectionRepository persists [models.CollectionEntry] rows.
type CollectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new [CollectionRepository] with the given database connection
func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

const upsertEntry = `
	INSERT INTO collection_entries (villager_id, name, status, sequence, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(villager_id) DO UPDATE SET
		name = excluded.name,
		status = excluded.status,
		sequence = excluded.sequence,
		updated_at = excluded.updated_at
`

// Put inserts or moves an entry. The entry receives a new sequence so it
// sorts last in its list; created_at is kept for existing rows.
func (r *CollectionRepository) Put(ctx context.Context, entry *models.CollectionEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, collectionTable)
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	entry.Sequence = sequence
	entry.UpdatedAt = now
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}

	_, err = r.db.ExecContext(ctx, upsertEntry, entry.VillagerID, entry.Name, entry.Status, sequence, entry.CreatedAt, now)
	if err != nil {
		return fmt.Errorf("failed to upsert collection entry: %w", err)
	}
	return nil
}

// Get retrieves the entry for a villager.
func (r *CollectionRepository) Get(ctx context.Context, villagerID int64) (*models.CollectionEntry, error) {
	query := `
		SELECT villager_id, name, status, sequence, created_at, updated_at
		FROM collection_entries
		WHERE villager_id = ?
	`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, villagerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no collection entry for %d", shared.ErrVillagerNotFound, villagerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query collection entry: %w", err)
	}
	return entry, nil
}

// Delete removes a villager from both lists. Deleting an untracked villager is not an error.
func (r *CollectionRepository) Delete(ctx context.Context, villagerID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM collection_entries WHERE villager_id = ?", villagerID); err != nil {
		return fmt.Errorf("failed to delete collection entry: %w", err)
	}
	return nil
}

// List returns every entry in insertion order.
func (r *CollectionRepository) List(ctx context.Context) ([]models.CollectionEntry, error) {
	return r.list(ctx, "")
}

// ListByStatus returns the entries of one list in insertion order.
func (r *CollectionRepository) ListByStatus(ctx context.Context, status models.CollectionStatus) ([]models.CollectionEntry, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: collection status %q", shared.ErrInvalidArgument, status)
	}
	return r.list(ctx, status)
}

func (r *CollectionRepository) list(ctx context.Context, status models.CollectionStatus) ([]models.CollectionEntry, error) {
	query := `
		SELECT villager_id, name, status, sequence, created_at, updated_at
		FROM collection_entries
	`
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection entries: %w", err)
	}
	defer rows.Close()

	entries := []models.CollectionEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Replace swaps the whole collection for entries in a single transaction.
// Sequences follow the slice order.
func (r *CollectionRepository) Replace(ctx context.Context, entries []models.CollectionEntry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM collection_entries"); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}

	now := time.Now()
	for _, e := range entries {
		sequence, err := nextSequenceTx(tx, collectionTable)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsertEntry, e.VillagerID, e.Name, e.Status, sequence, now, now); err != nil {
			return fmt.Errorf("failed to insert collection entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit collection: %w", err)
	}
	return nil
}

// Count returns the number of entries per status.
func (r *CollectionRepository) Count(ctx context.Context) (map[models.CollectionStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM collection_entries GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count collection entries: %w", err)
	}
	defer rows.Close()

	counts := map[models.CollectionStatus]int{models.StatusHave: 0, models.StatusWant: 0}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[models.CollectionStatus(status)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.CollectionEntry, error) {
	var (
		entry  models.CollectionEntry
		status string
	)
	if err := s.Scan(&entry.VillagerID, &entry.Name, &status, &entry.Sequence, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return nil, err
	}
	entry.Status = models.CollectionStatus(status)
	return &entry, nil
}
