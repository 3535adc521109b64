// Package repositories implements SQLite persistence for the collection and user preferences.
//
// Key Implementations:
//   - [CollectionRepository] : have/want entries keyed by villager id, ordered by sequence
//   - [PreferenceRepository] : string key/value settings such as the theme
//
// Sequence numbers give each list a stable insertion order independent of timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
