// Package tasks runs the catalog's long-running operations with real-time progress reporting.
//
// # Core Operations
//
//  1. [Loader.Load] : tiered dataset loading
//     - Tries the bundled dataset, then the public API, then the built-in sample
//     - Normalises either JSON layout and adds the legacy-compatible projection
//     - Reports [Stats] and an [Integrity] check alongside the records
//
//  2. [CheckImages] : HEAD every poster URL
//     - Bounded by an errgroup limit and throttled by a shared rate limiter
//
//  3. [DatasetWatcher] : reload when the dataset file on disk changes
//     - fsnotify events are coalesced through a debouncer
//
//  4. [BulkExport] : write one roster in several formats with a manifest
//
// # Progress Reporting
//
// All operations accept a send-only channel of [ProgressUpdate]. Updates use
// select with default so a slow or absent reader never blocks the work.
package tasks
