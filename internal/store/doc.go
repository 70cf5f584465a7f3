// Package store provides durable storage for the macro log.
//
// A Backend reads and writes the complete entry set; there is no
// incremental append. Two backends are provided:
//   - CSVBackend: one row per entry under a fixed header, written by
//     atomic rename so readers never observe a partial file
//   - SQLiteBackend: an entries table replaced in a single transaction
//
// Log is the session object layered on a Backend. It owns the in-memory
// entries, assigns stable IDs on append, applies the retention window on
// every load and save, and mirrors every mutation to the backend before
// reporting success.
//
// # Tolerated Input
//
//   - Missing or empty storage loads as "no history"
//   - Rows with unparseable dates are dropped silently
//   - Rows with negative or unparseable macro values are dropped with a warning
//   - Missing macro columns or cells read as zero
//
// # Ordering
//
// Entries are kept newest first: Append inserts at index 0 and both
// backends persist and restore the in-memory order exactly.
package store
