// Package retention enforces the rolling window of days kept in a macro log.
package retention

import "github.com/roach88/macrolog/internal/entry"

// DefaultWindow is the number of trailing days kept when none is configured.
const DefaultWindow = 30

// Cutoff returns the oldest day kept for asOf and window: asOf - window.
func Cutoff(asOf entry.Day, window int) entry.Day {
	return asOf.AddDays(-window)
}

// Prune returns the entries dated on or after Cutoff(asOf, window), in their
// original order. Entries dated after asOf are kept. A negative window
// disables pruning. The result is never nil and never aliases entries.
//
// Prune is idempotent: Prune(Prune(e, d, w), d, w) equals Prune(e, d, w).
func Prune(entries []entry.LogEntry, asOf entry.Day, window int) []entry.LogEntry {
	kept := make([]entry.LogEntry, 0, len(entries))
	if window < 0 {
		return append(kept, entries...)
	}
	cutoff := Cutoff(asOf, window)
	for _, e := range entries {
		if e.Date.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
