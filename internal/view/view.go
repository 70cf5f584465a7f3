package view

import (
	"sort"

	"github.com/roach88/macrolog/internal/entry"
)

// Partition returns the entries dated day, in their original order.
func Partition(entries []entry.LogEntry, day entry.Day) []entry.LogEntry {
	var out []entry.LogEntry
	for _, e := range entries {
		if e.Date.Equal(day) {
			out = append(out, e)
		}
	}
	return out
}

// TotalsFor sums the macros of the entries dated day.
// No matching entries yields all-zero totals.
func TotalsFor(entries []entry.LogEntry, day entry.Day) entry.Macros {
	var total entry.Macros
	for _, e := range entries {
		if e.Date.Equal(day) {
			total = total.Add(e.Macros)
		}
	}
	return total
}

// AvailableDates returns every distinct entry date plus today, with today
// first and the rest newest to oldest.
func AvailableDates(entries []entry.LogEntry, today entry.Day) []entry.Day {
	seen := map[entry.Day]bool{today: true}
	var others []entry.Day
	for _, e := range entries {
		if e.Date.IsZero() || seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		others = append(others, e.Date)
	}
	sort.Slice(others, func(i, j int) bool {
		return others[i].After(others[j])
	})
	return append([]entry.Day{today}, others...)
}
