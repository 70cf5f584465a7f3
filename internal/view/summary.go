package view

import "github.com/roach88/macrolog/internal/entry"

// DaySummary is the display view of a single day.
type DaySummary struct {
	Date    entry.Day        `json:"date"`
	Entries []entry.LogEntry `json:"entries"`
	Totals  entry.Macros     `json:"totals"`
	Count   int              `json:"count"`
}

// Summarize builds the DaySummary for day. Entries is never nil.
func Summarize(entries []entry.LogEntry, day entry.Day) DaySummary {
	part := Partition(entries, day)
	if part == nil {
		part = []entry.LogEntry{}
	}
	return DaySummary{
		Date:    day,
		Entries: part,
		Totals:  TotalsFor(part, day),
		Count:   len(part),
	}
}

// DayTotal is one point of a trend series.
type DayTotal struct {
	Date   entry.Day    `json:"date"`
	Totals entry.Macros `json:"totals"`
	Count  int          `json:"count"`
}

// MaxTrendDays is the longest series Trend builds: the largest configurable
// retention window plus the current day.
const MaxTrendDays = 3651

// Trend returns one point per day for the days ending at end, oldest first.
// Days with no entries are present with zero totals. days < 1 yields nil;
// days above MaxTrendDays is clamped.
func Trend(entries []entry.LogEntry, end entry.Day, days int) []DayTotal {
	if days < 1 {
		return nil
	}
	days = min(days, MaxTrendDays)
	start := end.AddDays(-(days - 1))
	points := make([]DayTotal, days)
	for i := range points {
		points[i].Date = start.AddDays(i)
	}
	for _, e := range entries {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		i := start.DaysUntil(e.Date)
		points[i].Totals = points[i].Totals.Add(e.Macros)
		points[i].Count++
	}
	return points
}

// Average returns the mean daily totals over points that have entries.
// It returns zero totals when no point has entries.
func Average(points []DayTotal) entry.Macros {
	var sum entry.Macros
	n := 0
	for _, p := range points {
		if p.Count == 0 {
			continue
		}
		sum = sum.Add(p.Totals)
		n++
	}
	if n == 0 {
		return entry.Macros{}
	}
	return sum.Scale(1 / float64(n))
}
