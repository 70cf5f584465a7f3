package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/macrolog/internal/entry"
	"github.com/roach88/macrolog/internal/food"
	"github.com/roach88/macrolog/internal/view"
)

// chartWidth is the widest bar drawn by the trend chart.
const chartWidth = 40

func formatMacros(m entry.Macros) string {
	return fmt.Sprintf("%.0f kcal | %.1fg P | %.1fg C | %.1fg F", m.Calories, m.Protein, m.Carbs, m.Fat)
}

// dayView renders a DaySummary; entries are numbered for delete --index.
type dayView struct {
	view.DaySummary
}

func (v dayView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Totals for %s\n", v.Date.Format("January 02, 2006"))
	fmt.Fprintf(&b, "  %s\n", formatMacros(v.Totals))

	if len(v.Entries) == 0 {
		b.WriteString("\nNo entries logged for this day.")
		return b.String()
	}

	fmt.Fprintf(&b, "\nLog (%s)\n", pluralize(len(v.Entries), "entry", "entries"))
	for i, e := range v.Entries {
		fmt.Fprintf(&b, "%3d. %s (%s) [%s]\n", i+1, e.Name, e.Amount, e.ID)
		fmt.Fprintf(&b, "     %s\n", formatMacros(e.Macros))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// loggedView is the result of the log command.
type loggedView struct {
	Entry entry.LogEntry  `json:"entry"`
	Day   view.DaySummary `json:"day"`
}

func (v loggedView) String() string {
	return fmt.Sprintf("Logged %s of %s.\n\n%s", v.Entry.Amount, v.Entry.Name, dayView{v.Day})
}

// deletedView is the result of the delete command.
type deletedView struct {
	Removed bool            `json:"removed"`
	ID      string          `json:"id"`
	Entry   *entry.LogEntry `json:"entry,omitempty"`
	Day     view.DaySummary `json:"day"`
}

func (v deletedView) String() string {
	if !v.Removed {
		return fmt.Sprintf("No entry %s (already deleted).\n\n%s", v.ID, dayView{v.Day})
	}
	return fmt.Sprintf("Deleted %s (%s).\n\n%s", v.Entry.Name, v.Entry.Amount, dayView{v.Day})
}

// dateRow is one line of the dates command.
type dateRow struct {
	Date    entry.Day    `json:"date"`
	IsToday bool         `json:"is_today"`
	Entries int          `json:"entries"`
	Totals  entry.Macros `json:"totals"`
}

type datesView []dateRow

func (v datesView) String() string {
	var b strings.Builder
	for _, row := range v {
		label := row.Date.String()
		if row.IsToday {
			label += " (today)"
		}
		fmt.Fprintf(&b, "%-18s %6.0f kcal  %s\n", label, row.Totals.Calories, pluralize(row.Entries, "entry", "entries"))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// trendView renders a trend series as a bar chart of calories.
type trendView struct {
	Points  []view.DayTotal `json:"points"`
	Average entry.Macros    `json:"average"`
}

func (v trendView) String() string {
	maxCal := 0.0
	for _, p := range v.Points {
		maxCal = math.Max(maxCal, p.Totals.Calories)
	}

	var b strings.Builder
	for _, p := range v.Points {
		bar := 0
		if maxCal > 0 {
			bar = int(math.Round(p.Totals.Calories / maxCal * chartWidth))
		}
		fmt.Fprintf(&b, "%s %6.0f kcal %s\n", p.Date.Format("Mon 01-02"), p.Totals.Calories, strings.Repeat("#", bar))
	}
	fmt.Fprintf(&b, "\nAverage over logged days: %s", formatMacros(v.Average))
	return b.String()
}

// foodRow is one line of the foods command.
type foodRow struct {
	Name        string       `json:"food_name"`
	DisplayName string       `json:"display_name"`
	Unit        food.Unit    `json:"unit"`
	Per         entry.Macros `json:"per"`
}

type foodsView []foodRow

func (v foodsView) String() string {
	if len(v) == 0 {
		return "No matching foods."
	}
	var b strings.Builder
	for _, row := range v {
		per := "1 " + row.Unit.Label
		if row.Unit.Base != 1 {
			per = food.FormatAmount(row.Unit.Base, row.Unit)
		}
		fmt.Fprintf(&b, "%s (%s)\n", row.DisplayName, row.Name)
		fmt.Fprintf(&b, "     per %s: %s\n", per, formatMacros(row.Per))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
