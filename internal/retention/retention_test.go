package retention

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/macrolog/internal/entry"
)

var asOf = entry.MustParseDay("2025-06-30")

func dated(id string, daysAgo int) entry.LogEntry {
	return entry.LogEntry{ID: id, Date: asOf.AddDays(-daysAgo), Name: "food " + id}
}

func TestCutoff(t *testing.T) {
	assert.Equal(t, "2025-05-31", Cutoff(asOf, 30).String())
	assert.True(t, asOf.Equal(Cutoff(asOf, 0)))
}

func TestPrune_WindowBoundary(t *testing.T) {
	entries := []entry.LogEntry{
		dated("today", 0),
		dated("thirty", 30),
		dated("thirty-one", 31),
		dated("thirty-five", 35),
	}

	kept := Prune(entries, asOf, DefaultWindow)

	ids := make([]string, len(kept))
	for i, e := range kept {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"today", "thirty"}, ids)
}

func TestPrune_KeepsFutureEntries(t *testing.T) {
	kept := Prune([]entry.LogEntry{dated("tomorrow", -1)}, asOf, DefaultWindow)
	assert.Len(t, kept, 1)
}

func TestPrune_PreservesOrder(t *testing.T) {
	entries := []entry.LogEntry{dated("a", 3), dated("b", 40), dated("c", 1), dated("d", 3)}

	kept := Prune(entries, asOf, DefaultWindow)

	assert.Equal(t, []entry.LogEntry{entries[0], entries[2], entries[3]}, kept)
}

func TestPrune_Idempotent(t *testing.T) {
	entries := []entry.LogEntry{dated("a", 0), dated("b", 29), dated("c", 30), dated("d", 31), dated("e", 90)}

	once := Prune(entries, asOf, DefaultWindow)
	twice := Prune(once, asOf, DefaultWindow)

	assert.Equal(t, once, twice)
}

func TestPrune_EmptyNeverNil(t *testing.T) {
	assert.NotNil(t, Prune(nil, asOf, DefaultWindow))
	assert.Empty(t, Prune(nil, asOf, DefaultWindow))
	assert.NotNil(t, Prune([]entry.LogEntry{dated("old", 100)}, asOf, DefaultWindow))
}

func TestPrune_DoesNotAlias(t *testing.T) {
	entries := []entry.LogEntry{dated("a", 0)}
	kept := Prune(entries, asOf, DefaultWindow)
	kept[0].ID = "changed"

	assert.Equal(t, "a", entries[0].ID)
}

func TestPrune_NegativeWindowKeepsAll(t *testing.T) {
	entries := []entry.LogEntry{dated("a", 0), dated("b", 400)}
	assert.Len(t, Prune(entries, asOf, -1), 2)
}

func TestPrune_ZeroWindowKeepsOnlyAsOfAndLater(t *testing.T) {
	entries := []entry.LogEntry{dated("today", 0), dated("yesterday", 1), dated("tomorrow", -1)}
	kept := Prune(entries, asOf, 0)
	assert.Len(t, kept, 2)
}
