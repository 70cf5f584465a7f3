package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/roach88/macrolog/internal/entry"
	"github.com/roach88/macrolog/internal/testutil"
)

const testToday = "2025-06-30"

var errDiskFull = errors.New("disk full")

// memBackend is an in-memory Backend whose saves can be made to fail.
type memBackend struct {
	stored  []entry.LogEntry
	saves   int
	failErr error
}

func (m *memBackend) Load(ctx context.Context) ([]entry.LogEntry, error) {
	if m.stored == nil {
		return []entry.LogEntry{}, nil
	}
	return entry.Clone(m.stored), nil
}

func (m *memBackend) Save(ctx context.Context, entries []entry.LogEntry) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.stored = entry.Clone(entries)
	return nil
}

// createTestSQLite opens a SQLite backend in a temp directory.
func createTestSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestLog builds a Log over backend pinned to testToday with
// sequential IDs.
func createTestLog(t *testing.T, backend Backend) (*Log, *testutil.FixedClock) {
	t.Helper()
	clock := testutil.NewFixedClockOn(testToday)
	l := NewLog(backend,
		WithClock(clock),
		WithIDGenerator(entry.NewSeqGenerator(0)),
	)
	return l, clock
}

// daysAgo returns a normalized entry dated n days before testToday.
func daysAgo(id string, n int, name string, m entry.Macros) entry.LogEntry {
	e := entry.New(entry.MustParseDay(testToday).AddDays(-n), name, "1 unit(s)", m)
	e.ID = id
	return e
}

// sampleEntries returns entries within the default window, newest first.
func sampleEntries() []entry.LogEntry {
	return []entry.LogEntry{
		daysAgo("e-3", 0, "Oats 100g", entry.Macros{Calories: 389, Protein: 16.9, Carbs: 66.3, Fat: 6.9}),
		daysAgo("e-2", 0, "Peanut Butter Tbsp", entry.Macros{Calories: 94, Protein: 4, Carbs: 3, Fat: 8}),
		daysAgo("e-1", 12, "Banana Medium", entry.Macros{Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4}),
		daysAgo("e-0", 30, "Dal, Katori", entry.Macros{Calories: 150, Protein: 9, Carbs: 20, Fat: 4}),
	}
}
