package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/roach88/macrolog/internal/entry"
	"github.com/roach88/macrolog/internal/retention"
)

var (
	// ErrDuplicateID is returned when appending an entry whose ID is already logged.
	ErrDuplicateID = errors.New("duplicate entry id")

	// ErrExpired is returned when appending an entry older than the retention window.
	ErrExpired = errors.New("entry is older than the retention window")

	// ErrEmptyName is returned when appending an entry without a food name.
	ErrEmptyName = errors.New("entry name is empty")
)

// Clock supplies the current time; Log derives "today" from it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Log is the in-memory macro log for one session, mirrored to a Backend.
//
// Entries are held newest first. Every mutation is persisted before it
// becomes visible: if the backend write fails the in-memory entries are
// left as they were and the error is returned.
//
// Thread-safety: Log is safe for concurrent use, but two Logs over the
// same backend overwrite each other's saves (last writer wins).
type Log struct {
	mu      sync.Mutex
	backend Backend
	clock   Clock
	ids     entry.IDGenerator
	window  int
	entries []entry.LogEntry
}

// Option configures a Log.
type Option func(*Log)

// WithClock sets the clock used to decide "today".
func WithClock(c Clock) Option {
	return func(l *Log) { l.clock = c }
}

// WithIDGenerator sets the generator for new entry IDs.
func WithIDGenerator(g entry.IDGenerator) Option {
	return func(l *Log) { l.ids = g }
}

// WithWindow sets the retention window in days. A negative window keeps
// all history.
func WithWindow(days int) Option {
	return func(l *Log) { l.window = days }
}

// NewLog creates an empty Log over backend. Call Load to read history.
func NewLog(backend Backend, opts ...Option) *Log {
	l := &Log{
		backend: backend,
		clock:   SystemClock{},
		ids:     entry.UUIDv7Generator{},
		window:  retention.DefaultWindow,
		entries: []entry.LogEntry{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Today returns the current calendar day according to the Log's clock.
func (l *Log) Today() entry.Day {
	return entry.Today(l.clock.Now())
}

// Window returns the retention window in days.
func (l *Log) Window() int {
	return l.window
}

// Load replaces the in-memory entries with the backend's entries that are
// within the retention window, and returns a copy of them.
func (l *Log) Load(ctx context.Context) ([]entry.LogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loaded, err := l.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load log: %w", err)
	}

	kept := retention.Prune(loaded, l.Today(), l.window)
	if dropped := len(loaded) - len(kept); dropped > 0 {
		slog.Debug("pruned expired entries on load", "dropped", dropped, "window_days", l.window)
	}
	l.entries = kept
	return entry.Clone(kept), nil
}

// Entries returns a copy of the current entries, newest first.
func (l *Log) Entries() []entry.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return entry.Clone(l.entries)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Get returns the entry with the given ID.
func (l *Log) Get(id string) (entry.LogEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(id); i >= 0 {
		return l.entries[i], true
	}
	return entry.LogEntry{}, false
}

// Append records e as the most recent entry and saves.
// A missing ID is generated and a zero date becomes today. The stored
// entry is returned.
func (l *Log) Append(ctx context.Context, e entry.LogEntry) (entry.LogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.Name = entry.NormalizeName(e.Name)
	if e.Name == "" {
		return entry.LogEntry{}, ErrEmptyName
	}
	if err := e.Macros.Validate(); err != nil {
		return entry.LogEntry{}, fmt.Errorf("append: %w", err)
	}

	today := l.Today()
	if e.Date.IsZero() {
		e.Date = today
	}
	if l.window >= 0 && e.Date.Before(retention.Cutoff(today, l.window)) {
		return entry.LogEntry{}, fmt.Errorf("%w: %s is before %s", ErrExpired, e.Date, retention.Cutoff(today, l.window))
	}

	e.ID = strings.TrimSpace(e.ID)
	if e.ID == "" {
		e.ID = l.ids.NewID()
	}
	if l.indexOf(e.ID) >= 0 {
		return entry.LogEntry{}, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}

	next := make([]entry.LogEntry, 0, len(l.entries)+1)
	next = append(next, e)
	next = append(next, l.entries...)

	if err := l.persist(ctx, next); err != nil {
		return entry.LogEntry{}, err
	}
	slog.Debug("entry appended", "id", e.ID, "date", e.Date.String(), "name", e.Name)
	return e, nil
}

// Remove deletes the entry with the given ID and saves. It reports false,
// without saving, when no such entry exists.
func (l *Log) Remove(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		slog.Debug("remove: entry not found", "id", id)
		return false, nil
	}
	if err := l.removeAt(ctx, i); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveAt deletes the entry at index i of Entries() and saves. It reports
// false, without saving, when i is out of range.
func (l *Log) RemoveAt(ctx context.Context, i int) (entry.LogEntry, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.entries) {
		slog.Debug("remove: index out of range", "index", i, "len", len(l.entries))
		return entry.LogEntry{}, false, nil
	}
	removed := l.entries[i]
	if err := l.removeAt(ctx, i); err != nil {
		return entry.LogEntry{}, false, err
	}
	return removed, true, nil
}

// Save prunes expired entries and writes the rest to the backend.
func (l *Log) Save(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persist(ctx, l.entries)
}

func (l *Log) removeAt(ctx context.Context, i int) error {
	id := l.entries[i].ID
	next := make([]entry.LogEntry, 0, len(l.entries)-1)
	next = append(next, l.entries[:i]...)
	next = append(next, l.entries[i+1:]...)

	if err := l.persist(ctx, next); err != nil {
		return err
	}
	slog.Debug("entry removed", "id", id)
	return nil
}

// persist prunes next, saves it, and only then adopts it as the current
// entries. Caller holds l.mu.
func (l *Log) persist(ctx context.Context, next []entry.LogEntry) error {
	kept := retention.Prune(next, l.Today(), l.window)
	if err := l.backend.Save(ctx, kept); err != nil {
		return fmt.Errorf("save log: %w", err)
	}
	l.entries = kept
	return nil
}

func (l *Log) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, e := range l.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
