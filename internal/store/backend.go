package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/macrolog/internal/entry"
)

// Backend persists the complete set of log entries.
type Backend interface {
	// Load returns every stored entry in stored order. Missing or empty
	// storage yields an empty slice and no error.
	Load(ctx context.Context) ([]entry.LogEntry, error)

	// Save replaces all stored entries with entries.
	Save(ctx context.Context, entries []entry.LogEntry) error
}

// Backend kinds accepted by OpenBackend.
const (
	KindAuto   = "auto"
	KindCSV    = "csv"
	KindSQLite = "sqlite"
)

// ValidKinds lists the accepted backend kinds.
var ValidKinds = []string{KindAuto, KindCSV, KindSQLite}

// ErrUnknownBackend is returned for an unrecognized backend kind.
var ErrUnknownBackend = errors.New("unknown backend")

// KindFor resolves KindAuto from the file extension: .db, .sqlite and
// .sqlite3 are SQLite, anything else is CSV. Other kinds pass through.
func KindFor(path, kind string) string {
	if kind != "" && kind != KindAuto {
		return kind
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	default:
		return KindCSV
	}
}

// OpenBackend opens the backend of the given kind at path.
// The returned close function releases backend resources; it is never nil.
func OpenBackend(path, kind string) (Backend, func() error, error) {
	switch KindFor(path, kind) {
	case KindCSV:
		return NewCSVBackend(path), func() error { return nil }, nil
	case KindSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		b, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownBackend, kind, ValidKinds)
	}
}
