package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/macrolog/internal/entry"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on entries.date
const currentSchemaVersion = 1

// SQLiteBackend stores entries in a SQLite database.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLite creates or opens a SQLite database at path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteBackend{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *SQLiteBackend) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns all entries ordered by stored position.
func (s *SQLiteBackend) Load(ctx context.Context) ([]entry.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, amount_logged, calories, protein, carbs, fat
		FROM entries
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	entries := []entry.LogEntry{}
	for rows.Next() {
		var (
			id, date, name, amount string
			m                      entry.Macros
		)
		if err := rows.Scan(&id, &date, &name, &amount, &m.Calories, &m.Protein, &m.Carbs, &m.Fat); err != nil {
			return nil, fmt.Errorf("load entries: scan: %w", err)
		}

		day, err := entry.ParseDay(date)
		if err != nil {
			slog.Debug("dropping entry with bad date", "id", id, "error", err)
			continue
		}
		if err := m.Validate(); err != nil {
			slog.Warn("dropping entry", "id", id, "error", err)
			continue
		}

		e := entry.New(day, name, amount, m)
		e.ID = id
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return entries, nil
}

// Save replaces every stored entry in one transaction.
// Entry IDs must be unique.
func (s *SQLiteBackend) Save(ctx context.Context, entries []entry.LogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save entries: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("save entries: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries
		(id, position, date, name, amount_logged, calories, protein, carbs, fat)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save entries: prepare: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if e.ID == "" {
			return errors.New("save entries: entry without id")
		}
		_, err := stmt.ExecContext(ctx,
			e.ID,
			i,
			e.Date.String(),
			e.Name,
			e.Amount,
			e.Calories,
			e.Protein,
			e.Carbs,
			e.Fat,
		)
		if err != nil {
			return fmt.Errorf("save entries: insert %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save entries: commit: %w", err)
	}

	slog.Debug("log saved", "path", s.path, "entries", len(entries))
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the date index used by day lookups.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date)`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *SQLiteBackend) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
