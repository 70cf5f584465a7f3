package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/roach88/macrolog/internal/entry"
)

// Header is the column order written by CSVBackend.
var Header = []string{"id", "date", "name", "amount_logged", "calories", "protein", "carbs", "fat"}

// ErrBadHeader is returned when a log file has rows but no date column.
// Such a file is not rewritten, since saving would discard its rows.
var ErrBadHeader = errors.New("log header has no date column")

// byteOrderMark is written at the start of CSV files by some spreadsheet tools.
const byteOrderMark = "\ufeff"

// CSVBackend stores entries in a CSV file.
//
// Columns are located by header name, so files written without the id
// column (or with columns reordered) still load. Entries without an id
// get a fresh one from the backend's generator.
type CSVBackend struct {
	path string
	ids  entry.IDGenerator
}

// NewCSVBackend returns a backend for the CSV file at path.
func NewCSVBackend(path string) *CSVBackend {
	return &CSVBackend{path: path, ids: entry.UUIDv7Generator{}}
}

// WithIDGenerator sets the generator used for rows lacking an id.
func (b *CSVBackend) WithIDGenerator(g entry.IDGenerator) *CSVBackend {
	b.ids = g
	return b
}

// Load reads all entries from the file.
func (b *CSVBackend) Load(ctx context.Context) ([]entry.LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(b.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("log file not found, starting empty", "path", b.path)
		return []entry.LogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	entries, err := b.decode(f)
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", b.path, err)
	}
	return entries, nil
}

func (b *CSVBackend) decode(r io.Reader) ([]entry.LogEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	entries := []entry.LogEntry{}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], byteOrderMark)
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["date"]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadHeader, strings.Join(header, ","))
	}

	seen := make(map[string]bool)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			slog.Warn("skipping malformed log row", "path", b.path, "line", line, "error", err)
			continue
		}
		if err != nil {
			return nil, err
		}

		e, err := decodeRow(record, cols)
		if err != nil {
			if errors.Is(err, entry.ErrInvalidDay) {
				slog.Debug("dropping log row with bad date", "path", b.path, "line", line, "error", err)
			} else {
				slog.Warn("dropping log row", "path", b.path, "line", line, "error", err)
			}
			continue
		}
		if e.ID == "" || seen[e.ID] {
			e.ID = b.ids.NewID()
		}
		seen[e.ID] = true
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeRow(record []string, cols map[string]int) (entry.LogEntry, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	day, err := entry.ParseDay(get("date"))
	if err != nil {
		return entry.LogEntry{}, err
	}

	var m entry.Macros
	fields := []struct {
		name string
		dst  *float64
	}{
		{"calories", &m.Calories},
		{"protein", &m.Protein},
		{"carbs", &m.Carbs},
		{"fat", &m.Fat},
	}
	for _, f := range fields {
		raw := get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return entry.LogEntry{}, fmt.Errorf("%s %q: %w", f.name, raw, err)
		}
		*f.dst = v
	}
	if err := m.Validate(); err != nil {
		return entry.LogEntry{}, err
	}

	e := entry.New(day, get("name"), get("amount_logged"), m)
	e.ID = get("id")
	return e, nil
}

// Save writes entries to a temporary file beside the target and renames
// it into place. An empty slice writes the header only.
func (b *CSVBackend) Save(ctx context.Context, entries []entry.LogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := Encode(tmp, entries); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("replace log: %w", err)
	}
	committed = true

	slog.Debug("log saved", "path", b.path, "entries", len(entries))
	return nil
}

// Encode writes entries as CSV under Header.
func Encode(w io.Writer, entries []entry.LogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.ID,
			e.Date.String(),
			e.Name,
			e.Amount,
			formatFloat(e.Calories),
			formatFloat(e.Protein),
			formatFloat(e.Carbs),
			formatFloat(e.Fat),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
