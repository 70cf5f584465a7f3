package food

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrMissingColumn is returned when the reference table lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrNotFound is returned by Find when nothing matches the query.
	ErrNotFound = errors.New("food not found")

	// ErrAmbiguous is returned by Find when a query matches several foods.
	ErrAmbiguous = errors.New("ambiguous food")
)

// RequiredColumns lists the columns every reference table must have.
var RequiredColumns = []string{"food_name", "calories", "protein", "carbs", "fat"}

// Table is the sorted, read-only food reference table.
type Table struct {
	items []Item
}

// NewTable builds a table from items, sorted by raw name.
func NewTable(items []Item) *Table {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return &Table{items: sorted}
}

// OpenTable reads a reference table CSV from path.
func OpenTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open food table: %w", err)
	}
	defer f.Close()

	t, err := LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("load food table %s: %w", path, err)
	}
	return t, nil
}

// LoadTable parses a reference table CSV.
// Header names are matched case-insensitively after trimming. Empty macro
// cells read as zero; unparseable ones are an error.
func LoadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty table", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var items []Item
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		name := strings.TrimSpace(cell(record, cols["food_name"]))
		if name == "" {
			continue
		}

		var values [4]float64
		for i, col := range RequiredColumns[1:] {
			raw := strings.TrimSpace(cell(record, cols[col]))
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s %q: %w", line, col, raw, err)
			}
			values[i] = v
		}

		it := Item{Name: name}
		it.Per.Calories, it.Per.Protein, it.Per.Carbs, it.Per.Fat = values[0], values[1], values[2], values[3]
		if err := it.Per.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
		}
		items = append(items, it)
	}

	return NewTable(items), nil
}

// Items returns a copy of all rows in name order.
func (t *Table) Items() []Item {
	dup := make([]Item, len(t.items))
	copy(dup, t.items)
	return dup
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.items)
}

// Search returns rows whose raw or display name contains query,
// ignoring case. An empty query returns every row.
func (t *Table) Search(query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return t.Items()
	}
	var hits []Item
	for _, it := range t.items {
		if strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.DisplayName()), q) {
			hits = append(hits, it)
		}
	}
	return hits
}

// Find resolves query to exactly one row. An exact (case-insensitive) raw
// or display name match wins; otherwise the query must have a single
// Search hit.
func (t *Table) Find(query string) (Item, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Item{}, fmt.Errorf("%w: empty query", ErrNotFound)
	}
	for _, it := range t.items {
		if strings.EqualFold(it.Name, q) || strings.EqualFold(it.DisplayName(), q) {
			return it, nil
		}
	}

	hits := t.Search(q)
	switch len(hits) {
	case 0:
		return Item{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	case 1:
		return hits[0], nil
	default:
		names := make([]string, len(hits))
		for i, h := range hits {
			names[i] = h.Name
		}
		return Item{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, query, strings.Join(names, ", "))
	}
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
