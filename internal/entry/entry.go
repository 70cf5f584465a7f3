package entry

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// LogEntry is one recorded consumption event with its computed macros.
type LogEntry struct {
	ID     string `json:"id"`
	Date   Day    `json:"date"`
	Name   string `json:"name"`
	Amount string `json:"amount_logged"` // human-readable, e.g. "250 grams (g)"
	Macros
}

// New builds a LogEntry with a normalized name and no ID.
// Log assigns the ID when the entry is appended.
func New(date Day, name, amount string, m Macros) LogEntry {
	return LogEntry{
		Date:   date,
		Name:   NormalizeName(name),
		Amount: strings.TrimSpace(amount),
		Macros: m,
	}
}

// NormalizeName trims a food name and converts it to Unicode NFC.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Clone returns a copy of entries; nil stays nil.
func Clone(entries []LogEntry) []LogEntry {
	if entries == nil {
		return nil
	}
	dup := make([]LogEntry, len(entries))
	copy(dup, entries)
	return dup
}
