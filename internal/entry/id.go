package entry

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces stable identifiers for new log entries.
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator generates time-sortable UUIDv7 entry IDs.
//
// Format: "0190a5b2-7c3e-7d41-a716-446655440000" (36 characters)
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewID returns a new hyphenated UUIDv7.
// Panics if the system random source fails.
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SeqGenerator issues "e-1", "e-2", ... from a monotonic counter.
// Safe for concurrent use.
type SeqGenerator struct {
	seq atomic.Int64
}

// NewSeqGenerator creates a counter whose first ID is "e-<start+1>".
func NewSeqGenerator(start int64) *SeqGenerator {
	g := &SeqGenerator{}
	g.seq.Store(start)
	return g
}

// NewID returns the next counter value as an ID.
func (g *SeqGenerator) NewID() string {
	return "e-" + strconv.FormatInt(g.seq.Add(1), 10)
}
