package testutil

import "sync"

// FixedIDGenerator returns predetermined entry IDs in order.
//
// This enables deterministic test execution and golden file comparison.
//
// Thread-safety: FixedIDGenerator is safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedIDGenerator("id-1", "id-2")
//	gen.NewID() // "id-1"
//	gen.NewID() // "id-2"
//	gen.NewID() // panic: all ids exhausted
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// NewID returns the next predetermined ID.
//
// Panics if all IDs have been consumed, to catch a test that appends more
// entries than it planned for.
func (g *FixedIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Remaining returns how many IDs have not been issued.
func (g *FixedIDGenerator) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.ids) - g.idx
}
