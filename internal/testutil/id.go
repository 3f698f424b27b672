package testutil

import (
	"sync"

	"github.com/google/uuid"
)

// FixedIDGenerator returns the same UUID every time.
//
// This enables deterministic identities for golden comparison: the same
// scenario with the same FixedIDGenerator produces byte-identical output.
//
// Thread-safety: FixedIDGenerator is stateless after construction and
// safe for concurrent use.
type FixedIDGenerator struct {
	id uuid.UUID
}

// NewFixedIDGenerator creates a generator that always returns id.
func NewFixedIDGenerator(id uuid.UUID) *FixedIDGenerator {
	return &FixedIDGenerator{id: id}
}

// NewID implements movie.IDGenerator.
func (g *FixedIDGenerator) NewID() (uuid.UUID, error) {
	return g.id, nil
}

// SequentialIDGenerator mints UUIDs whose final bytes count up from 1.
//
// Unlike FixedIDGenerator, each call returns a distinct but predictable
// identity, so tests with several movies or layers stay deterministic.
type SequentialIDGenerator struct {
	mu sync.Mutex
	n  uint32
}

// NewSequentialIDGenerator creates a generator starting at 1.
func NewSequentialIDGenerator() *SequentialIDGenerator {
	return &SequentialIDGenerator{}
}

// NewID implements movie.IDGenerator.
func (g *SequentialIDGenerator) NewID() (uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++

	var id uuid.UUID
	id[6] = 0x70 // version 7 shape, so parsed IDs look like production ones
	id[8] = 0x80
	id[12] = byte(g.n >> 24)
	id[13] = byte(g.n >> 16)
	id[14] = byte(g.n >> 8)
	id[15] = byte(g.n)
	return id, nil
}
