package journal

import "sync/atomic"

// Seq is the journal's monotonic logical clock. Every recorded row is
// stamped with a strictly increasing sequence number, so replay order is
// explicit and never depends on wall-clock time.
//
// Safe for concurrent use, though the engine's single-writer model means
// one goroutine normally calls Next.
type Seq struct {
	n atomic.Int64
}

// NewSeq creates a clock starting at 0.
func NewSeq() *Seq {
	return &Seq{}
}

// NewSeqAt creates a clock resuming from a known position, used when
// reopening an existing journal.
func NewSeqAt(start int64) *Seq {
	s := &Seq{}
	s.n.Store(start)
	return s
}

// Next returns the next sequence number and advances the clock.
func (s *Seq) Next() int64 {
	return s.n.Add(1)
}

// Current returns the clock position without advancing it.
func (s *Seq) Current() int64 {
	return s.n.Load()
}
