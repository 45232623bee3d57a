package model

import "sync"

// SequenceGenerator hands out process-wide monotonic sequence ids.
// Concurrent callers never observe the same id.
type SequenceGenerator struct {
	mu   sync.Mutex
	last int64
}

// NewSequenceGenerator creates a generator starting at 1.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

// Next returns the next sequence id.
func (g *SequenceGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last++
	return g.last
}
