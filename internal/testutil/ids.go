package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator produces predictable ids: prefix-1, prefix-2, ...
//
// Shape ids from a SequenceGenerator are stable across runs, so the same
// script with the same generator produces byte-identical project JSON for
// golden comparison.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequenceGenerator creates a generator. An empty prefix becomes "shape".
//
// The first call to Generate() returns "<prefix>-1".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "shape"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next id.
//
// Implements editor.IDGenerator interface.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Count returns how many ids have been generated.
func (g *SequenceGenerator) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. After Reset(), Generate() returns "<prefix>-1".
func (g *SequenceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
