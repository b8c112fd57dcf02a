package testutil

import (
	"fmt"
	"sync"
)

// SequenceKeys generates predictable store keys for tests: key-0001,
// key-0002 and so on. It satisfies store.KeyGenerator.
//
// Thread-safety: all methods are safe for concurrent use.
type SequenceKeys struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequenceKeys creates a generator. An empty prefix means "key".
func NewSequenceKeys(prefix string) *SequenceKeys {
	if prefix == "" {
		prefix = "key"
	}
	return &SequenceKeys{prefix: prefix}
}

// Generate returns the next key.
func (g *SequenceKeys) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Reset restarts the sequence; the next key is <prefix>-0001 again.
func (g *SequenceKeys) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
