package feed

import (
	"sync"
	"unicode/utf16"
)

// ViewCounter hands out a stable pseudo view count per item identifier.
// Entries are never evicted: the counter lives as long as the session that
// created it.
type ViewCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewViewCounter() *ViewCounter {
	return &ViewCounter{counts: make(map[string]int)}
}

// Count returns the view count for id, deriving and caching it on first use
func (v *ViewCounter) Count(id string) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	if n, ok := v.counts[id]; ok {
		return n
	}
	n := deriveViewCount(id)
	v.counts[id] = n
	return n
}

func (v *ViewCounter) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.counts)
}

// deriveViewCount maps id into [100, 999] from its first UTF-16 unit and length
func deriveViewCount(id string) int {
	units := utf16.Encode([]rune(id))

	first, length := 65, 1
	if len(units) > 0 {
		first, length = int(units[0]), len(units)
	}

	return (first+length)%900 + 100
}
