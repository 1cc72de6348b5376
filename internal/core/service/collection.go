package service

import "sync"

// Collection is a screen's cached list guarded by a generation counter.
// A fetch captures the generation with Begin and its result is applied only
// if no later Begin or Invalidate happened in between.
type Collection[T any] struct {
	mu     sync.Mutex
	gen    uint64
	items  []T
	loaded bool
}

// Begin starts a fetch and returns its generation.
func (c *Collection[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// Apply replaces the items wholesale if gen is still current.
func (c *Collection[T]) Apply(gen uint64, items []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.items = items
	c.loaded = true
	return true
}

// Settle applies items if gen is still current and returns what the caller
// should show. A superseded fetch gets the newer stored items, or its own
// items when nothing has been stored since an Invalidate.
func (c *Collection[T]) Settle(gen uint64, items []T) ([]T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.items = items
		c.loaded = true
	} else if !c.loaded {
		return items, false
	}
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out, gen == c.gen
}

// Rollback rewrites the items with fn if gen is still current.
func (c *Collection[T]) Rollback(gen uint64, fn func([]T) []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.items = fn(c.items)
	return true
}

// Splice edits the items in place without touching the generation.
func (c *Collection[T]) Splice(fn func([]T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = fn(c.items)
}

// Invalidate discards any fetch in flight and forgets the items.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = nil
	c.loaded = false
}

// Snapshot returns a copy of the items and whether they were ever loaded.
func (c *Collection[T]) Snapshot() ([]T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out, c.loaded
}

// Generation is the generation of the latest Begin or Invalidate.
func (c *Collection[T]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}
