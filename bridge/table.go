package bridge

import (
	"sync"
)

// Handle is an opaque reference to a live context.
// Handle 0 is reserved and always invalid.
type Handle uint32

// table maps handles to contexts: a dense slice with a free list, so
// handles stay small and destroyed slots are reused.
type table struct {
	mu       sync.Mutex
	entries  []*Context
	freeList []Handle
}

func newTable() *table {
	return &table{
		entries:  make([]*Context, 0, 16),
		freeList: make([]Handle, 0, 8),
	}
}

// insert stores a context and returns its handle.
func (t *table) insert(c *Context) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.freeList) > 0 {
		h := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = c
		return h
	}

	t.entries = append(t.entries, c)
	return Handle(len(t.entries))
}

// get retrieves a live context by handle.
func (t *table) get(h Handle) (*Context, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || t.entries[idx] == nil {
		return nil, false
	}
	return t.entries[idx], true
}

// remove drops a context and returns it for teardown. Removing a dead or
// out-of-range handle returns (nil, false); destroy-twice lands here.
func (t *table) remove(h Handle) (*Context, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || t.entries[idx] == nil {
		return nil, false
	}

	c := t.entries[idx]
	t.entries[idx] = nil
	t.freeList = append(t.freeList, h)
	return c, true
}

// drain removes every live context and returns them for teardown.
func (t *table) drain() []*Context {
	t.mu.Lock()
	defer t.mu.Unlock()

	var live []*Context
	for i, c := range t.entries {
		if c != nil {
			live = append(live, c)
			t.entries[i] = nil
			t.freeList = append(t.freeList, Handle(i+1))
		}
	}
	return live
}

// size reports the number of live contexts.
func (t *table) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries) - len(t.freeList)
}
