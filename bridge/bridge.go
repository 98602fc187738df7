package bridge

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/membridge"
	"github.com/wippyai/membridge/errors"
)

// Bridge is the boundary layer over one shared linear memory. It owns the
// context table and a ledger of string allocations handed across the
// boundary; Close releases both in full.
type Bridge struct {
	mem   membridge.Memory
	alloc membridge.Allocator

	contexts *table

	stringsMu  sync.Mutex
	strings    *AllocationList
	versionPtr uint32

	closedMu sync.RWMutex
	closed   bool
}

// New creates a bridge over the given memory and allocator. Both sides of
// the boundary must address the same region through them.
func New(mem membridge.Memory, alloc membridge.Allocator) *Bridge {
	return &Bridge{
		mem:      mem,
		alloc:    alloc,
		contexts: newTable(),
		strings:  NewAllocationList(),
	}
}

// Memory returns the bridge's linear memory.
func (b *Bridge) Memory() membridge.Memory { return b.mem }

// Allocator returns the bridge's allocator.
func (b *Bridge) Allocator() membridge.Allocator { return b.alloc }

// CreateContext allocates a fresh context and returns its handle.
// Returns 0 only after Close.
func (b *Bridge) CreateContext() Handle {
	b.closedMu.RLock()
	defer b.closedMu.RUnlock()
	if b.closed {
		return 0
	}

	h := b.contexts.insert(newContext())
	Logger().Debug("context created", zap.Uint32("handle", uint32(h)))
	return h
}

// DestroyContext releases the context and every boundary allocation it
// tracked. A zero, stale, or already-destroyed handle is a no-op, so
// destroy-twice is safe as long as the caller serializes access.
func (b *Bridge) DestroyContext(h Handle) {
	c, ok := b.contexts.remove(h)
	if !ok {
		return
	}
	c.allocs.FreeAndRelease(b.alloc)
	Logger().Debug("context destroyed", zap.Uint32("handle", uint32(h)))
}

// Context looks up a live context for host-side inspection.
func (b *Bridge) Context(h Handle) (*Context, bool) {
	return b.contexts.get(h)
}

// ContextCount reports the number of live contexts.
func (b *Bridge) ContextCount() int {
	return b.contexts.size()
}

// AllocString allocates n+1 bytes in the shared memory, sets the final byte
// to the terminator, and returns the offset. The allocation is tracked by
// the bridge until FreeString or Close. On exhaustion the error carries a
// null pointer for the boundary to hand out.
func (b *Bridge) AllocString(n uint32) (uint32, error) {
	b.closedMu.RLock()
	defer b.closedMu.RUnlock()
	if b.closed {
		return 0, errors.Closed(errors.PhaseRuntime, "bridge")
	}

	ptr, err := b.alloc.Alloc(n+1, 1)
	if err != nil || ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, n+1, 1)
	}
	if err := b.mem.WriteU8(ptr+n, 0); err != nil {
		b.alloc.Free(ptr, n+1, 1)
		return 0, errors.Wrap(errors.PhaseAlloc, errors.KindOutOfBounds, err, "terminate allocated string")
	}

	b.stringsMu.Lock()
	b.strings.Add(ptr, n+1, 1)
	b.stringsMu.Unlock()
	return ptr, nil
}

// FreeString releases memory previously returned by AllocString. A null
// pointer is a no-op. A pointer this bridge never allocated is refused and
// logged rather than forwarded to the allocator, and so is the version
// string: it is bridge-owned and lives until Close.
func (b *Bridge) FreeString(ptr uint32) {
	if ptr == 0 {
		return
	}

	b.stringsMu.Lock()
	if b.strings == nil {
		b.stringsMu.Unlock()
		return
	}
	if ptr == b.versionPtr {
		b.stringsMu.Unlock()
		Logger().Warn("free of the version string refused", zap.Uint32("ptr", ptr))
		return
	}
	a, ok := b.strings.Remove(ptr)
	b.stringsMu.Unlock()
	if !ok {
		Logger().Warn("free of untracked string pointer ignored", zap.Uint32("ptr", ptr))
		return
	}
	b.alloc.Free(a.Ptr, a.Size, a.Align)
}

// OutstandingStrings reports string allocations not yet freed.
func (b *Bridge) OutstandingStrings() int {
	b.stringsMu.Lock()
	defer b.stringsMu.Unlock()
	if b.strings == nil {
		return 0
	}
	return b.strings.Count()
}

// VersionPtr returns the offset of the bridge version string in shared
// memory, materializing it on first use. The string is terminator-padded,
// bridge-owned, and must never be freed by callers. Returns 0 if the
// memory cannot hold it.
func (b *Bridge) VersionPtr() uint32 {
	b.stringsMu.Lock()
	defer b.stringsMu.Unlock()
	if b.strings == nil {
		return 0
	}
	if b.versionPtr != 0 {
		return b.versionPtr
	}

	data := []byte(membridge.Version)
	size := uint32(len(data)) + 1
	ptr, err := b.alloc.Alloc(size, 1)
	if err != nil || ptr == 0 {
		return 0
	}
	if err := b.mem.Write(ptr, data); err != nil {
		b.alloc.Free(ptr, size, 1)
		return 0
	}
	if err := b.mem.WriteU8(ptr+size-1, 0); err != nil {
		b.alloc.Free(ptr, size, 1)
		return 0
	}
	b.versionPtr = ptr
	b.strings.Add(ptr, size, 1)
	return ptr
}

// Close destroys every live context and frees every outstanding boundary
// allocation. Safe to call more than once; the bridge is unusable after.
func (b *Bridge) Close() error {
	b.closedMu.Lock()
	if b.closed {
		b.closedMu.Unlock()
		return nil
	}
	b.closed = true
	b.closedMu.Unlock()

	for _, c := range b.contexts.drain() {
		c.allocs.FreeAndRelease(b.alloc)
	}

	b.stringsMu.Lock()
	leaked := b.strings.Count()
	if b.versionPtr != 0 {
		leaked-- // the version string is bridge-owned, not a caller leak
	}
	b.strings.FreeAndRelease(b.alloc)
	b.strings = nil
	b.versionPtr = 0
	b.stringsMu.Unlock()

	if leaked > 0 {
		Logger().Warn("bridge closed with unfreed string allocations", zap.Int("count", leaked))
	}
	return nil
}
