package arena

import (
	"fmt"
	"sort"
	"sync"
)

// reservedHead keeps offset 0 (the boundary null) and a little slack out of
// the allocatable range.
const reservedHead = 8

// Arena is a Buffer with a first-fit free-list allocator over it.
// Implements membridge.Memory and membridge.Allocator.
//
// The free list is internally synchronized; the memory contents are not.
type Arena struct {
	*Buffer
	mu    sync.Mutex
	free  []span
	inUse uint32
}

type span struct {
	off  uint32
	size uint32
}

// New creates an arena over a fresh zeroed region of the given size.
func New(size uint32) *Arena {
	return Attach(make([]byte, size))
}

// Attach builds an arena over an existing region, e.g. a shared-memory
// mapping. The whole region past the reserved head starts free.
func Attach(data []byte) *Arena {
	a := &Arena{Buffer: Of(data)}
	if len(data) > reservedHead {
		a.free = []span{{off: reservedHead, size: uint32(len(data)) - reservedHead}}
	}
	return a
}

// Alloc returns the offset of a fresh block of at least size bytes with the
// given alignment, or an error on exhaustion. Alignment must be a power of
// two; 0 is treated as 1. Never returns offset 0.
func (a *Arena) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, fmt.Errorf("alignment %d is not a power of two", align)
	}
	if size == 0 {
		size = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i, s := range a.free {
		aligned := alignTo(s.off, align)
		pad := aligned - s.off
		if uint64(pad)+uint64(size) > uint64(s.size) {
			continue
		}

		// Carve [aligned, aligned+size) out of the span. The alignment pad
		// stays free; so does any tail remainder.
		rest := s.size - pad - size
		switch {
		case pad == 0 && rest == 0:
			a.free = append(a.free[:i], a.free[i+1:]...)
		case pad == 0:
			a.free[i] = span{off: aligned + size, size: rest}
		case rest == 0:
			a.free[i] = span{off: s.off, size: pad}
		default:
			a.free[i] = span{off: s.off, size: pad}
			a.free = append(a.free, span{off: aligned + size, size: rest})
			sort.Slice(a.free, func(x, y int) bool { return a.free[x].off < a.free[y].off })
		}

		a.inUse += size
		return aligned, nil
	}

	return 0, fmt.Errorf("arena exhausted: cannot allocate %d bytes (align %d)", size, align)
}

// Free returns a block obtained from Alloc. ptr 0 is a no-op. The size and
// alignment must match the original allocation.
func (a *Arena) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	if size == 0 {
		size = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	idx := sort.Search(len(a.free), func(i int) bool { return a.free[i].off >= ptr })
	a.free = append(a.free, span{})
	copy(a.free[idx+1:], a.free[idx:])
	a.free[idx] = span{off: ptr, size: size}
	a.inUse -= size
	a.coalesce(idx)
}

// coalesce merges the span at idx with adjacent free spans.
func (a *Arena) coalesce(idx int) {
	if idx+1 < len(a.free) && a.free[idx].off+a.free[idx].size == a.free[idx+1].off {
		a.free[idx].size += a.free[idx+1].size
		a.free = append(a.free[:idx+1], a.free[idx+2:]...)
	}
	if idx > 0 && a.free[idx-1].off+a.free[idx-1].size == a.free[idx].off {
		a.free[idx-1].size += a.free[idx].size
		a.free = append(a.free[:idx], a.free[idx+1:]...)
	}
}

// InUse reports the number of allocated bytes outstanding. A fully released
// arena reports 0; leak tests rely on this.
func (a *Arena) InUse() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

func alignTo(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}
