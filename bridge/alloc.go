package bridge

import (
	"sync"

	"github.com/wippyai/membridge"
)

// Allocation records one outstanding boundary allocation.
type Allocation struct {
	Ptr   uint32
	Size  uint32
	Align uint32
}

// AllocationList tracks boundary allocations so teardown is total even when
// the caller never frees them individually.
type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

// NewAllocationList fetches a list from the pool.
func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns the list to the pool. Must call after Free; the list is
// invalid after Release.
func (al *AllocationList) Release() {
	// Only pool small allocations to prevent memory bloat
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

// FreeAndRelease frees every tracked allocation and returns the list to the
// pool.
func (al *AllocationList) FreeAndRelease(allocator membridge.Allocator) {
	al.Free(allocator)
	al.Release()
}

// Add records an allocation.
func (al *AllocationList) Add(ptr, size, align uint32) {
	al.allocations = append(al.allocations, Allocation{
		Ptr:   ptr,
		Size:  size,
		Align: align,
	})
}

// Remove forgets the allocation starting at ptr and returns it.
// Returns false if ptr was never tracked here.
func (al *AllocationList) Remove(ptr uint32) (Allocation, bool) {
	for i, a := range al.allocations {
		if a.Ptr == ptr {
			al.allocations[i] = al.allocations[len(al.allocations)-1]
			al.allocations = al.allocations[:len(al.allocations)-1]
			return a, true
		}
	}
	return Allocation{}, false
}

// Free releases every tracked allocation.
func (al *AllocationList) Free(allocator membridge.Allocator) {
	if allocator == nil {
		return
	}
	for _, a := range al.allocations {
		if a.Ptr != 0 {
			allocator.Free(a.Ptr, a.Size, a.Align)
		}
	}
	al.allocations = al.allocations[:0]
}

// Reset forgets all tracked allocations without freeing them.
func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

// Count returns the number of tracked allocations.
func (al *AllocationList) Count() int {
	return len(al.allocations)
}
