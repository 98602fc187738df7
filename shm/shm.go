package shm

import (
	"errors"

	"github.com/wippyai/membridge/arena"
)

// ErrNotSupported is returned on platforms without POSIX shared memory
// support.
var ErrNotSupported = errors.New("shm: not supported on this platform")

// Region is a named shared memory mapping backed by an arena allocator.
type Region struct {
	name  string
	owner bool
	data  []byte
	arena *arena.Arena
}

// Name returns the identifier the region was created or opened with.
func (r *Region) Name() string { return r.name }

// Size returns the mapped size in bytes.
func (r *Region) Size() int { return len(r.data) }

// Arena returns the allocator view over the mapping. Only one process
// should allocate; peers address the region by offsets they were handed.
func (r *Region) Arena() *arena.Arena { return r.arena }

// Bytes returns the raw mapping. The slice is only valid until Close.
func (r *Region) Bytes() []byte { return r.data }
