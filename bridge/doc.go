// Package bridge implements the boundary layer of the memory bridge:
// contexts, boundary operations, and batch operations over one shared
// linear memory.
//
// A Bridge is constructed over a (Memory, Allocator) pair and hands out
// opaque uint32 handles to contexts. Boundary operations validate every
// argument before touching memory, never retain a caller pointer past the
// call, and report failures as errors at the Go level. The ABI view maps
// those errors to the documented scalar sentinels for callers on the far
// side of the boundary, where no richer failure channel exists.
//
// # Context Lifecycle
//
//	h := b.CreateContext()
//	score, err := b.Process(h, recordPtr)
//	b.DestroyContext(h)
//
// DestroyContext releases everything the context tracked, including
// boundary allocations the caller never freed. A destroyed handle is dead;
// operations on it fail with an invalid-handle error, and destroying it
// again is a no-op.
//
// # Concurrency
//
// The bridge's own bookkeeping (the handle table, the string-allocation
// ledger) is internally synchronized. A single context, however, must not
// be used by two operations concurrently; that discipline is the caller's.
package bridge
