// Package arena provides an in-process linear memory backend for the bridge.
//
// Buffer is a bounds-checked, little-endian Memory over a plain byte slice.
// Arena couples a Buffer with a first-fit free-list Allocator so the full
// boundary contract (alloc, free, matched-pair teardown) can run inside a
// single process. Tests and the CLI use an Arena; the shm package maps a
// shared-memory region through the same types so two processes can share it.
//
// Offset 0 is the boundary's null pointer and is never handed out.
package arena
