// Package membridge provides a cross-language memory bridge over linear
// memory: a boundary layer through which a foreign caller and Go exchange
// fixed-layout records and raw buffers without serialization.
//
// A "pointer" at the boundary is a uint32 offset into a shared linear memory
// region; a handle is a uint32 index into a host-side context table. The
// boundary carries only scalars, offsets, and handles, never Go pointers.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	membridge/           Root package with core Memory and Allocator interfaces
//	├── bridge/          Contexts, boundary operations, batch operations
//	├── layout/          Fixed C-compatible record layouts (the wire format)
//	├── arena/           In-process linear memory with a first-fit allocator
//	├── hostmodule/      wazero host-function binding for WASM guests
//	├── shm/             POSIX shared-memory backend (linux)
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Run the bridge over an in-process arena:
//
//	a := arena.New(1 << 20)
//	b := bridge.New(a, a)
//	defer b.Close()
//
//	h := b.CreateContext()
//	defer b.DestroyContext(h)
//
//	score, err := b.Process(h, recordPtr)
//
// # Ownership
//
// The caller owns every record it passes in and every text buffer those
// records point at; the bridge reads through such pointers only for the
// duration of a single call and copies anything it retains. Memory returned
// by AllocString is bridge-owned until released through FreeString, and is
// reclaimed on Close even if the caller never frees it.
//
// # Thread Safety
//
// A Bridge's bookkeeping is internally synchronized, but a single context
// handle must not be used by two operations concurrently. Callers that want
// parallelism create one context per concurrent user.
package membridge
