// Package shm maps a named POSIX shared memory region and exposes it as an
// arena, so two processes can run bridge operations over the same bytes.
//
// The creator calls Create, which makes the region and owns its lifetime.
// Peers call Open on the same name and size. Offsets handed across the
// process boundary stay valid because both sides address the region the
// same way, from offset zero.
//
// Linux only. On other platforms Create and Open return
// ErrNotSupported.
package shm
