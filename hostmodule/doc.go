// Package hostmodule binds the bridge's boundary surface to WASM guests as
// wazero host functions.
//
// The guest is the foreign caller: it lays records out in its own linear
// memory and invokes the bridge through imports from the
// "membridge:bridge/ops" module. On the first call from a guest instance the
// host wraps that instance's exported memory and allocator and builds a
// Bridge over them; every later call from the same instance reuses it.
//
//	host := hostmodule.New(hostmodule.Config{})
//	if _, err := host.Instantiate(ctx, rt); err != nil { ... }
//	defer host.Close()
//
//	// guests importing membridge:bridge/ops can now be instantiated
//
// The guest must export its memory ("memory") and a cabi_realloc-style
// allocator so the bridge can place post payloads and alloc-string buffers
// where the guest can reach them.
package hostmodule
