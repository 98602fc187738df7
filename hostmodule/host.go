package hostmodule

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/membridge/bridge"
)

// ModuleName is the import namespace guests use for bridge operations.
const ModuleName = "membridge:bridge/ops"

// Config controls how a guest's memory and allocator are resolved.
type Config struct {
	// MemoryName is the guest's exported memory. Defaults to "memory".
	MemoryName string
	// AllocName is the guest's exported cabi_realloc-style allocator.
	// Defaults to "cabi_realloc".
	AllocName string
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.MemoryName == "" {
		out.MemoryName = "memory"
	}
	if out.AllocName == "" {
		out.AllocName = "cabi_realloc"
	}
	return out
}

// Host owns one Bridge per guest instance that calls through the module.
type Host struct {
	cfg     Config
	mu      sync.Mutex
	bridges map[api.Module]*bridge.Bridge
}

// New creates an unbound host.
func New(cfg Config) *Host {
	return &Host{
		cfg:     cfg.withDefaults(),
		bridges: make(map[api.Module]*bridge.Bridge),
	}
}

// BridgeFor returns the Bridge bound to a guest instance, building it on
// first use from the guest's exported memory and allocator.
func (h *Host) BridgeFor(ctx context.Context, mod api.Module) (*bridge.Bridge, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if b, ok := h.bridges[mod]; ok {
		return b, nil
	}

	mem := WrapMemory(mod.ExportedMemory(h.cfg.MemoryName))
	if mem == nil {
		return nil, fmt.Errorf("guest %q does not export memory %q", mod.Name(), h.cfg.MemoryName)
	}
	alloc := WrapAllocator(ctx, mod.ExportedFunction(h.cfg.AllocName))
	if alloc == nil {
		return nil, fmt.Errorf("guest %q does not export allocator %q", mod.Name(), h.cfg.AllocName)
	}

	b := bridge.New(mem, alloc)
	h.bridges[mod] = b
	return b, nil
}

// abiFor resolves the calling guest's boundary surface, or nil when the
// guest lacks the required exports. Boundary contract: never trap, so the
// failure maps to the functions' null sentinels.
func (h *Host) abiFor(ctx context.Context, mod api.Module) *bridge.ABI {
	b, err := h.BridgeFor(ctx, mod)
	if err != nil {
		bridge.Logger().Warn("guest cannot use the bridge: " + err.Error())
		return nil
	}
	return b.ABI()
}

// Instantiate registers the boundary operations as host functions and
// instantiates the module into the runtime.
func (h *Host) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	i32 := api.ValueTypeI32
	f64 := api.ValueTypeF64

	builder := rt.NewHostModuleBuilder(ModuleName)

	type hostFn struct {
		name    string
		fn      api.GoModuleFunc
		params  []api.ValueType
		results []api.ValueType
	}

	funcs := []hostFn{
		{
			name: "create-context",
			fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				abi := h.abiFor(ctx, mod)
				if abi == nil {
					stack[0] = 0
					return
				}
				stack[0] = uint64(abi.CreateContext())
			},
			params:  nil,
			results: []api.ValueType{i32},
		},
		{
			name: "destroy-context",
			fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				if abi := h.abiFor(ctx, mod); abi != nil {
					abi.DestroyContext(api.DecodeU32(stack[0]))
				}
			},
			params:  []api.ValueType{i32},
			results: nil,
		},
		{
			name: "process",
			fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				abi := h.abiFor(ctx, mod)
				if abi == nil {
					stack[0] = api.EncodeF64(bridge.ScoreInvalid)
					return
				}
				stack[0] = api.EncodeF64(abi.Process(api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
			},
			params:  []api.ValueType{i32, i32},
			results: []api.ValueType{f64},
		},
		{
			name: "generate-content",
			fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				abi := h.abiFor(ctx, mod)
				if abi == nil {
					stack[0] = api.EncodeI32(bridge.StatusNull)
					return
				}
				stack[0] = api.EncodeI32(abi.GenerateContent(
					api.DecodeU32(stack[0]), api.DecodeU32(stack[1]),
					api.DecodeU32(stack[2]), api.DecodeU32(stack[3]),
					api.DecodeU32(stack[4]), api.DecodeU32(stack[5])))
			},
			params:  []api.ValueType{i32, i32, i32, i32, i32, i32},
			results: []api.ValueType{i32},
		},
		{
			name: "batch-process",
			fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				abi := h.abiFor(ctx, mod)
				if abi == nil {
					stack[0] = api.EncodeI32(bridge.StatusNull)
					return
				}
				stack[0] = api.EncodeI32(abi.BatchProcess(
					api.DecodeU32(stack[0]), api.DecodeU32(stack[1]),
					api.DecodeU32(stack[2]), api.DecodeU32(stack[3])))
			},
			params:  []api.ValueType{i32, i32, i32, i32},
			results: []api.ValueType{i32},
		},
		{
			name: "post-count",
			fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				abi := h.abiFor(ctx, mod)
				if abi == nil {
					stack[0] = api.EncodeI32(bridge.StatusNull)
					return
				}
				stack[0] = api.EncodeI32(abi.PostCount(api.DecodeU32(stack[0])))
			},
			params:  []api.ValueType{i32},
			results: []api.ValueType{i32},
		},
		{
			name: "copy-post",
			fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				abi := h.abiFor(ctx, mod)
				if abi == nil {
					stack[0] = api.EncodeI32(bridge.StatusNull)
					return
				}
				stack[0] = api.EncodeI32(abi.CopyPost(
					api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2])))
			},
			params:  []api.ValueType{i32, i32, i32},
			results: []api.ValueType{i32},
		},
		{
			name: "alloc-string",
			fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				abi := h.abiFor(ctx, mod)
				if abi == nil {
					stack[0] = 0
					return
				}
				stack[0] = uint64(abi.AllocString(api.DecodeU32(stack[0])))
			},
			params:  []api.ValueType{i32},
			results: []api.ValueType{i32},
		},
		{
			name: "free-string",
			fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				if abi := h.abiFor(ctx, mod); abi != nil {
					abi.FreeString(api.DecodeU32(stack[0]))
				}
			},
			params:  []api.ValueType{i32},
			results: nil,
		},
		{
			name: "version",
			fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				abi := h.abiFor(ctx, mod)
				if abi == nil {
					stack[0] = 0
					return
				}
				stack[0] = uint64(abi.Version())
			},
			params:  nil,
			results: []api.ValueType{i32},
		},
	}

	for _, f := range funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.fn, f.params, f.results).
			Export(f.name)
	}

	return builder.Instantiate(ctx)
}

// Close releases every bridge the host built. Bridges free their guest-side
// allocations through the guest allocator, so Close must run before the
// guest instances are torn down.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var firstErr error
	for mod, b := range h.bridges {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(h.bridges, mod)
	}
	return firstErr
}
