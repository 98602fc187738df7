package membridge

// Memory represents the linear memory shared across the boundary.
// Offsets are 32-bit and all multi-byte values are little-endian.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	ReadF64(offset uint32) (float64, error)
	WriteU8(offset uint32, value uint8) error
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
	WriteF64(offset uint32, value float64) error
}

// MemorySizer provides the current size of the linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates memory inside the shared linear memory.
// Alloc never returns offset 0 on success; 0 is the boundary's null.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

// Version is the bridge build identifier exposed at the boundary.
// It is process-wide, immutable, and never freed by callers.
const Version = "membridge v0.1.0"
