package arena

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Buffer is a bounds-checked linear memory over a byte slice.
// All multi-byte accesses are little-endian. Implements membridge.Memory
// and membridge.MemorySizer.
type Buffer struct {
	data []byte
}

// Of wraps an existing byte slice as linear memory without copying.
// The caller must not resize the slice while the Buffer is in use.
func Of(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Size returns the memory size in bytes.
func (b *Buffer) Size() uint32 {
	return uint32(len(b.data))
}

// Bytes returns the backing slice. Mutations are visible to the boundary.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) check(offset, length uint32) error {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(b.data)) {
		return fmt.Errorf("memory access out of bounds: offset=%d, length=%d, size=%d", offset, length, len(b.data))
	}
	return nil
}

// Read returns length bytes starting at offset. The returned slice aliases
// the backing memory and is valid only until the next boundary operation.
func (b *Buffer) Read(offset uint32, length uint32) ([]byte, error) {
	if err := b.check(offset, length); err != nil {
		return nil, err
	}
	return b.data[offset : offset+length : offset+length], nil
}

// Write copies data into memory at offset.
func (b *Buffer) Write(offset uint32, data []byte) error {
	if err := b.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(b.data[offset:], data)
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (b *Buffer) ReadU8(offset uint32) (uint8, error) {
	if err := b.check(offset, 1); err != nil {
		return 0, err
	}
	return b.data[offset], nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (b *Buffer) ReadU32(offset uint32) (uint32, error) {
	if err := b.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b.data[offset:]), nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (b *Buffer) ReadU64(offset uint32) (uint64, error) {
	if err := b.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b.data[offset:]), nil
}

// ReadF64 reads a 64-bit IEEE 754 little-endian value.
func (b *Buffer) ReadF64(offset uint32) (float64, error) {
	bits, err := b.ReadU64(offset)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// WriteU8 writes an unsigned 8-bit value.
func (b *Buffer) WriteU8(offset uint32, value uint8) error {
	if err := b.check(offset, 1); err != nil {
		return err
	}
	b.data[offset] = value
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (b *Buffer) WriteU32(offset uint32, value uint32) error {
	if err := b.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.data[offset:], value)
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (b *Buffer) WriteU64(offset uint32, value uint64) error {
	if err := b.check(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b.data[offset:], value)
	return nil
}

// WriteF64 writes a 64-bit IEEE 754 little-endian value.
func (b *Buffer) WriteF64(offset uint32, value float64) error {
	return b.WriteU64(offset, math.Float64bits(value))
}
