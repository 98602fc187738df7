//go:build !linux

package shm

// Create is not available on this platform.
func Create(name string, size int) (*Region, error) {
	return nil, ErrNotSupported
}

// Open is not available on this platform.
func Open(name string, size int) (*Region, error) {
	return nil, ErrNotSupported
}

// Close is a no-op on this platform.
func (r *Region) Close() error { return nil }

// Unlink is not available on this platform.
func Unlink(name string) error { return ErrNotSupported }
