//go:build linux

package shm

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/wippyai/membridge/arena"
)

const shmDir = "/dev/shm"

func shmPath(name string) string {
	return filepath.Join(shmDir, name)
}

// Create makes a new named region of the given size and maps it. It fails
// if a region with that name already exists. The creator should call
// Unlink (or Close on an owned region) when done.
func Create(name string, size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shm: invalid size %d", size)
	}
	fd, err := unix.Open(shmPath(name), unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shm: create %q: %w", name, err)
	}
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Unlink(shmPath(name))
		return nil, fmt.Errorf("shm: resize %q: %w", name, err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Unlink(shmPath(name))
		return nil, fmt.Errorf("shm: map %q: %w", name, err)
	}
	return &Region{name: name, owner: true, data: data, arena: arena.Attach(data)}, nil
}

// Open maps an existing named region. The size must not exceed the size it
// was created with.
func Open(name string, size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shm: invalid size %d", size)
	}
	fd, err := unix.Open(shmPath(name), unix.O_RDWR, 0o600)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("shm: region %q does not exist: %w", name, err)
		}
		return nil, fmt.Errorf("shm: open %q: %w", name, err)
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, fmt.Errorf("shm: stat %q: %w", name, err)
	}
	if int64(size) > st.Size {
		return nil, fmt.Errorf("shm: region %q is %d bytes, requested %d", name, st.Size, size)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shm: map %q: %w", name, err)
	}
	return &Region{name: name, owner: false, data: data, arena: arena.Attach(data)}, nil
}

// Close unmaps the region. If this process created it, the name is also
// unlinked; the memory itself persists until every mapping is gone.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	r.arena = nil
	if r.owner {
		if uerr := Unlink(r.name); err == nil {
			err = uerr
		}
	}
	return err
}

// Unlink removes a region's name. Existing mappings stay valid.
func Unlink(name string) error {
	if err := unix.Unlink(shmPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("shm: unlink %q: %w", name, err)
	}
	return nil
}
