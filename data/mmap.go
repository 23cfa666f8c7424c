package data

import (
	"fmt"
	"os"

	"github.com/gostdlib/base/context"
	"golang.org/x/sys/unix"

	"github.com/bearlytools/bindecl/errors"
)

// Mode is how a file is opened by Open.
type Mode uint8

const (
	// ReadOnly maps the file for reading. Writes fail with errors.ErrReadOnly.
	ReadOnly Mode = 0
	// ReadWrite maps the file shared and writable. Writes go to the file.
	ReadWrite Mode = 1
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "rw"
	}
	return "ro"
}

// Open memory maps the file at path. The returned Data must be closed.
func Open(ctx context.Context, path string, mode Mode) (*Data, error) {
	flag, prot := os.O_RDONLY, unix.PROT_READ
	if mode == ReadWrite {
		flag, prot = os.O_RDWR, unix.PROT_READ|unix.PROT_WRITE
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, errors.E(ctx, errors.CatUser, errors.TypeFS, err)
	}
	// The mapping outlives the descriptor.
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.E(ctx, errors.CatUser, errors.TypeFS, err)
	}
	size := stat.Size()
	if size > int64(int(^uint(0)>>1)) {
		return nil, errors.E(ctx, errors.CatUser, errors.TypeFS, fmt.Errorf("%q is too large to map: %d bytes", path, size))
	}

	opts := []Option{WithName(path)}
	if mode == ReadOnly {
		opts = append(opts, WithReadOnly())
	}

	// mmap refuses empty files.
	if size == 0 {
		return New([]byte{}, opts...), nil
	}

	b, err := unix.Mmap(int(f.Fd()), 0, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.E(ctx, errors.CatInternal, errors.TypeFS, fmt.Errorf("could not mmap %q: %w", path, err))
	}

	d := New(b, opts...)
	d.closer = func() error {
		return unix.Munmap(b)
	}
	logger().Debug("mapped file", "name", path, "size", size, "mode", mode.String())
	return d, nil
}
