// Package data provides the byte buffer structures are decoded from and the registry
// of structures mapped onto it.
//
// All reads and writes of field bytes go through Unpack and Pack (or their integer
// forms), so the read-only policy of a buffer is enforced in one place. A Data may be
// aliased by any number of structures: a write through one of them is seen by the
// next read of every other one. There is no locking; a Data is not safe for
// concurrent writes.
package data

import (
	"fmt"
	"io/fs"

	osfs "github.com/gopherfs/fs/io/os"
	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bindecl/compress"
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/internal/binary"
	"github.com/bearlytools/bindecl/offset"
)

// Data is a byte buffer with a mapping registry.
type Data struct {
	buf    []byte
	ro     bool
	name   string
	closer func() error
	// decompress is only read by Load.
	decompress bool
	mappings   map[offset.Offset][]Mapped
	order      []offset.Offset
	journal    []registration
	depth      int
}

// Option is an optional argument to New and Load.
type Option func(d *Data)

// WithReadOnly makes every write to the buffer fail with errors.ErrReadOnly.
func WithReadOnly() Option {
	return func(d *Data) {
		d.ro = true
	}
}

// WithName names the buffer, usually after the file it was read from.
func WithName(name string) Option {
	return func(d *Data) {
		d.name = name
	}
}

// WithDecompression makes Load decompress files whose content starts with the magic
// number of a compress format. The name of the Data loses the format extension.
// Other constructors ignore it.
func WithDecompression() Option {
	return func(d *Data) {
		d.decompress = true
	}
}

// New returns a Data over buf. buf is not copied.
func New(buf []byte, options ...Option) *Data {
	d := &Data{buf: buf, mappings: map[offset.Offset][]Mapped{}}
	for _, o := range options {
		o(d)
	}
	return d
}

// Load reads path from fsys into memory. If fsys is nil, the OS filesystem is used.
func Load(ctx context.Context, fsys fs.ReadFileFS, path string, options ...Option) (*Data, error) {
	if fsys == nil {
		ofs, err := osfs.New()
		if err != nil {
			return nil, errors.E(ctx, errors.CatInternal, errors.TypeFS, err)
		}
		fsys = ofs
	}
	b, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.E(ctx, errors.CatUser, errors.TypeFS, fmt.Errorf("could not read %q: %w", path, err))
	}
	opts := make([]Option, 0, len(options)+1)
	opts = append(opts, WithName(path))
	opts = append(opts, options...)

	d := New(b, opts...)
	if d.decompress {
		if f := compress.Detect(b); f != compress.None {
			out, err := compress.Decompress(f, b)
			if err != nil {
				return nil, errors.E(ctx, errors.CatUser, errors.TypeParameter, fmt.Errorf("could not decompress %q: %w", path, err))
			}
			d.buf = out
			d.name = compress.TrimExtension(f, d.name)
			logger().Debug("decompressed buffer", "name", path, "format", f.String(), "compressed", len(b), "size", len(out))
		}
	}
	logger().Debug("loaded buffer", "name", d.name, "size", len(d.buf), "readonly", d.ro)
	return d, nil
}

// Len is the size of the buffer in bytes.
func (d *Data) Len() int64 {
	return int64(len(d.buf))
}

// ReadOnly reports if writes are refused.
func (d *Data) ReadOnly() bool {
	return d.ro
}

// Name is the name given with WithName, or the path the buffer was read from.
func (d *Data) Name() string {
	return d.name
}

// Close releases the memory mapping of a buffer opened with Open. It is a no-op for
// other buffers. The Data, and every structure mapped on it, must not be used after.
func (d *Data) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer()
	d.closer = nil
	d.buf = nil
	return err
}

func (d *Data) bounds(off offset.Offset, n int64) error {
	l := int64(len(d.buf))
	if off.Byte < 0 || n < 0 || off.Byte > l || n > l-off.Byte {
		return &errors.FieldError{
			Kind: errors.ErrOutOfBounds,
			Msg:  fmt.Sprintf("%d bytes at %s, buffer is %d bytes", n, off, len(d.buf)),
		}
	}
	return nil
}

// Unpack returns a copy of the n bytes at the byte containing off.
func (d *Data) Unpack(off offset.Offset, n int64) ([]byte, error) {
	if err := d.bounds(off, n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, d.buf[off.Byte:off.Byte+n])
	return b, nil
}

// Pack writes b at the byte containing off.
func (d *Data) Pack(off offset.Offset, b []byte) error {
	if d.ro {
		return &errors.FieldError{Kind: errors.ErrReadOnly, Msg: fmt.Sprintf("write of %d bytes at %s", len(b), off)}
	}
	if err := d.bounds(off, int64(len(b))); err != nil {
		return err
	}
	copy(d.buf[off.Byte:], b)
	return nil
}

// UnpackUint reads an unsigned integer of width bytes at off. off must be byte aligned.
func (d *Data) UnpackUint(off offset.Offset, width int, order binary.Order) (uint64, error) {
	if err := checkInt(off, width); err != nil {
		return 0, err
	}
	if err := d.bounds(off, int64(width)); err != nil {
		return 0, err
	}
	return binary.Uint(d.buf[off.Byte:off.Byte+int64(width)], order), nil
}

// PackUint writes the low width bytes of v at off. off must be byte aligned.
func (d *Data) PackUint(off offset.Offset, width int, order binary.Order, v uint64) error {
	if err := checkInt(off, width); err != nil {
		return err
	}
	b := make([]byte, width)
	binary.PutUint(b, order, v)
	return d.Pack(off, b)
}

func checkInt(off offset.Offset, width int) error {
	if !binary.ValidWidth(width) {
		return errors.Errorf(errors.ErrAlignment, "integer width must be 1, 2, 4 or 8 bytes, got %d", width)
	}
	if !off.Aligned() {
		return errors.Errorf(errors.ErrAlignment, "integer at unaligned offset %s", off)
	}
	return nil
}
