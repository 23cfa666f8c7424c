package inspect

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gostdlib/base/values/sizes"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

const (
	// Columns is the number of bytes per hex dump line.
	Columns = 16
	// PageSize is the number of lines a View moves on PageUp and PageDown.
	PageSize = 16
)

// flushAt is the buffered output size after which lines are written out.
const flushAt = 4 * sizes.KiB

// Hexdump writes the lines of d holding the bytes [off, off+n) in the format of
// "hexdump -C". n is clipped to the end of d.
func Hexdump(w io.Writer, d *data.Data, off, n int64) error {
	if off < 0 || off > d.Len() || n < 0 {
		return errors.Errorf(errors.ErrOutOfBounds, "hexdump of %d bytes at %d in a %d byte buffer", n, off, d.Len())
	}
	n = min(n, d.Len()-off)
	if n == 0 {
		return nil
	}
	first := off / Columns
	last := (off + n - 1) / Columns
	return writeLines(w, d, first, last-first+1, AddrWidth(d.Len()))
}

// AddrWidth is the number of hex digits used for addresses in a buffer of size n.
func AddrWidth(n int64) int {
	return max(8, len(fmt.Sprintf("%x", n)))
}

// writeLines writes count lines starting at line number first.
func writeLines(w io.Writer, d *data.Data, first, count int64, width int) error {
	b := getBuffer()
	defer putBuffer(b)

	for line := first; line < first+count; line++ {
		start := line * Columns
		if start >= d.Len() {
			break
		}
		k := min(Columns, d.Len()-start)
		bs, err := d.Unpack(offset.At(start), k)
		if err != nil {
			return err
		}
		formatLine(b, start, bs, width)

		if b.Len() >= flushAt {
			if _, err := w.Write(b.Bytes()); err != nil {
				return err
			}
			b.Reset()
		}
	}
	_, err := w.Write(b.Bytes())
	return err
}

func formatLine(b *bytes.Buffer, addr int64, bs []byte, width int) {
	fmt.Fprintf(b, "%0*x  ", width, addr)
	for i := 0; i < Columns; i++ {
		if i == Columns/2 {
			b.WriteByte(' ')
		}
		if i < len(bs) {
			fmt.Fprintf(b, "%02x ", bs[i])
			continue
		}
		b.WriteString("   ")
	}
	b.WriteString(" |")
	for _, c := range bs {
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		b.WriteByte(c)
	}
	b.WriteString("|\n")
}
