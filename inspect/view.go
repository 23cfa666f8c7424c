package inspect

import (
	"io"

	"github.com/bearlytools/bindecl/data"
)

// View is a cursor over a buffer for paging through its hex dump. The cursor is a
// byte offset; lines are Columns bytes wide.
type View struct {
	d   *data.Data
	off int64
}

// NewView returns a View of d with the cursor at offset 0.
func NewView(d *data.Data) *View {
	return &View{d: d}
}

// Offset is the cursor position.
func (v *View) Offset() int64 {
	return v.off
}

// SetOffset moves the cursor to off, clamped to the buffer.
func (v *View) SetOffset(off int64) {
	v.off = max(min(v.d.Len(), off), 0)
}

// Line is the line the cursor is on.
func (v *View) Line() int64 {
	return v.off / Columns
}

// Column is the column the cursor is on.
func (v *View) Column() int {
	return int(v.off % Columns)
}

// Up moves the cursor one line up, unless it is on the first line.
func (v *View) Up() {
	if v.off < Columns {
		return
	}
	v.off -= Columns
}

// Down moves the cursor one line down. On the last line it stops on the last byte.
// An empty buffer keeps the cursor at 0.
func (v *View) Down() {
	l := v.d.Len()
	if l == 0 || l-l%Columns < v.off {
		return
	}
	v.off += Columns
	if l <= v.off {
		v.off = l - 1
	}
}

// Left moves the cursor one byte back.
func (v *View) Left() {
	if v.off == 0 {
		return
	}
	v.off--
}

// Right moves the cursor one byte forward, up to the last byte.
func (v *View) Right() {
	if v.off >= v.d.Len()-1 {
		return
	}
	v.off++
}

// PageUp moves the cursor PageSize lines up.
func (v *View) PageUp() {
	for range PageSize {
		v.Up()
	}
}

// PageDown moves the cursor PageSize lines down.
func (v *View) PageDown() {
	for range PageSize {
		v.Down()
	}
}

// MaxLines is the number of lines of the buffer.
func (v *View) MaxLines() int64 {
	return (v.d.Len() + Columns - 1) / Columns
}

// AddrWidth is the number of hex digits of addresses.
func (v *View) AddrWidth() int {
	return AddrWidth(v.d.Len())
}

// Render writes up to lines lines of hex dump starting at the cursor line.
func (v *View) Render(w io.Writer, lines int) error {
	return writeLines(w, v.d, v.Line(), int64(lines), v.AddrWidth())
}
