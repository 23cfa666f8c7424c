// Package offset describes bit-precise positions and spans inside a byte buffer.
//
// An Offset is a position, a Size is a span. Both are a (byte, bit) pair where the
// bit component is always kept in [0, 8) after any arithmetic. Ordering is
// lexicographic on (byte, bit).
//
// Subtracting a larger value from a smaller one is a precondition violation. The
// result has a negative Byte component and must not be used as a position.
package offset

import "fmt"

// Offset is an absolute or relative position in a buffer.
type Offset struct {
	Byte int64
	Bit  uint8
}

// Size is a span of bytes and bits.
type Size struct {
	Byte int64
	Bit  uint8
}

// At returns the byte aligned Offset b.
func At(b int64) Offset {
	return Offset{Byte: b}
}

// AtBit returns the Offset at byte b and bit bit. bit may exceed 7, in which case it
// carries into the byte component.
func AtBit(b int64, bit int) Offset {
	by, bi := normalize(b, int64(bit))
	return Offset{Byte: by, Bit: bi}
}

// Bytes returns a Size of n bytes.
func Bytes(n int64) Size {
	return Size{Byte: n}
}

// Bits returns a Size of n bits.
func Bits(n int64) Size {
	by, bi := normalize(0, n)
	return Size{Byte: by, Bit: bi}
}

// normalize carries (or borrows) the bit component into the byte component.
func normalize(b, bit int64) (int64, uint8) {
	b += bit >> 3
	return b, uint8(bit & 7)
}

func add(ab int64, abit uint8, bb int64, bbit uint8) (int64, uint8) {
	return normalize(ab+bb, int64(abit)+int64(bbit))
}

func sub(ab int64, abit uint8, bb int64, bbit uint8) (int64, uint8) {
	// Arithmetic shift on a negative bit count borrows one byte.
	return normalize(ab-bb, int64(abit)-int64(bbit))
}

// Add returns o advanced by s.
func (o Offset) Add(s Size) Offset {
	b, bit := add(o.Byte, o.Bit, s.Byte, s.Bit)
	return Offset{Byte: b, Bit: bit}
}

// AddBytes returns o advanced by n bytes.
func (o Offset) AddBytes(n int64) Offset {
	return Offset{Byte: o.Byte + n, Bit: o.Bit}
}

// Sub returns o moved back by s.
func (o Offset) Sub(s Size) Offset {
	b, bit := sub(o.Byte, o.Bit, s.Byte, s.Bit)
	return Offset{Byte: b, Bit: bit}
}

// SubBytes returns o moved back by n bytes.
func (o Offset) SubBytes(n int64) Offset {
	return Offset{Byte: o.Byte - n, Bit: o.Bit}
}

// Diff returns the span between other and o. other must not be after o.
func (o Offset) Diff(other Offset) Size {
	b, bit := sub(o.Byte, o.Bit, other.Byte, other.Bit)
	return Size{Byte: b, Bit: bit}
}

// Aligned reports if o falls on a byte boundary.
func (o Offset) Aligned() bool {
	return o.Bit == 0
}

// Compare returns -1, 0 or +1 depending on whether o is before, equal to or after other.
func (o Offset) Compare(other Offset) int {
	return compare(o.Byte, o.Bit, other.Byte, other.Bit)
}

// Less reports if o is before other.
func (o Offset) Less(other Offset) bool {
	return o.Compare(other) < 0
}

// Rounded returns the byte that contains o.
func (o Offset) Rounded() int64 {
	return o.Byte
}

// TotalBits returns o expressed in bits.
func (o Offset) TotalBits() int64 {
	return o.Byte*8 + int64(o.Bit)
}

// Size converts o into the span from the start of the buffer up to o.
func (o Offset) Size() Size {
	return Size(o)
}

func (o Offset) String() string {
	if o.Bit == 0 {
		return fmt.Sprintf("%#x", o.Byte)
	}
	return fmt.Sprintf("%#x.%d", o.Byte, o.Bit)
}

// Add returns the sum of s and other.
func (s Size) Add(other Size) Size {
	b, bit := add(s.Byte, s.Bit, other.Byte, other.Bit)
	return Size{Byte: b, Bit: bit}
}

// AddBytes returns s grown by n bytes.
func (s Size) AddBytes(n int64) Size {
	return Size{Byte: s.Byte + n, Bit: s.Bit}
}

// Sub returns s shrunk by other. other must not be larger than s.
func (s Size) Sub(other Size) Size {
	b, bit := sub(s.Byte, s.Bit, other.Byte, other.Bit)
	return Size{Byte: b, Bit: bit}
}

// SubBytes returns s shrunk by n bytes.
func (s Size) SubBytes(n int64) Size {
	return Size{Byte: s.Byte - n, Bit: s.Bit}
}

// Aligned reports if s is a whole number of bytes.
func (s Size) Aligned() bool {
	return s.Bit == 0
}

// Compare returns -1, 0 or +1 depending on whether s is smaller, equal or larger than other.
func (s Size) Compare(other Size) int {
	return compare(s.Byte, s.Bit, other.Byte, other.Bit)
}

// Less reports if s is smaller than other.
func (s Size) Less(other Size) bool {
	return s.Compare(other) < 0
}

// IsZero reports if s spans nothing.
func (s Size) IsZero() bool {
	return s.Byte == 0 && s.Bit == 0
}

// Rounded returns the number of bytes needed to hold s.
func (s Size) Rounded() int64 {
	if s.Bit != 0 {
		return s.Byte + 1
	}
	return s.Byte
}

// TotalBits returns s expressed in bits.
func (s Size) TotalBits() int64 {
	return s.Byte*8 + int64(s.Bit)
}

func (s Size) String() string {
	if s.Bit == 0 {
		return fmt.Sprintf("%d bytes", s.Byte)
	}
	return fmt.Sprintf("%d bytes %d bits", s.Byte, s.Bit)
}

func compare(ab int64, abit uint8, bb int64, bbit uint8) int {
	switch {
	case ab < bb:
		return -1
	case ab > bb:
		return 1
	case abit < bbit:
		return -1
	case abit > bbit:
		return 1
	}
	return 0
}
