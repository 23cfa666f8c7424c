// Package binary replaces the encoding/binary package in the standard library for fixed width
// integer encoding using generics. Unlike the standard library it works on any integer
// width picked at runtime and on either byte order.
package binary

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Order is a byte order.
type Order uint8

const (
	// Little is little endian byte order.
	Little Order = 0
	// Big is big endian byte order, also called network order.
	Big Order = 1
)

func (o Order) String() string {
	if o == Big {
		return "big"
	}
	return "little"
}

// ValidWidth reports if n is a width in bytes this package can encode.
func ValidWidth(n int) bool {
	switch n {
	case 1, 2, 4, 8:
		return true
	}
	return false
}

// Uint reads an unsigned integer of len(b) bytes from b. len(b) must be 1, 2, 4 or 8.
func Uint(b []byte, o Order) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		if o == Big {
			return uint64(binary.BigEndian.Uint16(b))
		}
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		if o == Big {
			return uint64(binary.BigEndian.Uint32(b))
		}
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		if o == Big {
			return binary.BigEndian.Uint64(b)
		}
		return binary.LittleEndian.Uint64(b)
	}
	panic(fmt.Sprintf("binary.Uint() called with unsupported width %d", len(b)))
}

// PutUint writes the low len(b) bytes of v into b. Bits of v that do not fit are dropped.
func PutUint(b []byte, o Order, v uint64) {
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		if o == Big {
			binary.BigEndian.PutUint16(b, uint16(v))
			return
		}
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		if o == Big {
			binary.BigEndian.PutUint32(b, uint32(v))
			return
		}
		binary.LittleEndian.PutUint32(b, uint32(v))
	case 8:
		if o == Big {
			binary.BigEndian.PutUint64(b, v)
			return
		}
		binary.LittleEndian.PutUint64(b, v)
	default:
		panic(fmt.Sprintf("binary.PutUint() called with unsupported width %d", len(b)))
	}
}

// SignExtend interprets the low width bytes of u as a two's complement number.
func SignExtend(u uint64, width int) int64 {
	shift := uint(64 - width*8)
	return int64(u<<shift) >> shift
}

// Truncate drops the bits of v that do not fit in width bytes.
func Truncate[T constraints.Integer](v T, width int) uint64 {
	u := uint64(v)
	if width >= 8 {
		return u
	}
	return u & (uint64(1)<<(uint(width)*8) - 1)
}

// ToUint64 converts any Go integer to its two's complement bit pattern. ok is false
// if v is not an integer.
func ToUint64(v any) (u uint64, ok bool) {
	switch x := v.(type) {
	case int:
		return uint64(x), true
	case int8:
		return uint64(x), true
	case int16:
		return uint64(x), true
	case int32:
		return uint64(x), true
	case int64:
		return uint64(x), true
	case uint:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case uintptr:
		return uint64(x), true
	}
	return 0, false
}

// ToInt64 converts any Go integer to an int64. ok is false if v is not an integer.
// uint64 values above the int64 range wrap.
func ToInt64(v any) (int64, bool) {
	u, ok := ToUint64(v)
	return int64(u), ok
}
