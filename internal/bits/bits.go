// Package bits holds generic helpers to read and write runs of bits inside unsigned numbers.
// Bit positions count from the least significant bit, starting at 0.
package bits

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Mask creates a mask for setting, getting and clearing a set of bits.
// start is the bit location you wish to start at and end is the bit you wish to end at (exclusive).
// So Mask(1, 4) will create a mask that includes bits at location 1 to 3.
// If start >= end or end is past the width of U, this panics.
func Mask[U constraints.Unsigned](start, end uint64) U {
	size := uint64(width[U]())
	if start >= end {
		panic("start cannot be >= end")
	}
	if end > size {
		panic(fmt.Sprintf("end cannot be %d, as that is the largest amount of bits in an %d bit number", end, size))
	}
	n := end - start
	if n == 64 {
		all := ^uint64(0)
		return U(all)
	}
	return U(((uint64(1) << n) - 1) << start)
}

// GetValue retrieves the value stored in "store" under bitMask, shifted down by start.
func GetValue[U, U1 constraints.Unsigned](store U, bitMask U, start uint64) U1 {
	return U1((store & bitMask) >> start)
}

// SetValue stores "val" in "store" at the bits covered by bitMask, starting at bit start.
// The bits under the mask are cleared first. Bits of val that do not fit are dropped.
func SetValue[I, U constraints.Unsigned](val I, store U, bitMask U, start uint64) U {
	store &^= bitMask
	return store | ((U(val) << start) & bitMask)
}

// WordMask returns the mask and shift for a field of w bits that starts at bit
// offset off counted from the most significant bit of a 16 bit big endian word.
// This is the layout of bit fields: the first declared bits are the high bits of
// the first byte, and a field may run into the next byte.
func WordMask(off, w uint8) (mask uint16, shift uint64) {
	if w == 0 || int(off)+int(w) > 16 {
		panic(fmt.Sprintf("a %d bit field cannot start at bit %d of a 16 bit word", w, off))
	}
	shift = uint64(16 - off - w)
	return Mask[uint16](shift, shift+uint64(w)), shift
}

func width[U constraints.Unsigned]() int {
	var u U
	switch any(u).(type) {
	case uint8:
		return 8
	case uint16:
		return 16
	case uint32:
		return 32
	case uint64:
		return 64
	case uint:
		return bits.UintSize
	}
	panic(fmt.Sprintf("U must be of type uint8/uint16/uint32/uint64, was %T", u))
}
