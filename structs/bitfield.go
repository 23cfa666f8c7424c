package structs

import (
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/internal/binary"
	"github.com/bearlytools/bindecl/internal/bits"
	"github.com/bearlytools/bindecl/offset"
)

// BitField is an unsigned integer of 1 to 7 bits. It can start at any bit and can
// run over into the next byte. The first bit of a byte is its most significant bit.
type BitField struct {
	common
	bits int
}

// NewBits returns a bit field of width bits.
// Options: Desc, Values, Valid, Hex.
func NewBits(width int, opts ...Option) *BitField {
	return &BitField{common: newCommon(opts), bits: width}
}

// Aligned implements Field.Aligned().
func (f *BitField) Aligned() bool {
	return false
}

func (f *BitField) check() error {
	if f.bits < 1 || f.bits > 7 {
		return &errors.FieldError{Kind: errors.ErrAlignment, Msg: "bit field width must be between 1 and 7", Value: f.bits}
	}
	return nil
}

// Size implements Field.Size().
func (f *BitField) Size(bv *BoundValue) (offset.Size, error) {
	if err := f.check(); err != nil {
		return offset.Size{}, err
	}
	return offset.Bits(int64(f.bits)), nil
}

// word reads the bytes bv spans as the high end of a 16 bit big endian word. n is
// 1 when the field ends in its first byte, 2 when it runs into the next one, which
// must exist.
func (f *BitField) word(bv *BoundValue) (word uint16, n int64, err error) {
	n = 1
	if int(bv.off.Bit)+f.bits > 8 {
		n = 2
	}
	b, err := bv.data().Unpack(offset.At(bv.off.Byte), n)
	if err != nil {
		return 0, 0, err
	}
	word = uint16(b[0]) << 8
	if n == 2 {
		word |= uint16(b[1])
	}
	return word, n, nil
}

// Decode implements Field.Decode(). The raw value is a uint64.
func (f *BitField) Decode(bv *BoundValue) (Value, error) {
	if err := f.check(); err != nil {
		return Value{}, err
	}
	word, _, err := f.word(bv)
	if err != nil {
		return Value{}, err
	}
	mask, shift := bits.WordMask(bv.off.Bit, uint8(f.bits))
	u := uint64(bits.GetValue[uint16, uint16](word, mask, shift))
	if e, ok := matchInt(f.values, u, 1); ok {
		e.Raw = u
		return e, nil
	}
	return Value{Raw: u}, nil
}

// Encode implements Field.Encode(). v may be any Go integer, a Value or the name of
// an enumeration entry. Bits that do not fit are dropped.
func (f *BitField) Encode(bv *BoundValue, v any) error {
	if err := f.check(); err != nil {
		return err
	}
	u, err := f.toUint(v)
	if err != nil {
		return err
	}
	word, n, err := f.word(bv)
	if err != nil {
		return err
	}
	mask, shift := bits.WordMask(bv.off.Bit, uint8(f.bits))
	word = bits.SetValue(u, word, mask, shift)

	b := make([]byte, 2)
	binary.PutUint(b, binary.Big, uint64(word))
	return bv.data().Pack(offset.At(bv.off.Byte), b[:n])
}

func (f *BitField) display(v Value) string {
	return displayValue(v, f.hex)
}
