package structs

import (
	"github.com/bearlytools/bindecl/internal/binary"
	"github.com/bearlytools/bindecl/offset"
)

// Int is an integer field of 1, 2, 4 or 8 bytes.
type Int struct {
	common
}

// NewInt returns an integer field. Without options it is one unsigned byte.
// Options: Desc, Width, Signed, Endian, Values, Valid, Hex.
func NewInt(opts ...Option) *Int {
	return &Int{common: newCommon(opts)}
}

// Aligned implements Field.Aligned().
func (f *Int) Aligned() bool {
	return true
}

// Size implements Field.Size().
func (f *Int) Size(bv *BoundValue) (offset.Size, error) {
	w, err := f.resolveWidth(bv)
	if err != nil {
		return offset.Size{}, err
	}
	return offset.Bytes(int64(w)), nil
}

func (f *Int) read(bv *BoundValue) (uint64, int, error) {
	w, err := f.resolveWidth(bv)
	if err != nil {
		return 0, 0, err
	}
	u, err := bv.data().UnpackUint(bv.off, w, f.order)
	if err != nil {
		return 0, 0, err
	}
	return u, w, nil
}

// Decode implements Field.Decode(). The raw value is an int64 for signed fields and
// a uint64 otherwise.
func (f *Int) Decode(bv *BoundValue) (Value, error) {
	u, w, err := f.read(bv)
	if err != nil {
		return Value{}, err
	}
	var raw any = u
	if f.signed {
		raw = binary.SignExtend(u, w)
	}
	if e, ok := matchInt(f.values, u, w); ok {
		e.Raw = raw
		return e, nil
	}
	return Value{Raw: raw}, nil
}

// Encode implements Field.Encode(). v may be any Go integer, a Value or the name of
// an enumeration entry. Bits that do not fit the width are dropped.
func (f *Int) Encode(bv *BoundValue, v any) error {
	w, err := f.resolveWidth(bv)
	if err != nil {
		return err
	}
	u, err := f.toUint(v)
	if err != nil {
		return err
	}
	return bv.data().PackUint(bv.off, w, f.order, binary.Truncate(u, w))
}

func (f *Int) display(v Value) string {
	return displayValue(v, f.hex)
}
