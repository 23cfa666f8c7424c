package structs

import (
	"fmt"

	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

// ByteArray is a run of bytes whose length is a reference.
type ByteArray struct {
	common
	length any
}

// NewBytes returns a byte array field of length bytes.
// Options: Desc, Values, Valid.
func NewBytes(length any, opts ...Option) *ByteArray {
	return &ByteArray{common: newCommon(opts), length: length}
}

// Aligned implements Field.Aligned().
func (f *ByteArray) Aligned() bool {
	return true
}

func (f *ByteArray) resolveLen(bv *BoundValue) (int64, error) {
	n, err := ResolveInt(bv.owner, f.length)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &errors.FieldError{Kind: errors.ErrInvalidReference, Msg: "negative length", Value: n}
	}
	return n, nil
}

// Size implements Field.Size().
func (f *ByteArray) Size(bv *BoundValue) (offset.Size, error) {
	n, err := f.resolveLen(bv)
	if err != nil {
		return offset.Size{}, err
	}
	return offset.Bytes(n), nil
}

// Decode implements Field.Decode(). The raw value is a []byte.
func (f *ByteArray) Decode(bv *BoundValue) (Value, error) {
	n, err := f.resolveLen(bv)
	if err != nil {
		return Value{}, err
	}
	b, err := bv.data().Unpack(bv.off, n)
	if err != nil {
		return Value{}, err
	}
	for _, e := range f.values {
		if equal(b, e.Raw) {
			e.Raw = b
			return e, nil
		}
	}
	return Value{Raw: b}, nil
}

// Encode implements Field.Encode(). v is a []byte, a string or a Value holding one.
// A shorter value is padded with zero bytes on the right, a longer one is refused.
func (f *ByteArray) Encode(bv *BoundValue, v any) error {
	n, err := f.resolveLen(bv)
	if err != nil {
		return err
	}
	var b []byte
	switch x := v.(type) {
	case Value:
		return f.Encode(bv, x.Raw)
	case []byte:
		b = x
	case string:
		b = []byte(x)
	default:
		return &errors.FieldError{Kind: errors.ErrValue, Want: "[]byte", Got: typeName(v), Value: v}
	}
	if int64(len(b)) > n {
		return &errors.FieldError{Kind: errors.ErrValue, Msg: fmt.Sprintf("%d bytes do not fit in %d", len(b), n)}
	}
	out := make([]byte, n)
	copy(out, b)
	return bv.data().Pack(bv.off, out)
}
