package structs

import (
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

type padMode uint8

const (
	padTake padMode = iota
	padFill
)

// Padding is a field without value that skips bytes.
type Padding struct {
	common
	mode padMode
	n    any
}

// Take returns padding of n bytes.
func Take(n any, opts ...Option) *Padding {
	return &Padding{common: newCommon(opts), mode: padTake, n: n}
}

// Fill returns padding up to target bytes from the start of the structure. If the
// structure is already past target, the padding is empty.
func Fill(target any, opts ...Option) *Padding {
	return &Padding{common: newCommon(opts), mode: padFill, n: target}
}

// Aligned implements Field.Aligned().
func (f *Padding) Aligned() bool {
	return true
}

// Size implements Field.Size().
func (f *Padding) Size(bv *BoundValue) (offset.Size, error) {
	n, err := ResolveInt(bv.owner, f.n)
	if err != nil {
		return offset.Size{}, err
	}
	if n < 0 {
		return offset.Size{}, &errors.FieldError{Kind: errors.ErrInvalidReference, Msg: "negative padding", Value: n}
	}
	if f.mode == padTake {
		return offset.Bytes(n), nil
	}

	// Relative to the structure start.
	rel := offset.Offset(bv.off.Diff(bv.owner.off))
	target := offset.At(n)
	if target.Compare(rel) <= 0 {
		return offset.Size{}, nil
	}
	return target.Diff(rel), nil
}

// Decode implements Field.Decode(). Padding has no value.
func (f *Padding) Decode(bv *BoundValue) (Value, error) {
	return Value{}, nil
}

// Encode implements Field.Encode(). It writes nothing.
func (f *Padding) Encode(bv *BoundValue, v any) error {
	return nil
}
