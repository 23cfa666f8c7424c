package structs

import (
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

// AbstractField is a placeholder that a Type derived with Extend must override.
// A structure still holding one cannot be assembled.
type AbstractField struct {
	common
}

// Abstract returns a placeholder field.
func Abstract(opts ...Option) *AbstractField {
	return &AbstractField{common: newCommon(opts)}
}

func (f *AbstractField) err() error {
	return &errors.FieldError{Kind: errors.ErrAbstract, Msg: "abstract field must be overridden"}
}

// Aligned implements Field.Aligned().
func (f *AbstractField) Aligned() bool {
	return true
}

// Size implements Field.Size().
func (f *AbstractField) Size(bv *BoundValue) (offset.Size, error) {
	return offset.Size{}, f.err()
}

// Decode implements Field.Decode().
func (f *AbstractField) Decode(bv *BoundValue) (Value, error) {
	return Value{}, f.err()
}

// Encode implements Field.Encode().
func (f *AbstractField) Encode(bv *BoundValue, v any) error {
	return f.err()
}
