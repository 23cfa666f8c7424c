// Package structs is the structure decoding engine. A Type is an ordered list of
// named field declarations. Assembling a Type over a data.Data at some offset gives
// a Struct, where every field is bound to its offset and size as a BoundValue.
//
// Field declarations are stateless and shared by every Struct of a Type. Everything
// that depends on the instance (offsets, substructures, initialization status) lives
// in the BoundValue. Values are decoded from the buffer on every read, so a write
// through any structure is seen by every other structure over the same bytes.
package structs

import (
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/internal/binary"
	"github.com/bearlytools/bindecl/offset"
)

// Field is a field declaration.
type Field interface {
	// Description is the human readable description of the field.
	Description() string
	// Aligned reports if the field must start on a byte boundary.
	Aligned() bool
	// Decode reads the value of the field bound as bv.
	Decode(bv *BoundValue) (Value, error)
	// Encode writes v as the value of the field bound as bv.
	Encode(bv *BoundValue, v any) error
	// Size computes the size of the field bound as bv.
	Size(bv *BoundValue) (offset.Size, error)
}

// Factory is a declaration that replaces itself by a concrete Field when a structure
// is assembled. It is not decoded itself.
type Factory interface {
	Field
	// Select returns the Field to use in s.
	Select(s *Struct) (Field, error)
}

// initializer is implemented by fields that build state for a BoundValue (a nested
// structure) before its size is known.
type initializer interface {
	init(bv *BoundValue) error
}

// displayer is implemented by fields with their own display form.
type displayer interface {
	display(v Value) string
}

// validated is implemented by fields with a Validator.
type validated interface {
	validator() Validator
}

// Order is a byte order.
type Order = binary.Order

const (
	// Little is little endian byte order. It is the default.
	Little = binary.Little
	// Big is big endian byte order.
	Big = binary.Big
	// Network is big endian byte order.
	Network = binary.Big
)

// common holds what every field kind accepts as Option.
type common struct {
	desc   string
	width  any
	signed bool
	order  Order
	values []Value
	valid  Validator
	hex    bool
}

// Option is an optional argument to a field constructor. Options that make no sense
// for a field kind are ignored by it.
type Option func(c *common)

// Desc sets the description of the field.
func Desc(s string) Option {
	return func(c *common) {
		c.desc = s
	}
}

// Width sets the width in bytes of an integer or bit mask field. It is a reference,
// so the width can depend on other fields. The default is 1.
func Width(ref any) Option {
	return func(c *common) {
		c.width = ref
	}
}

// Signed makes an integer field decode as two's complement.
func Signed() Option {
	return func(c *common) {
		c.signed = true
	}
}

// Endian sets the byte order of an integer or bit mask field.
func Endian(o Order) Option {
	return func(c *common) {
		c.order = o
	}
}

// Values declares the enumeration of known values. For bit masks these are the flags.
func Values(vs ...Value) Option {
	return func(c *common) {
		c.values = append(c.values, vs...)
	}
}

// Valid sets a Validator checked by BoundValue.Valid().
func Valid(fn Validator) Option {
	return func(c *common) {
		c.valid = fn
	}
}

// Hex displays integer values in hexadecimal.
func Hex() Option {
	return func(c *common) {
		c.hex = true
	}
}

func newCommon(opts []Option) common {
	c := common{width: 1, order: Little}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Description implements Field.Description().
func (c *common) Description() string {
	return c.desc
}

func (c *common) validator() Validator {
	return c.valid
}

// resolveWidth resolves the integer width of the field in the structure owning bv.
func (c *common) resolveWidth(bv *BoundValue) (int, error) {
	w, err := ResolveInt(bv.owner, c.width)
	if err != nil {
		return 0, err
	}
	if !binary.ValidWidth(int(w)) {
		return 0, &errors.FieldError{Kind: errors.ErrAlignment, Msg: "integer width must be 1, 2, 4 or 8 bytes", Value: w}
	}
	return int(w), nil
}

// toUint converts v to the bit pattern to encode. v may be any Go integer, a Value or
// the name of an enumeration entry.
func (c *common) toUint(v any) (uint64, error) {
	switch x := v.(type) {
	case Value:
		return c.toUint(x.Raw)
	case string:
		e, ok := byName(c.values, x)
		if !ok {
			return 0, &errors.FieldError{Kind: errors.ErrValue, Msg: "unknown enumeration name", Value: x}
		}
		return c.toUint(e.Raw)
	}
	u, ok := binary.ToUint64(v)
	if !ok {
		return 0, &errors.FieldError{Kind: errors.ErrValue, Want: "integer", Got: typeName(v), Value: v}
	}
	return u, nil
}
