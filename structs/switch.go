package structs

import (
	"fmt"

	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

// Switch is a Factory that picks the field to use from the value of a selector
// reference.
type Switch struct {
	common
	selector any
	cases    map[int64]Field
	def      Field
}

// NewSwitch returns a Switch. def is used for selector values missing from cases
// and may be nil, in which case such values fail to assemble.
func NewSwitch(selector any, cases map[int64]Field, def Field, opts ...Option) *Switch {
	return &Switch{common: newCommon(opts), selector: selector, cases: cases, def: def}
}

// Select implements Factory.Select().
func (f *Switch) Select(s *Struct) (Field, error) {
	v, err := ResolveInt(s, f.selector)
	if err != nil {
		return nil, err
	}
	if c, ok := f.cases[v]; ok {
		return c, nil
	}
	if f.def != nil {
		return f.def, nil
	}
	return nil, &errors.FieldError{Kind: errors.ErrStructural, Msg: fmt.Sprintf("no case for selector value %d", v), Value: v}
}

func (f *Switch) unselected() error {
	return &errors.FieldError{Kind: errors.ErrStructural, Msg: "switch was not replaced by a case"}
}

// Aligned implements Field.Aligned().
func (f *Switch) Aligned() bool {
	return false
}

// Size implements Field.Size().
func (f *Switch) Size(bv *BoundValue) (offset.Size, error) {
	return offset.Size{}, f.unselected()
}

// Decode implements Field.Decode().
func (f *Switch) Decode(bv *BoundValue) (Value, error) {
	return Value{}, f.unselected()
}

// Encode implements Field.Encode().
func (f *Switch) Encode(bv *BoundValue, v any) error {
	return f.unselected()
}
