package structs

import (
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

// containerEncode is the error of writing a container as a whole.
func containerEncode() error {
	return &errors.FieldError{Kind: errors.ErrContainer}
}

// SubStruct embeds a structure of another Type at the current offset.
type SubStruct struct {
	common
	typ *Type
}

// NewSub returns a field holding a structure of type t.
// Options: Desc.
func NewSub(t *Type, opts ...Option) *SubStruct {
	return &SubStruct{common: newCommon(opts), typ: t}
}

// Type is the type of the nested structure.
func (f *SubStruct) Type() *Type {
	return f.typ
}

// Aligned implements Field.Aligned().
func (f *SubStruct) Aligned() bool {
	return true
}

func (f *SubStruct) init(bv *BoundValue) error {
	if f.typ == nil {
		return &errors.FieldError{Kind: errors.ErrStructural, Msg: "substructure without type"}
	}
	s, err := f.typ.build(bv.data(), bv.off, bv.owner)
	if err != nil {
		return err
	}
	bv.sub = s
	return nil
}

// Size implements Field.Size(). It is the size of the nested structure.
func (f *SubStruct) Size(bv *BoundValue) (offset.Size, error) {
	return bv.sub.Size(), nil
}

// Decode implements Field.Decode(). The raw value is the *Struct.
func (f *SubStruct) Decode(bv *BoundValue) (Value, error) {
	return Value{Raw: bv.sub}, nil
}

// Encode implements Field.Encode(). Set the fields of the nested structure instead.
func (f *SubStruct) Encode(bv *BoundValue, v any) error {
	return containerEncode()
}

func (f *SubStruct) display(v Value) string {
	return f.typ.Name()
}
