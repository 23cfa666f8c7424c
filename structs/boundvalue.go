package structs

import (
	"fmt"

	"github.com/Velocidex/ordereddict"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

// BoundValue is a field bound to one structure instance. It knows the offset and size
// of the field and decodes its value from the buffer on each read.
type BoundValue struct {
	decl  Field
	field Field
	owner *Struct
	name  string
	off   offset.Offset
	size  offset.Size
	state initStatus

	// sub is the nested structure of a substructure field.
	sub *Struct
	// interps holds the interpretations of a union field, name to *Struct.
	interps *ordereddict.Dict
}

func newBound(owner *Struct, name string, decl Field, off offset.Offset) *BoundValue {
	return &BoundValue{decl: decl, field: decl, owner: owner, name: name, off: off}
}

// bind runs the initialization of the field: factory substitution, alignment check,
// per instance state and size.
func (bv *BoundValue) bind() error {
	bv.state = statusInProgress

	for {
		f, ok := bv.field.(Factory)
		if !ok {
			break
		}
		c, err := f.Select(bv.owner)
		if err != nil {
			return err
		}
		if c == nil {
			return &errors.FieldError{Kind: errors.ErrStructural, Msg: "factory selected no field"}
		}
		bv.field = c
	}

	if bv.field.Aligned() && !bv.off.Aligned() {
		return &errors.FieldError{Kind: errors.ErrAlignment, Msg: fmt.Sprintf("byte aligned field at offset %s", bv.off)}
	}
	if in, ok := bv.field.(initializer); ok {
		if err := in.init(bv); err != nil {
			return err
		}
	}
	size, err := bv.field.Size(bv)
	if err != nil {
		return err
	}
	bv.size = size
	bv.state = statusReady
	return nil
}

func (bv *BoundValue) ready() error {
	if bv.state != statusReady {
		return &errors.FieldError{
			Kind:   errors.ErrNotReady,
			Struct: bv.owner.TypeName(),
			Field:  bv.name,
			Msg:    "initialization " + bv.state.String(),
		}
	}
	return nil
}

func (bv *BoundValue) locate(err error) error {
	var fe *errors.FieldError
	if errors.As(err, &fe) {
		fe.At(bv.owner.TypeName(), bv.name)
	}
	return err
}

// Field is the field bound. For a factory declaration this is the field it selected.
func (bv *BoundValue) Field() Field {
	return bv.field
}

// Decl is the field as declared in the structure type.
func (bv *BoundValue) Decl() Field {
	return bv.decl
}

// Owner is the structure the field belongs to.
func (bv *BoundValue) Owner() *Struct {
	return bv.owner
}

// Name is the field name. Array elements are named name[i].
func (bv *BoundValue) Name() string {
	return bv.name
}

// Description is the description of the field.
func (bv *BoundValue) Description() string {
	return bv.field.Description()
}

// Offset is the absolute offset of the field in the buffer.
func (bv *BoundValue) Offset() offset.Offset {
	return bv.off
}

// Size recomputes the size of the field from the current buffer content. It can
// differ from the size the field had when the structure was assembled if the field
// depends on a value that was written since.
func (bv *BoundValue) Size() (offset.Size, error) {
	if err := bv.ready(); err != nil {
		return offset.Size{}, err
	}
	s, err := bv.field.Size(bv)
	if err != nil {
		return offset.Size{}, bv.locate(err)
	}
	return s, nil
}

// Value decodes the value of the field.
func (bv *BoundValue) Value() (Value, error) {
	if err := bv.ready(); err != nil {
		return Value{}, err
	}
	v, err := bv.field.Decode(bv)
	if err != nil {
		return Value{}, bv.locate(err)
	}
	return v, nil
}

// Raw decodes the raw value of the field.
func (bv *BoundValue) Raw() (any, error) {
	v, err := bv.Value()
	if err != nil {
		return nil, err
	}
	return v.Raw, nil
}

// Set encodes v into the buffer as the value of the field.
func (bv *BoundValue) Set(v any) error {
	if err := bv.ready(); err != nil {
		return err
	}
	if err := bv.field.Encode(bv, v); err != nil {
		return bv.locate(err)
	}
	return nil
}

// Valid reports if the decoded value passes the validator of its enumeration entry
// and the validator of the field.
func (bv *BoundValue) Valid() (bool, error) {
	v, err := bv.Value()
	if err != nil {
		return false, err
	}
	if v.Valid != nil && !v.Valid(v.Raw) {
		return false, nil
	}
	if f, ok := bv.field.(validated); ok {
		if fn := f.validator(); fn != nil && !fn(v.Raw) {
			return false, nil
		}
	}
	return true, nil
}

// Display returns the human readable form of the value.
func (bv *BoundValue) Display() (string, error) {
	v, err := bv.Value()
	if err != nil {
		return "", err
	}
	if d, ok := bv.field.(displayer); ok {
		return d.display(v), nil
	}
	return displayValue(v, false), nil
}

// Sub returns the nested structure of a substructure field.
func (bv *BoundValue) Sub() (*Struct, error) {
	if err := bv.ready(); err != nil {
		return nil, err
	}
	if bv.sub == nil {
		return nil, bv.notA("substructure")
	}
	return bv.sub, nil
}

// Child returns the field called name in the nested structure of a substructure field.
func (bv *BoundValue) Child(name string) (*BoundValue, error) {
	s, err := bv.Sub()
	if err != nil {
		return nil, err
	}
	return s.Field(name)
}

// Children returns the field names of a substructure, the interpretation names of
// a union or the element names of an array, in order. Other fields have none.
func (bv *BoundValue) Children() ([]string, error) {
	if err := bv.ready(); err != nil {
		return nil, err
	}
	switch {
	case bv.sub != nil:
		return bv.sub.Names(), nil
	case bv.interps != nil:
		return bv.interps.Keys(), nil
	}
	if _, ok := bv.field.(*Array); ok {
		elems, err := bv.elements()
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(elems))
		for _, e := range elems {
			names = append(names, e.name)
		}
		return names, nil
	}
	return nil, nil
}

// Interp returns the interpretation called name of a union field.
func (bv *BoundValue) Interp(name string) (*Struct, error) {
	if err := bv.ready(); err != nil {
		return nil, err
	}
	if bv.interps == nil {
		return nil, bv.notA("union")
	}
	v, ok := bv.interps.Get(name)
	if !ok {
		return nil, bv.locate(&errors.FieldError{Kind: errors.ErrStructural, Msg: fmt.Sprintf("union has no interpretation %q", name)})
	}
	return v.(*Struct), nil
}

// Interps returns the interpretation names of a union field in declaration order.
func (bv *BoundValue) Interps() ([]string, error) {
	if err := bv.ready(); err != nil {
		return nil, err
	}
	if bv.interps == nil {
		return nil, bv.notA("union")
	}
	return bv.interps.Keys(), nil
}

func (bv *BoundValue) notA(kind string) error {
	return &errors.FieldError{
		Kind:   errors.ErrStructural,
		Struct: bv.owner.TypeName(),
		Field:  bv.name,
		Msg:    "field is not a " + kind,
	}
}

// data returns the buffer the field is read from.
func (bv *BoundValue) data() *data.Data {
	return bv.owner.data
}
