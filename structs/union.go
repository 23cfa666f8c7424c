package structs

import (
	"fmt"

	"github.com/Velocidex/ordereddict"

	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

// Case is a named interpretation of a Union.
type Case struct {
	Name string
	Type *Type
}

// Union reads the same bytes as several structures. All of them must have the same
// size.
type Union struct {
	common
	cases []Case
}

// NewUnion returns a union of at least two cases.
// Options: Desc.
func NewUnion(cases []Case, opts ...Option) *Union {
	return &Union{common: newCommon(opts), cases: cases}
}

// Cases returns the interpretations of the union.
func (f *Union) Cases() []Case {
	out := make([]Case, len(f.cases))
	copy(out, f.cases)
	return out
}

// Aligned implements Field.Aligned().
func (f *Union) Aligned() bool {
	return true
}

func (f *Union) init(bv *BoundValue) error {
	if len(f.cases) < 2 {
		return &errors.FieldError{Kind: errors.ErrStructural, Msg: fmt.Sprintf("union needs at least 2 cases, has %d", len(f.cases))}
	}

	interps := ordereddict.NewDict()
	var (
		size  offset.Size
		first string
	)
	for i, c := range f.cases {
		if c.Type == nil {
			return &errors.FieldError{Kind: errors.ErrStructural, Msg: fmt.Sprintf("union case %q without type", c.Name)}
		}
		if _, ok := interps.Get(c.Name); ok {
			return &errors.FieldError{Kind: errors.ErrStructural, Msg: fmt.Sprintf("union case %q declared twice", c.Name)}
		}
		s, err := c.Type.build(bv.data(), bv.off, bv.owner)
		if err != nil {
			return err
		}
		if i == 0 {
			size, first = s.Size(), c.Name
		} else if s.Size() != size {
			return &errors.FieldError{
				Kind: errors.ErrStructural,
				Msg:  fmt.Sprintf("union case %q is %s, case %q is %s", c.Name, s.Size(), first, size),
			}
		}
		interps.Set(c.Name, s)
	}
	bv.interps = interps
	return nil
}

// Size implements Field.Size(). It is the size shared by all cases.
func (f *Union) Size(bv *BoundValue) (offset.Size, error) {
	v, _ := bv.interps.Get(f.cases[0].Name)
	return v.(*Struct).Size(), nil
}

// Decode implements Field.Decode(). The raw value is an *ordereddict.Dict of case
// name to *Struct.
func (f *Union) Decode(bv *BoundValue) (Value, error) {
	return Value{Raw: bv.interps}, nil
}

// Encode implements Field.Encode(). Set the fields of an interpretation instead.
func (f *Union) Encode(bv *BoundValue, v any) error {
	return containerEncode()
}
