package structs

import (
	"fmt"

	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

// Array repeats an element field a number of times given by a reference. The
// elements are laid out one after the other and may have different sizes when the
// element size depends on the buffer content.
type Array struct {
	common
	count any
	elem  Field
}

// NewArray returns an array of count elements declared by elem.
// Options: Desc.
func NewArray(count any, elem Field, opts ...Option) *Array {
	return &Array{common: newCommon(opts), count: count, elem: elem}
}

// Elem is the element declaration.
func (f *Array) Elem() Field {
	return f.elem
}

// Aligned implements Field.Aligned(). It is the alignment of the elements.
func (f *Array) Aligned() bool {
	if f.elem == nil {
		return true
	}
	return f.elem.Aligned()
}

// elements binds every element from the current value of the count.
func (f *Array) elements(bv *BoundValue) ([]*BoundValue, error) {
	if f.elem == nil {
		return nil, &errors.FieldError{Kind: errors.ErrStructural, Msg: "array without element field"}
	}
	n, err := ResolveInt(bv.owner, f.count)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &errors.FieldError{Kind: errors.ErrInvalidReference, Msg: "negative array count", Value: n}
	}

	limit := bv.data().Len()
	out := make([]*BoundValue, 0, min(n, limit))
	off := bv.off
	for i := int64(0); i < n; i++ {
		if off.Byte > limit {
			return nil, &errors.FieldError{Kind: errors.ErrOutOfBounds, Msg: fmt.Sprintf("element %d of %d starts at %s", i, n, off)}
		}
		e := newBound(bv.owner, fmt.Sprintf("%s[%d]", bv.name, i), f.elem, off)
		if err := e.bind(); err != nil {
			return nil, e.locate(err)
		}
		// Empty elements never reach the end of the buffer, so the count alone has
		// to stay within it.
		if e.size.IsZero() && n > limit {
			return nil, &errors.FieldError{Kind: errors.ErrInvalidReference, Msg: "array count of empty elements exceeds the buffer length", Value: n}
		}
		out = append(out, e)
		off = off.Add(e.size)
	}
	return out, nil
}

// Size implements Field.Size(). It is the sum of the element sizes.
func (f *Array) Size(bv *BoundValue) (offset.Size, error) {
	elems, err := f.elements(bv)
	if err != nil {
		return offset.Size{}, err
	}
	var total offset.Size
	for _, e := range elems {
		total = total.Add(e.size)
	}
	return total, nil
}

// Decode implements Field.Decode(). The raw value is the []*BoundValue of the
// elements.
func (f *Array) Decode(bv *BoundValue) (Value, error) {
	elems, err := f.elements(bv)
	if err != nil {
		return Value{}, err
	}
	return Value{Raw: elems}, nil
}

// Encode implements Field.Encode(). Use BoundValue.SetIndex() or SetSlice() instead.
func (f *Array) Encode(bv *BoundValue, v any) error {
	return containerEncode()
}

func (bv *BoundValue) elements() ([]*BoundValue, error) {
	if err := bv.ready(); err != nil {
		return nil, err
	}
	a, ok := bv.field.(*Array)
	if !ok {
		return nil, bv.notA("array")
	}
	elems, err := a.elements(bv)
	if err != nil {
		return nil, bv.locate(err)
	}
	return elems, nil
}

// Len returns the current number of elements of an array field.
func (bv *BoundValue) Len() (int, error) {
	elems, err := bv.elements()
	if err != nil {
		return 0, err
	}
	return len(elems), nil
}

// Index returns element i of an array field.
func (bv *BoundValue) Index(i int) (*BoundValue, error) {
	elems, err := bv.elements()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(elems) {
		return nil, bv.locate(&errors.FieldError{Kind: errors.ErrOutOfBounds, Msg: fmt.Sprintf("index %d of %d elements", i, len(elems))})
	}
	return elems[i], nil
}

// Slice returns elements [i:j) of an array field.
func (bv *BoundValue) Slice(i, j int) ([]*BoundValue, error) {
	elems, err := bv.elements()
	if err != nil {
		return nil, err
	}
	if i < 0 || j < i || j > len(elems) {
		return nil, bv.locate(&errors.FieldError{Kind: errors.ErrOutOfBounds, Msg: fmt.Sprintf("slice [%d:%d] of %d elements", i, j, len(elems))})
	}
	return elems[i:j], nil
}

// SetIndex encodes v as element i of an array field.
func (bv *BoundValue) SetIndex(i int, v any) error {
	e, err := bv.Index(i)
	if err != nil {
		return err
	}
	return e.Set(v)
}

// SetSlice encodes vs as the elements starting at i of an array field.
func (bv *BoundValue) SetSlice(i int, vs []any) error {
	elems, err := bv.Slice(i, i+len(vs))
	if err != nil {
		return err
	}
	for k, e := range elems {
		if err := e.Set(vs[k]); err != nil {
			return err
		}
	}
	return nil
}

// Values decodes every element of an array field.
func (bv *BoundValue) Values() ([]Value, error) {
	elems, err := bv.elements()
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(elems))
	for _, e := range elems {
		v, err := e.Value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
