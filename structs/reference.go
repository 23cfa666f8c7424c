package structs

import (
	"fmt"

	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/internal/binary"
)

// RefFunc is a reference computed from the structure instance. Its result is
// resolved again, so it may return a literal, a Field, a *BoundValue or another RefFunc.
//
// References are how sizes, counts and selectors depend on other fields. A reference
// is one of:
//   - an integer literal of any Go integer type
//   - a Field declared in the same structure
//   - a *BoundValue
//   - a RefFunc (or a func(*Struct) (any, error))
type RefFunc func(s *Struct) (any, error)

// Ref returns a reference to the field called name in the same structure. name may
// be a path accepted by Struct.Lookup().
func Ref(name string) RefFunc {
	return func(s *Struct) (any, error) {
		return s.Lookup(name)
	}
}

// Resolve resolves ref in s down to a raw value.
func Resolve(s *Struct, ref any) (any, error) {
	switch r := ref.(type) {
	case RefFunc:
		v, err := r(s)
		if err != nil {
			return nil, err
		}
		return Resolve(s, v)
	case func(*Struct) (any, error):
		return Resolve(s, RefFunc(r))
	case *BoundValue:
		v, err := r.Value()
		if err != nil {
			return nil, err
		}
		return v.Raw, nil
	case Value:
		return r.Raw, nil
	case Field:
		bv, err := s.FieldOf(r)
		if err != nil {
			return nil, err
		}
		return Resolve(s, bv)
	}
	return ref, nil
}

// ResolveInt resolves ref in s to an integer.
func ResolveInt(s *Struct, ref any) (int64, error) {
	if ref == nil {
		return 0, &errors.FieldError{Kind: errors.ErrInvalidReference, Msg: "missing reference"}
	}
	v, err := Resolve(s, ref)
	if err != nil {
		return 0, err
	}
	i, ok := binary.ToInt64(v)
	if !ok {
		return 0, &errors.FieldError{Kind: errors.ErrInvalidReference, Want: "integer", Got: typeName(v), Value: v}
	}
	return i, nil
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
