package structs

import (
	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/offset"
)

// Map assembles a structure of type t at off in d and registers it. See data.Data.Map().
func Map(ctx context.Context, d *data.Data, off offset.Offset, t *Type) (*Struct, error) {
	m, err := d.Map(ctx, off, t)
	if err != nil {
		return nil, err
	}
	return m.(*Struct), nil
}

// MapArray maps n consecutive structures of type t from off. See data.Data.MapArray().
func MapArray(ctx context.Context, d *data.Data, off offset.Offset, n int, t *Type) ([]*Struct, error) {
	ms, err := d.MapArray(ctx, off, n, t)
	if err != nil {
		return nil, err
	}
	return toStructs(ms), nil
}

// MapFill maps structures of type t from off to the end of d. See data.Data.MapFill().
func MapFill(ctx context.Context, d *data.Data, off offset.Offset, t *Type) ([]*Struct, error) {
	ms, err := d.MapFill(ctx, off, t)
	if err != nil {
		return nil, err
	}
	return toStructs(ms), nil
}

// Mapped returns the structure of type t mapped at off in d.
func Mapped(d *data.Data, off offset.Offset, t *Type) (*Struct, error) {
	m, err := d.Lookup(off, func(m data.Mapped) bool {
		s, ok := m.(*Struct)
		return ok && s.typ == t
	})
	if err != nil {
		return nil, err
	}
	return m.(*Struct), nil
}

func toStructs(ms []data.Mapped) []*Struct {
	out := make([]*Struct, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.(*Struct))
	}
	return out
}
