package structs

import (
	"fmt"
	"slices"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

// Decl is a named field declaration of a Type.
type Decl struct {
	Name  string
	Field Field
}

// F returns a Decl.
func F(name string, f Field) Decl {
	return Decl{Name: name, Field: f}
}

// ReorderFunc returns the order to assemble the fields of s in. order is the
// declaration order and must not be modified; the result must hold the same names.
// It runs before any field of s is initialized, so it may look at the buffer and at
// other mapped structures but not at fields of s.
type ReorderFunc func(s *Struct, order []string) ([]string, error)

// SetupFunc runs after a structure was mapped with data.Data.Map(). It usually maps
// the structures the fields of s point to.
type SetupFunc func(ctx context.Context, s *Struct, d *data.Data) error

// TypeOption is an optional argument to NewType.
type TypeOption func(t *Type)

// WithReorder sets the function that reorders fields before assembly.
func WithReorder(fn ReorderFunc) TypeOption {
	return func(t *Type) {
		t.reorder = fn
	}
}

// WithSetup sets the function run after the structure is mapped.
func WithSetup(fn SetupFunc) TypeOption {
	return func(t *Type) {
		t.setup = fn
	}
}

// WithDescription sets the description of the type.
func WithDescription(s string) TypeOption {
	return func(t *Type) {
		t.desc = s
	}
}

// Type is a structure type: an ordered list of named fields. A Type is immutable and
// can be used by any number of structures.
type Type struct {
	name    string
	desc    string
	decls   []Decl
	index   map[string]int
	byDecl  map[Field]string
	reorder ReorderFunc
	setup   SetupFunc

	// err is a declaration error reported when assembling.
	err error
}

// NewType returns a structure type named name holding decls in that order.
// Declaration errors, such as two fields with the same name, are reported by New().
func NewType(name string, decls []Decl, opts ...TypeOption) *Type {
	t := &Type{name: name, decls: slices.Clone(decls)}
	for _, o := range opts {
		o(t)
	}
	t.index, t.byDecl, t.err = indexDecls(name, t.decls)
	return t
}

func indexDecls(name string, decls []Decl) (map[string]int, map[Field]string, error) {
	index := make(map[string]int, len(decls))
	byDecl := make(map[Field]string, len(decls))
	var err error
	for i, d := range decls {
		switch {
		case d.Name == "":
			err = errors.Join(err, &errors.FieldError{Kind: errors.ErrStructural, Struct: name, Msg: fmt.Sprintf("field %d has no name", i)})
			continue
		case d.Field == nil:
			err = errors.Join(err, &errors.FieldError{Kind: errors.ErrStructural, Struct: name, Field: d.Name, Msg: "nil field"})
			continue
		}
		if _, ok := index[d.Name]; ok {
			err = errors.Join(err, &errors.FieldError{Kind: errors.ErrStructural, Struct: name, Field: d.Name, Msg: "field declared twice"})
			continue
		}
		index[d.Name] = i
		// A declaration used by two fields cannot be used as a reference.
		if _, ok := byDecl[d.Field]; ok {
			byDecl[d.Field] = ""
		} else {
			byDecl[d.Field] = d.Name
		}
	}
	return index, byDecl, err
}

// Name is the type name.
func (t *Type) Name() string {
	return t.name
}

// Description is the type description.
func (t *Type) Description() string {
	return t.desc
}

// Decls returns the field declarations in declaration order.
func (t *Type) Decls() []Decl {
	return slices.Clone(t.decls)
}

// Extend returns a type named name with the fields of t, where each Decl of overrides
// replaces the field of the same name in place or, for a new name, is appended.
// The reorder and setup functions are kept. This is how abstract fields are given a
// concrete declaration.
func (t *Type) Extend(name string, overrides ...Decl) *Type {
	decls := slices.Clone(t.decls)
	for _, o := range overrides {
		if i, ok := t.index[o.Name]; ok {
			decls[i] = o
			continue
		}
		decls = append(decls, o)
	}
	n := &Type{name: name, desc: t.desc, decls: decls, reorder: t.reorder, setup: t.setup}
	n.index, n.byDecl, n.err = indexDecls(name, n.decls)
	return n
}

// With returns a copy of t with opts applied.
func (t *Type) With(opts ...TypeOption) *Type {
	n := *t
	for _, o := range opts {
		o(&n)
	}
	return &n
}

// New assembles a structure of type t at off in d. It is not registered in d, use
// data.Data.Map() for that.
func (t *Type) New(d *data.Data, off offset.Offset) (*Struct, error) {
	return t.build(d, off, nil)
}

// Instantiate implements data.Layout.
func (t *Type) Instantiate(ctx context.Context, d *data.Data, off offset.Offset) (data.Mapped, error) {
	s, err := t.New(d, off)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// MoveTo returns order with name moved to index idx. It is a helper for ReorderFunc.
func MoveTo(order []string, name string, idx int) ([]string, error) {
	i := slices.Index(order, name)
	if i < 0 {
		return nil, &errors.FieldError{Kind: errors.ErrStructural, Field: name, Msg: "cannot move unknown field"}
	}
	if idx < 0 || idx >= len(order) {
		return nil, &errors.FieldError{Kind: errors.ErrStructural, Field: name, Msg: fmt.Sprintf("cannot move to index %d of %d fields", idx, len(order))}
	}
	out := slices.Delete(slices.Clone(order), i, i+1)
	return slices.Insert(out, idx, name), nil
}
