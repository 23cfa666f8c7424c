package structs

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

// Struct is a structure assembled over a buffer. It holds no copy of the bytes.
type Struct struct {
	typ    *Type
	data   *data.Data
	off    offset.Offset
	parent *Struct

	order  []string
	values map[string]*BoundValue
	size   offset.Size
}

// build assembles a structure of type t at off. Fields are initialized one after
// the other in the (possibly reordered) field order, each starting where the
// previous one ends.
func (t *Type) build(d *data.Data, off offset.Offset, parent *Struct) (*Struct, error) {
	if t.err != nil {
		return nil, t.err
	}
	if d == nil {
		return nil, &errors.FieldError{Kind: errors.ErrStructural, Struct: t.name, Msg: "nil buffer"}
	}
	for _, decl := range t.decls {
		if _, ok := decl.Field.(*AbstractField); ok {
			return nil, &errors.FieldError{Kind: errors.ErrAbstract, Struct: t.name, Field: decl.Name, Msg: "abstract field must be overridden"}
		}
	}

	s := &Struct{
		typ:    t,
		data:   d,
		off:    off,
		parent: parent,
		values: make(map[string]*BoundValue, len(t.decls)),
	}

	order := make([]string, 0, len(t.decls))
	for _, decl := range t.decls {
		order = append(order, decl.Name)
	}
	if t.reorder != nil {
		n, err := t.reorder(s, slices.Clone(order))
		if err != nil {
			var fe *errors.FieldError
			if errors.As(err, &fe) {
				fe.At(t.name, "")
			}
			return nil, err
		}
		if err := samePermutation(order, n); err != nil {
			return nil, err.At(t.name, "")
		}
		order = n
	}
	s.order = order

	cur := off
	for _, name := range order {
		bv := newBound(s, name, t.decls[t.index[name]].Field, cur)
		s.values[name] = bv
		if err := bv.bind(); err != nil {
			return nil, bv.locate(err)
		}
		cur = cur.Add(bv.size)
	}
	s.size = cur.Diff(off)
	return s, nil
}

func samePermutation(want, got []string) *errors.FieldError {
	if len(want) != len(got) {
		return &errors.FieldError{Kind: errors.ErrStructural, Msg: fmt.Sprintf("reorder returned %d fields, want %d", len(got), len(want))}
	}
	a, b := slices.Clone(want), slices.Clone(got)
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		return &errors.FieldError{Kind: errors.ErrStructural, Msg: fmt.Sprintf("reorder returned fields %v, want a permutation of %v", got, want)}
	}
	return nil
}

// Type is the type of the structure.
func (s *Struct) Type() *Type {
	return s.typ
}

// TypeName is the name of the type of the structure.
func (s *Struct) TypeName() string {
	return s.typ.name
}

// Data is the buffer the structure is read from.
func (s *Struct) Data() *data.Data {
	return s.data
}

// Offset is the absolute offset of the structure.
func (s *Struct) Offset() offset.Offset {
	return s.off
}

// Parent is the structure holding s as a substructure, union case or array element.
// It is nil for a structure assembled with New() or mapped.
func (s *Struct) Parent() *Struct {
	return s.parent
}

// Size is the sum of the field sizes at assembly.
func (s *Struct) Size() offset.Size {
	return s.size
}

// Names returns the field names in assembly order.
func (s *Struct) Names() []string {
	return slices.Clone(s.order)
}

// All iterates over the fields in assembly order. During assembly it yields only
// the fields bound so far.
func (s *Struct) All() iter.Seq2[string, *BoundValue] {
	return func(yield func(string, *BoundValue) bool) {
		for _, name := range s.order {
			bv, ok := s.values[name]
			if !ok {
				return
			}
			if !yield(name, bv) {
				return
			}
		}
	}
}

// Field returns the field called name. A field that is not initialized yet, or is
// being initialized, fails with errors.ErrNotReady.
func (s *Struct) Field(name string) (*BoundValue, error) {
	bv, ok := s.values[name]
	if !ok {
		if _, declared := s.typ.index[name]; declared {
			return nil, &errors.FieldError{Kind: errors.ErrNotReady, Struct: s.TypeName(), Field: name, Msg: "initialization " + statusNotStarted.String()}
		}
		return nil, &errors.FieldError{Kind: errors.ErrStructural, Struct: s.TypeName(), Field: name, Msg: "no such field"}
	}
	if err := bv.ready(); err != nil {
		return nil, err
	}
	return bv, nil
}

// FieldOf returns the field declared as f in the type of s.
func (s *Struct) FieldOf(f Field) (*BoundValue, error) {
	name, ok := s.typ.byDecl[f]
	if !ok || name == "" {
		return nil, &errors.FieldError{
			Kind:   errors.ErrInvalidReference,
			Struct: s.TypeName(),
			Msg:    "referenced field is not declared once in the structure",
			Got:    typeName(f),
		}
	}
	return s.Field(name)
}

// Get decodes the value of the field called name.
func (s *Struct) Get(name string) (Value, error) {
	bv, err := s.Field(name)
	if err != nil {
		return Value{}, err
	}
	return bv.Value()
}

// Set encodes v as the value of the field called name.
func (s *Struct) Set(name string, v any) error {
	bv, err := s.Field(name)
	if err != nil {
		return err
	}
	return bv.Set(v)
}

// Setup runs the setup function of the type. It implements data.Setupper.
func (s *Struct) Setup(ctx context.Context, d *data.Data) error {
	if s.typ.setup == nil {
		return nil
	}
	return s.typ.setup(ctx, s, d)
}

// Lookup returns the field at path. A path is a dot separated list of field names,
// each optionally followed by array indexes, like "hdr.sections[2].name". A union
// field is followed by the name of the interpretation: "bar.a.a1".
func (s *Struct) Lookup(path string) (*BoundValue, error) {
	segs := strings.Split(path, ".")
	cur := s
	var bv *BoundValue
	for i := 0; i < len(segs); i++ {
		if cur == nil {
			return nil, &errors.FieldError{Kind: errors.ErrStructural, Struct: s.TypeName(), Msg: fmt.Sprintf("%q: %s has no fields", path, bv.name)}
		}
		name, idxs, err := parseSegment(segs[i])
		if err != nil {
			return nil, &errors.FieldError{Kind: errors.ErrStructural, Struct: s.TypeName(), Msg: fmt.Sprintf("bad path %q", path), Err: err}
		}
		bv, err = cur.Field(name)
		if err != nil {
			return nil, err
		}
		for _, idx := range idxs {
			if bv, err = bv.Index(idx); err != nil {
				return nil, err
			}
		}

		cur = nil
		switch {
		case bv.sub != nil:
			cur = bv.sub
		case bv.interps != nil && i+1 < len(segs):
			i++
			if cur, err = bv.Interp(segs[i]); err != nil {
				return nil, err
			}
		}
	}
	return bv, nil
}

// parseSegment splits "name[1][2]" into its name and indexes.
func parseSegment(seg string) (string, []int, error) {
	name, rest, ok := strings.Cut(seg, "[")
	if !ok {
		return seg, nil, nil
	}
	if name == "" {
		return "", nil, fmt.Errorf("empty name in %q", seg)
	}
	var idxs []int
	rest = "[" + rest
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, fmt.Errorf("bad index in %q", seg)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, fmt.Errorf("unclosed index in %q", seg)
		}
		i, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, fmt.Errorf("bad index in %q: %w", seg, err)
		}
		idxs = append(idxs, i)
		rest = rest[end+1:]
	}
	return name, idxs, nil
}

func (s *Struct) String() string {
	return fmt.Sprintf("%s@%s", s.TypeName(), s.off)
}
