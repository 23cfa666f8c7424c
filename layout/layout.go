/*
Package layout reads structure types declared in a text file instead of Go code.

A layout file looks like the following:

	// Comments start with //.
	struct Header {
		magic   bytes 4          // File magic.
		version u16 be
		enum 1 V1
		enum 2 V2
		count   u8
		flags   u8 mask
		enum 0x1 COMPRESSED
		enum 0x2 SIGNED
		pad     fill 16
	}

	struct File {
		hdr     struct Header
		entries array hdr.count u32 le hex
		body    switch hdr.version {
			1 bytes 4
			default u64
		}
	}

Each field line is a name, a kind and the arguments of the kind, optionally followed
by a comment that becomes the field description. The kinds are:

	u8 u16 u32 u64 i8 i16 i32 i64 [le|be|net] [hex] [mask]
	bytes REF
	bits N
	pad REF
	fill REF
	struct TYPE
	array REF KIND...
	union TYPE TYPE...
	switch REF {  VALUE KIND...  default KIND...  }

REF is an integer literal or the path of a field declared before, as accepted by
structs.Struct.Lookup(). enum lines following an integer field, or an array of
integers, add enumeration values to it. A TYPE must be declared earlier in the file.
Union interpretations are named after their type.
*/
package layout

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/johnsiilver/halfpike"
	"github.com/pkg/errors"

	"github.com/bearlytools/bindecl/structs"
)

// File is the content of a layout file. It implements halfpike.HalfPike, use Parse()
// or LoadFile() to fill it.
type File struct {
	types map[string]*structs.Type
	order []string
}

// New returns an empty File.
func New() *File {
	return &File{types: map[string]*structs.Type{}}
}

// Parse parses the layout declarations in content.
func Parse(ctx context.Context, content string) (*File, error) {
	f := New()
	if err := halfpike.Parse(ctx, content, f); err != nil {
		return nil, errors.Wrap(err, "layout")
	}
	return f, nil
}

// Type returns the structure type called name.
func (f *File) Type(name string) (*structs.Type, bool) {
	t, ok := f.types[name]
	return t, ok
}

// Names returns the structure type names in declaration order.
func (f *File) Names() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Types returns the structure types in declaration order.
func (f *File) Types() []*structs.Type {
	out := make([]*structs.Type, 0, len(f.order))
	for _, n := range f.order {
		out = append(out, f.types[n])
	}
	return out
}

// Validate implements halfpike.HalfPike.
func (f *File) Validate() error {
	if len(f.order) == 0 {
		return fmt.Errorf("layout declares no struct")
	}
	return nil
}

// Start implements halfpike.HalfPike.
func (f *File) Start(ctx context.Context, p *halfpike.Parser) halfpike.ParseFn {
	return f.FindNext
}

// SkipLinesWithComments moves past lines holding only a comment.
func (f *File) SkipLinesWithComments(p *halfpike.Parser) {
	l := p.Next()

	if len(words(l)) == 0 && !p.EOF(l) {
		f.SkipLinesWithComments(p)
		return
	}
	p.Backup()
}

// FindNext finds the next struct declaration.
func (f *File) FindNext(ctx context.Context, p *halfpike.Parser) halfpike.ParseFn {
	f.SkipLinesWithComments(p)
	l := p.Next()

	w := words(l)
	switch {
	case len(w) > 0 && w[0] == "struct":
		p.Backup()
		return f.ParseStruct
	case p.EOF(l):
		return nil
	}
	return p.Errorf("[Line %d] do not understand this line", l.LineNum)
}

// ParseStruct parses a struct declaration up to its closing brace.
func (f *File) ParseStruct(ctx context.Context, p *halfpike.Parser) halfpike.ParseFn {
	l := p.Next()
	w := words(l)
	if len(w) != 3 || w[2] != "{" {
		return p.Errorf("[Line %d] error: got %q, want: 'struct {{name}} {'", l.LineNum, strings.TrimSpace(l.Raw))
	}
	name := w[1]
	if err := validateIdent(name); err != nil {
		return p.Errorf("[Line %d] error: struct name: %w", l.LineNum, err)
	}
	if _, ok := f.types[name]; ok {
		return p.Errorf("[Line %d] error: struct %q declared twice", l.LineNum, name)
	}

	s := &structDecl{file: f, name: name, desc: comment(l), seen: map[string]bool{}}
	for {
		l = p.Next()
		if p.EOF(l) && len(words(l)) == 0 {
			return p.Errorf("[Line %d]: struct %q: EOF reached before closing '}'", l.LineNum, name)
		}
		w := words(l)
		switch {
		case len(w) == 0:
			continue
		case w[0] == "}":
			if len(w) != 1 {
				return p.Errorf("[Line %d] error: unexpected %q after '}'", l.LineNum, w[1])
			}
			if err := s.flush(); err != nil {
				return p.Errorf("[Line %d] error: %w", l.LineNum, err)
			}
			if len(s.decls) == 0 {
				return p.Errorf("[Line %d] error: struct %q has no fields", l.LineNum, name)
			}
			f.types[name] = structs.NewType(name, s.decls, structs.WithDescription(s.desc))
			f.order = append(f.order, name)
			return f.FindNext
		case w[0] == "enum":
			if err := s.enum(w); err != nil {
				return p.Errorf("[Line %d] error: %w", l.LineNum, err)
			}
		default:
			if err := s.flush(); err != nil {
				return p.Errorf("[Line %d] error: %w", l.LineNum, err)
			}
			if len(w) >= 2 && w[1] == "switch" {
				if err := s.parseSwitch(p, w, comment(l)); err != nil {
					return p.Errorf("[Line %d] error: %w", l.LineNum, err)
				}
				continue
			}
			if err := s.field(w, comment(l)); err != nil {
				return p.Errorf("[Line %d] error: %w", l.LineNum, err)
			}
		}
	}
}

// structDecl collects the fields of one struct while it is parsed. A field line is
// held in pending until the next line, so enum lines can add to it.
type structDecl struct {
	file    *File
	name    string
	desc    string
	decls   []structs.Decl
	seen    map[string]bool
	pending *pendingField
}

type pendingField struct {
	name  string
	kind  []string
	desc  string
	enums []structs.Value
}

func (s *structDecl) field(w []string, desc string) error {
	if len(w) < 2 {
		return errors.Errorf("field %q has no kind", w[0])
	}
	if err := validateIdent(w[0]); err != nil {
		return errors.Wrap(err, "field name")
	}
	if s.seen[w[0]] {
		return errors.Errorf("field %q declared twice", w[0])
	}
	s.pending = &pendingField{name: w[0], kind: w[1:], desc: desc}
	return nil
}

func (s *structDecl) enum(w []string) error {
	if s.pending == nil {
		return errors.New("enum must follow an integer field")
	}
	if !isIntKind(s.pending.kind) {
		return errors.Errorf("enum after field %q, which is not an integer", s.pending.name)
	}
	if len(w) != 3 {
		return errors.New("want: 'enum {{value}} {{name}}'")
	}
	v, err := strconv.ParseUint(w[1], 0, 64)
	if err != nil {
		n, serr := strconv.ParseInt(w[1], 0, 64)
		if serr != nil {
			return errors.Wrapf(err, "enum value %q", w[1])
		}
		v = uint64(n)
	}
	if err := validateIdent(w[2]); err != nil {
		return errors.Wrap(err, "enum name")
	}
	s.pending.enums = append(s.pending.enums, structs.V(v, w[2]))
	return nil
}

// flush turns the pending field line into a declaration.
func (s *structDecl) flush() error {
	pf := s.pending
	if pf == nil {
		return nil
	}
	s.pending = nil

	f, err := s.kind(pf.kind, pf.desc, pf.enums)
	if err != nil {
		return errors.Wrapf(err, "field %q", pf.name)
	}
	s.add(pf.name, f)
	return nil
}

func (s *structDecl) add(name string, f structs.Field) {
	s.decls = append(s.decls, structs.F(name, f))
	s.seen[name] = true
}

var intKinds = map[string]struct {
	width  int
	signed bool
}{
	"u8":  {1, false},
	"u16": {2, false},
	"u32": {4, false},
	"u64": {8, false},
	"i8":  {1, true},
	"i16": {2, true},
	"i32": {4, true},
	"i64": {8, true},
}

func isIntKind(kind []string) bool {
	if len(kind) == 0 {
		return false
	}
	if _, ok := intKinds[kind[0]]; ok {
		return true
	}
	// array REF KIND...
	return kind[0] == "array" && len(kind) > 2 && isIntKind(kind[2:])
}

// kind builds the field declared by w, a kind and its arguments.
func (s *structDecl) kind(w []string, desc string, enums []structs.Value) (structs.Field, error) {
	if len(w) == 0 {
		return nil, errors.New("missing kind")
	}
	var opts []structs.Option
	if desc != "" {
		opts = append(opts, structs.Desc(desc))
	}

	if ik, ok := intKinds[w[0]]; ok {
		return s.integer(ik.width, ik.signed, w[1:], opts, enums)
	}

	switch w[0] {
	case "bytes", "pad", "fill":
		if len(w) != 2 {
			return nil, errors.Errorf("want: '%s {{ref}}'", w[0])
		}
		ref, err := s.ref(w[1])
		if err != nil {
			return nil, err
		}
		switch w[0] {
		case "bytes":
			return structs.NewBytes(ref, opts...), nil
		case "pad":
			return structs.Take(ref, opts...), nil
		}
		return structs.Fill(ref, opts...), nil
	case "bits":
		if len(w) != 2 {
			return nil, errors.New("want: 'bits {{1-7}}'")
		}
		n, err := strconv.Atoi(w[1])
		if err != nil || n < 1 || n > 7 {
			return nil, errors.Errorf("bit width %q is not in [1, 7]", w[1])
		}
		return structs.NewBits(n, opts...), nil
	case "struct":
		if len(w) != 2 {
			return nil, errors.New("want: 'struct {{type}}'")
		}
		t, err := s.typ(w[1])
		if err != nil {
			return nil, err
		}
		return structs.NewSub(t, opts...), nil
	case "array":
		if len(w) < 3 {
			return nil, errors.New("want: 'array {{ref}} {{kind}}...'")
		}
		count, err := s.ref(w[1])
		if err != nil {
			return nil, err
		}
		elem, err := s.kind(w[2:], "", enums)
		if err != nil {
			return nil, errors.Wrap(err, "array element")
		}
		return structs.NewArray(count, elem, opts...), nil
	case "union":
		if len(w) < 3 {
			return nil, errors.New("want: 'union {{type}} {{type}}...'")
		}
		cases := make([]structs.Case, 0, len(w)-1)
		for _, name := range w[1:] {
			t, err := s.typ(name)
			if err != nil {
				return nil, err
			}
			cases = append(cases, structs.Case{Name: name, Type: t})
		}
		return structs.NewUnion(cases, opts...), nil
	case "switch":
		return nil, errors.New("switch must be the only kind of a field line")
	}
	return nil, errors.Errorf("unknown kind %q", w[0])
}

func (s *structDecl) integer(width int, signed bool, args []string, opts []structs.Option, enums []structs.Value) (structs.Field, error) {
	opts = append(opts, structs.Width(width))
	if signed {
		opts = append(opts, structs.Signed())
	}
	if len(enums) > 0 {
		opts = append(opts, structs.Values(enums...))
	}

	mask := false
	for _, a := range args {
		switch a {
		case "le":
			opts = append(opts, structs.Endian(structs.Little))
		case "be":
			opts = append(opts, structs.Endian(structs.Big))
		case "net":
			opts = append(opts, structs.Endian(structs.Network))
		case "hex":
			opts = append(opts, structs.Hex())
		case "mask":
			mask = true
		default:
			return nil, errors.Errorf("unknown integer option %q", a)
		}
	}
	if mask {
		return structs.NewBitMask(opts...), nil
	}
	return structs.NewInt(opts...), nil
}

// parseSwitch reads a switch block: the field line and its case lines up to '}'.
func (s *structDecl) parseSwitch(p *halfpike.Parser, w []string, desc string) error {
	if len(w) != 4 || w[3] != "{" {
		return errors.New("want: '{{name}} switch {{ref}} {'")
	}
	if err := validateIdent(w[0]); err != nil {
		return errors.Wrap(err, "field name")
	}
	if s.seen[w[0]] {
		return errors.Errorf("field %q declared twice", w[0])
	}
	sel, err := s.ref(w[2])
	if err != nil {
		return err
	}

	cases := map[int64]structs.Field{}
	var def structs.Field
	for {
		l := p.Next()
		cw := words(l)
		if p.EOF(l) && len(cw) == 0 {
			return errors.Errorf("switch %q: EOF reached before closing '}'", w[0])
		}
		switch {
		case len(cw) == 0:
			continue
		case cw[0] == "}":
			if len(cases) == 0 && def == nil {
				return errors.Errorf("switch %q has no cases", w[0])
			}
			var opts []structs.Option
			if desc != "" {
				opts = append(opts, structs.Desc(desc))
			}
			s.add(w[0], structs.NewSwitch(sel, cases, def, opts...))
			return nil
		case len(cw) < 2:
			return errors.Errorf("[Line %d] switch case needs a value and a kind", l.LineNum)
		}

		f, err := s.kind(cw[1:], comment(l), nil)
		if err != nil {
			return errors.Wrapf(err, "[Line %d] switch case %s", l.LineNum, cw[0])
		}
		if cw[0] == "default" {
			if def != nil {
				return errors.Errorf("[Line %d] switch %q has two defaults", l.LineNum, w[0])
			}
			def = f
			continue
		}
		v, err := strconv.ParseInt(cw[0], 0, 64)
		if err != nil {
			return errors.Wrapf(err, "[Line %d] switch case value", l.LineNum)
		}
		if _, ok := cases[v]; ok {
			return errors.Errorf("[Line %d] switch %q has two cases for %d", l.LineNum, w[0], v)
		}
		cases[v] = f
	}
}

// ref converts a reference argument: an integer literal or the path of a field
// declared earlier.
func (s *structDecl) ref(arg string) (any, error) {
	if n, err := strconv.ParseInt(arg, 0, 64); err == nil {
		return n, nil
	}
	root := arg
	if i := strings.IndexAny(root, ".["); i >= 0 {
		root = root[:i]
	}
	if !s.seen[root] {
		return nil, errors.Errorf("reference %q does not name a field declared before", arg)
	}
	return structs.Ref(arg), nil
}

func (s *structDecl) typ(name string) (*structs.Type, error) {
	t, ok := s.file.types[name]
	if !ok {
		return nil, errors.Errorf("struct %q is not declared before %q", name, s.name)
	}
	return t, nil
}

// words returns the items of l before any comment.
func words(l halfpike.Line) []string {
	var out []string
	for _, item := range l.Items {
		if strings.HasPrefix(item.Val, "//") {
			break
		}
		if v := strings.TrimSpace(item.Val); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// comment returns the text of the comment ending l, if any.
func comment(l halfpike.Line) string {
	_, c, ok := strings.Cut(l.Raw, "//")
	if !ok {
		return ""
	}
	return strings.TrimSpace(c)
}

func validateIdent(s string) error {
	if s == "" {
		return fmt.Errorf("empty identifier")
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fmt.Errorf("%q is not a valid identifier", s)
		}
	}
	return nil
}
