// Package inspect turns assembled structures into a tree of nodes and renders that
// tree, or the raw buffer, as text, JSON, YAML or a hex dump.
package inspect

import (
	"iter"

	"github.com/bearlytools/bindecl/offset"
	"github.com/bearlytools/bindecl/structs"
)

// Kind is the kind of field a Node was built from.
type Kind string

const (
	KindStruct  Kind = "struct"
	KindUnion   Kind = "union"
	KindArray   Kind = "array"
	KindInt     Kind = "int"
	KindBytes   Kind = "bytes"
	KindBits    Kind = "bits"
	KindMask    Kind = "mask"
	KindPadding Kind = "padding"
	KindOther   Kind = "other"
)

// Node is one field of a structure with its decoded value.
type Node struct {
	// Name is the field name, the interpretation name for a union case or the type
	// name for the root.
	Name string
	Kind Kind
	// Type is the structure type name of struct nodes.
	Type        string
	Description string
	Offset      offset.Offset
	Size        offset.Size

	// Raw is the decoded raw value of leaf nodes.
	Raw any
	// Symbol is the enumeration name of the value, if any.
	Symbol  string
	Display string
	Valid   bool

	// Err is the error met decoding the field. Nodes are built even for fields that
	// cannot be decoded.
	Err error

	Children []*Node
	// More is the number of array elements not expanded because of WithMaxElements.
	More int
}

// Option is an optional argument to Tree.
type Option func(o *options)

type options struct {
	maxElements int
	maxDepth    int
}

// WithMaxElements caps the number of elements expanded per array. n <= 0 means no
// limit. The default is 1024.
func WithMaxElements(n int) Option {
	return func(o *options) {
		o.maxElements = n
	}
}

// WithMaxDepth stops expanding containers deeper than n levels below the root.
// n <= 0 means no limit, which is the default.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// Tree builds the node tree of s.
func Tree(s *structs.Struct, opts ...Option) *Node {
	o := options{maxElements: 1024}
	for _, opt := range opts {
		opt(&o)
	}
	return o.structNode(s.TypeName(), s, 0)
}

func (o options) expand(depth int) bool {
	return o.maxDepth <= 0 || depth < o.maxDepth
}

func (o options) structNode(name string, s *structs.Struct, depth int) *Node {
	n := &Node{
		Name:        name,
		Kind:        KindStruct,
		Type:        s.TypeName(),
		Description: s.Type().Description(),
		Offset:      s.Offset(),
		Size:        s.Size(),
		Display:     s.TypeName(),
		Valid:       true,
	}
	if !o.expand(depth) {
		return n
	}
	for _, bv := range s.All() {
		c := o.fieldNode(bv, depth+1)
		if !c.Valid {
			n.Valid = false
		}
		n.Children = append(n.Children, c)
	}
	return n
}

func (o options) fieldNode(bv *structs.BoundValue, depth int) *Node {
	n := &Node{
		Name:        bv.Name(),
		Kind:        kindOf(bv.Field()),
		Description: bv.Description(),
		Offset:      bv.Offset(),
		Valid:       true,
	}
	size, err := bv.Size()
	if err != nil {
		n.Err, n.Valid = err, false
		return n
	}
	n.Size = size

	switch n.Kind {
	case KindStruct:
		sub, err := bv.Sub()
		if err != nil {
			n.Err, n.Valid = err, false
			return n
		}
		c := o.structNode(bv.Name(), sub, depth)
		if n.Description != "" {
			c.Description = n.Description
		}
		return c
	case KindUnion:
		n.Display = "union"
		if !o.expand(depth) {
			return n
		}
		names, _ := bv.Interps()
		for _, name := range names {
			s, err := bv.Interp(name)
			if err != nil {
				n.Err, n.Valid = err, false
				return n
			}
			n.Children = append(n.Children, o.structNode(name, s, depth+1))
		}
		return n
	case KindArray:
		l, err := bv.Len()
		if err != nil {
			n.Err, n.Valid = err, false
			return n
		}
		show := l
		if o.maxElements > 0 && show > o.maxElements {
			show = o.maxElements
		}
		n.More = l - show
		if !o.expand(depth) {
			n.More = l
			return n
		}
		elems, err := bv.Slice(0, show)
		if err != nil {
			n.Err, n.Valid = err, false
			return n
		}
		for _, e := range elems {
			c := o.fieldNode(e, depth+1)
			if !c.Valid {
				n.Valid = false
			}
			n.Children = append(n.Children, c)
		}
		return n
	}

	v, err := bv.Value()
	if err != nil {
		n.Err, n.Valid = err, false
		return n
	}
	n.Raw, n.Symbol = v.Raw, v.Name
	n.Display, _ = bv.Display()
	n.Valid, _ = bv.Valid()
	return n
}

func kindOf(f structs.Field) Kind {
	switch f.(type) {
	case *structs.SubStruct:
		return KindStruct
	case *structs.Union:
		return KindUnion
	case *structs.Array:
		return KindArray
	case *structs.BitMask:
		return KindMask
	case *structs.Int:
		return KindInt
	case *structs.ByteArray:
		return KindBytes
	case *structs.BitField:
		return KindBits
	case *structs.Padding:
		return KindPadding
	}
	return KindOther
}

// Container reports if n holds other nodes instead of a value.
func (n *Node) Container() bool {
	switch n.Kind {
	case KindStruct, KindUnion, KindArray:
		return true
	}
	return false
}

// Walk yields n and every node below it depth first, with its depth below n.
func (n *Node) Walk() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		n.walk(0, yield)
	}
}

func (n *Node) walk(depth int, yield func(int, *Node) bool) bool {
	if !yield(depth, n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(depth+1, yield) {
			return false
		}
	}
	return true
}
