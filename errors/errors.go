// Package errors provides the errors package for bindecl. It includes all of the stdlib's
// functions and types, the error categories used when wrapping with E() and the
// error kinds raised by the structure engine.
package errors

import (
	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/errors"
)

//go:generate go tool github.com/johnsiilver/stringer -type=Category -linecomment

// Category represents the category of the error.
type Category uint32

func (c Category) Category() string {
	return c.String()
}

const (
	// CatUnknown represents an unknown category. This should not be used.
	CatUnknown Category = Category(0) // Unknown
	// CatUser represents an error that is caused by bad user input, which for this
	// package nearly always means a bad structure declaration or a bad file.
	CatUser Category = Category(1) // User
	// CatInternal represents an internal error.
	CatInternal Category = Category(2) // Internal
)

//go:generate go tool github.com/johnsiilver/stringer -type=Type -linecomment

// Type represents the type of the error.
type Type uint16

func (t Type) Type() string {
	return t.String()
}

const (
	// TypeUnknown represents an unknown type.
	TypeUnknown Type = Type(0) // Unknown
	// TypeParameter represents an error with a parameter that didn't pass validation.
	TypeParameter Type = Type(2) // Parameter
	// TypeFS represents an error with the file system.
	TypeFS Type = Type(5) // FS

	// TypeAlignment is a field placed at a bit offset it cannot live at.
	TypeAlignment Type = Type(100) // Alignment
	// TypeNotReady is a read of a field that is not initialized.
	TypeNotReady Type = Type(101) // NotReady
	// TypeReference is a reference that did not resolve to the wanted type.
	TypeReference Type = Type(102) // Reference
	// TypeStructural is a layout that cannot be assembled.
	TypeStructural Type = Type(103) // Structural
	// TypeReadOnly is a write to a read-only buffer.
	TypeReadOnly Type = Type(104) // ReadOnly
	// TypeLookup is a registry lookup that did not find exactly one structure.
	TypeLookup Type = Type(105) // Lookup
	// TypeBounds is a read or write past the end of the buffer, usually a truncated file.
	TypeBounds Type = Type(106) // Bounds
)

// LogAttrer is an interface that can be implemented by an error to return a list of attributes
// used in logging.
type LogAttrer = errors.LogAttrer

// Error is the error type returned by E(). Error implements github.com/gostdlib/base/errors.E .
type Error = errors.Error

// EOption is an optional argument for E().
type EOption = errors.EOption

// WithCallNum is used if you need to set the runtime.CallNum() in order to get the correct filename and line.
// This defaults to 1 which sets to the frame of the caller of E().
func WithCallNum(i int) EOption {
	return errors.WithCallNum(i)
}

// E creates a new Error with the given parameters.
func E(ctx context.Context, c errors.Category, t errors.Type, msg error, options ...errors.EOption) Error {
	// We are a wrapper, so the caller is one frame further up. If the caller set
	// the call number, theirs wins.
	opts := make([]errors.EOption, 0, len(options)+1)
	opts = append(opts, WithCallNum(2))
	opts = append(opts, options...)

	return errors.E(ctx, c, t, msg, opts...)
}
