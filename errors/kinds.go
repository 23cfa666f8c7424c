package errors

import (
	"fmt"
	"strings"
)

// These are the kinds of failure the structure engine reports. Every error returned
// by the engine matches exactly one of them with Is().
var (
	// ErrAlignment is a byte aligned field placed at a bit offset, or a field whose
	// width is not one it can be encoded with.
	ErrAlignment = New("alignment violation")
	// ErrNotReady is a read of a field that was not initialized yet or is being
	// initialized (a dependency cycle).
	ErrNotReady = New("field not ready")
	// ErrInvalidReference is a size, count or selector reference that does not
	// resolve to the expected type, or names a field outside the structure.
	ErrInvalidReference = New("invalid reference")
	// ErrStructural is a layout that cannot be assembled: union candidates of
	// different sizes, an unmapped selector value, a bad reorder, an unknown field.
	ErrStructural = New("structural mismatch")
	// ErrReadOnly is a write on a read-only buffer.
	ErrReadOnly = New("buffer is read-only")
	// ErrLookup is a registry lookup that matched zero or several structures.
	ErrLookup = New("mapping lookup failed")
	// ErrAbstract is the assembly of a structure that still holds an abstract field.
	ErrAbstract = New("abstract structure")
	// ErrContainer is a write of a container field as a whole.
	ErrContainer = New("containers are read-only, set their content instead")
	// ErrOutOfBounds is a read or write past the end of the buffer.
	ErrOutOfBounds = New("access out of buffer bounds")
	// ErrValue is a value that cannot be encoded by a field: a wrong Go type, an
	// unknown enumeration name or bytes longer than the field.
	ErrValue = New("value cannot be encoded")
)

// FieldError gives the context of an engine failure: which structure and field
// declaration caused it and with what value.
type FieldError struct {
	// Kind is one of the Err* values of this package.
	Kind error
	// Struct is the structure type name.
	Struct string
	// Field is the field name inside Struct.
	Field string
	// Value is the value that was being resolved or written, if any.
	Value any
	// Want and Got are type names for reference errors.
	Want, Got string
	// Msg is a free form detail.
	Msg string
	// Err is an underlying error, if any.
	Err error
}

func (e *FieldError) Error() string {
	b := strings.Builder{}
	b.WriteString(e.Kind.Error())
	if e.Struct != "" || e.Field != "" {
		b.WriteString(" at ")
		b.WriteString(e.Struct)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Want != "" || e.Got != "" {
		fmt.Fprintf(&b, " (want %s, got %s)", e.Want, e.Got)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " [value %v]", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the kind and the underlying error.
func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Errorf returns a FieldError of kind with a formatted message.
func Errorf(kind error, format string, args ...any) *FieldError {
	return &FieldError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At sets the structure and field the error happened at, unless already set by a
// deeper call. It returns e for chaining.
func (e *FieldError) At(structName, field string) *FieldError {
	if e.Struct == "" && e.Field == "" {
		e.Struct, e.Field = structName, field
	}
	return e
}

// TypeOf returns the Type an engine error is reported as when it is wrapped with E().
// Errors of no engine kind are TypeUnknown.
func TypeOf(err error) Type {
	switch {
	case err == nil:
		return TypeUnknown
	case Is(err, ErrAlignment):
		return TypeAlignment
	case Is(err, ErrNotReady):
		return TypeNotReady
	case Is(err, ErrInvalidReference):
		return TypeReference
	case Is(err, ErrStructural), Is(err, ErrAbstract):
		return TypeStructural
	case Is(err, ErrReadOnly):
		return TypeReadOnly
	case Is(err, ErrLookup):
		return TypeLookup
	case Is(err, ErrOutOfBounds):
		return TypeBounds
	case Is(err, ErrContainer), Is(err, ErrValue):
		return TypeParameter
	}
	return TypeUnknown
}
