package structs

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/Velocidex/ordereddict"

	"github.com/bearlytools/bindecl/internal/binary"
)

// Validator reports if a decoded raw value is valid.
type Validator func(raw any) bool

// Value is a decoded value. Fields that declare an enumeration return the matching
// entry with Raw replaced by the decoded value. A value matching no entry has no
// Name.
//
// Raw holds a uint64 (unsigned integer and bit fields), an int64 (signed integer
// fields), a []byte (byte arrays), a Mask (bit masks), a *Struct (substructures),
// a []*BoundValue (arrays), an *ordereddict.Dict of name to *Struct (unions) or nil
// (padding).
type Value struct {
	Raw         any
	Name        string
	Description string
	// Valid, if set, is checked by BoundValue.Valid().
	Valid Validator
}

// V returns an enumeration entry. desc is optional.
func V(raw any, name string, desc ...string) Value {
	v := Value{Raw: raw, Name: name}
	if len(desc) > 0 {
		v.Description = desc[0]
	}
	return v
}

// WithValid returns v with a validator attached.
func (v Value) WithValid(fn Validator) Value {
	v.Valid = fn
	return v
}

// String returns the name of the value, or its raw form if it has none.
func (v Value) String() string {
	if v.Name != "" {
		return v.Name
	}
	return formatRaw(v.Raw, false)
}

// Equals returns a Validator that accepts raw values equal to want. Integers compare
// by two's complement bit pattern, strings compare to byte arrays by content.
func Equals(want any) Validator {
	return func(raw any) bool {
		return equal(raw, want)
	}
}

// Invalid is a Validator that refuses every value. It marks enumeration entries that
// are recognized but not valid.
func Invalid(raw any) bool {
	return false
}

func equal(raw, want any) bool {
	if w, ok := binary.ToUint64(want); ok {
		r, ok := binary.ToUint64(raw)
		return ok && r == w
	}
	switch w := want.(type) {
	case []byte:
		r, ok := raw.([]byte)
		return ok && bytes.Equal(r, w)
	case string:
		if r, ok := raw.([]byte); ok {
			return string(r) == w
		}
		r, ok := raw.(string)
		return ok && r == w
	}
	return reflect.DeepEqual(raw, want)
}

// matchInt finds the enumeration entry of values whose raw integer matches u once
// both are truncated to width bytes.
func matchInt(values []Value, u uint64, width int) (Value, bool) {
	for _, v := range values {
		r, ok := binary.ToUint64(v.Raw)
		if !ok {
			continue
		}
		if binary.Truncate(r, width) == binary.Truncate(u, width) {
			return v, true
		}
	}
	return Value{}, false
}

// byName finds the enumeration entry called name.
func byName(values []Value, name string) (Value, bool) {
	for _, v := range values {
		if v.Name == name {
			return v, true
		}
	}
	return Value{}, false
}

func formatRaw(raw any, hex bool) string {
	switch r := raw.(type) {
	case nil:
		return ""
	case uint64:
		if hex {
			return fmt.Sprintf("%#x", r)
		}
		return fmt.Sprintf("%d", r)
	case int64:
		if hex {
			if r < 0 {
				return fmt.Sprintf("-%#x", -r)
			}
			return fmt.Sprintf("%#x", r)
		}
		return fmt.Sprintf("%d", r)
	case []byte:
		return fmt.Sprintf("% x", r)
	case []*BoundValue:
		return fmt.Sprintf("[%d elements]", len(r))
	case *ordereddict.Dict:
		return "union of " + strings.Join(r.Keys(), ", ")
	case fmt.Stringer:
		return r.String()
	}
	return fmt.Sprintf("%v", raw)
}

// displayValue renders v as "NAME (raw)", or just one of them if the other is empty.
func displayValue(v Value, hex bool) string {
	raw := formatRaw(v.Raw, hex)
	switch {
	case v.Name == "":
		return raw
	case raw == "":
		return v.Name
	}
	b := getBuffer()
	defer putBuffer(b)

	b.WriteString(v.Name)
	b.WriteString(" (")
	b.WriteString(raw)
	b.WriteString(")")
	return b.String()
}
