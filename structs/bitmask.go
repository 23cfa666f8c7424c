package structs

import (
	"fmt"
	"strings"

	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/internal/binary"
)

// Mask is the decoded value of a BitMask field.
type Mask struct {
	// Bits is the integer as read.
	Bits uint64
	// Flags are the declared flags that have at least one bit set, in declaration
	// order. The Raw of each is the bits of Bits under the flag.
	Flags []Value
	// Rest is the bits set in Bits that no declared flag covers.
	Rest uint64
}

// Has reports if the flag called name is set.
func (m Mask) Has(name string) bool {
	for _, f := range m.Flags {
		if f.Name == name {
			return true
		}
	}
	return false
}

// String renders the mask as a bit-OR of the flag names and the residual bits.
func (m Mask) String() string {
	if len(m.Flags) == 0 {
		return fmt.Sprintf("%#x", m.Rest)
	}
	b := getBuffer()
	defer putBuffer(b)

	for i, f := range m.Flags {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(f.Name)
	}
	if m.Rest != 0 {
		fmt.Fprintf(b, " | %#x", m.Rest)
	}
	return b.String()
}

// BitMask is an integer field whose enumeration values are flags: single bits or
// multi bit masks. It decodes to a Mask, so no bit is lost.
type BitMask struct {
	Int
}

// NewBitMask returns a bit mask field. Without options it is one byte.
// Options: Desc, Width, Endian, Values (the flags), Valid.
func NewBitMask(opts ...Option) *BitMask {
	return &BitMask{Int: Int{common: newCommon(opts)}}
}

// Decode implements Field.Decode(). The raw value is a Mask.
func (f *BitMask) Decode(bv *BoundValue) (Value, error) {
	u, _, err := f.read(bv)
	if err != nil {
		return Value{}, err
	}
	m := Mask{Bits: u, Rest: u}
	for _, v := range f.values {
		flag, ok := binary.ToUint64(v.Raw)
		if !ok || flag == 0 || u&flag == 0 {
			continue
		}
		v.Raw = u & flag
		m.Flags = append(m.Flags, v)
		m.Rest &^= flag
	}
	return Value{Raw: m}, nil
}

// Encode implements Field.Encode(). v may be a Mask, any Go integer, a flag name,
// several flag names separated by "|", or a []string of flag names.
func (f *BitMask) Encode(bv *BoundValue, v any) error {
	switch x := v.(type) {
	case Value:
		return f.Encode(bv, x.Raw)
	case Mask:
		return f.Int.Encode(bv, x.Bits)
	case string:
		return f.Encode(bv, strings.Split(x, "|"))
	case []string:
		var u uint64
		for _, name := range x {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			e, ok := byName(f.values, name)
			if !ok {
				return &errors.FieldError{Kind: errors.ErrValue, Msg: "unknown flag", Value: name}
			}
			flag, _ := binary.ToUint64(e.Raw)
			u |= flag
		}
		return f.Int.Encode(bv, u)
	}
	return f.Int.Encode(bv, v)
}

func (f *BitMask) display(v Value) string {
	if m, ok := v.Raw.(Mask); ok {
		return m.String()
	}
	return displayValue(v, true)
}
