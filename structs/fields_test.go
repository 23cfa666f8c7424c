package structs

import (
	"encoding/hex"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %s", s, err)
	}
	return b
}

// single assembles a structure holding one field "bar" over buf.
func single(t *testing.T, f Field, buf []byte) *Struct {
	t.Helper()
	s, err := NewType("Foo", []Decl{F("bar", f)}).New(data.New(buf), offset.At(0))
	if err != nil {
		t.Fatalf("New() error: %s", err)
	}
	return s
}

func TestInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		buf  string
		want any
	}{
		{name: "default", buf: "42", want: uint64(0x42)},
		{name: "16", opts: []Option{Width(2)}, buf: "4342", want: uint64(0x4243)},
		{name: "32", opts: []Option{Width(4)}, buf: "45444342", want: uint64(0x42434445)},
		{name: "64", opts: []Option{Width(8)}, buf: "4948474645444342", want: uint64(0x4243444546474849)},
		{name: "little 32", opts: []Option{Width(4), Endian(Little)}, buf: "45444342", want: uint64(0x42434445)},
		{name: "big 8", opts: []Option{Endian(Big)}, buf: "42", want: uint64(0x42)},
		{name: "big 16", opts: []Option{Width(2), Endian(Big)}, buf: "4243", want: uint64(0x4243)},
		{name: "big 32", opts: []Option{Width(4), Endian(Big)}, buf: "42434445", want: uint64(0x42434445)},
		{name: "big 64", opts: []Option{Width(8), Endian(Big)}, buf: "4243444546474849", want: uint64(0x4243444546474849)},
		{name: "network 16", opts: []Option{Width(2), Endian(Network)}, buf: "4243", want: uint64(0x4243)},
		{name: "network 64", opts: []Option{Width(8), Endian(Network)}, buf: "4243444546474849", want: uint64(0x4243444546474849)},
		{name: "signed 8", opts: []Option{Signed()}, buf: "be", want: int64(-0x42)},
		{name: "signed 16", opts: []Option{Width(2), Signed()}, buf: "beff", want: int64(-0x42)},
		{name: "signed 32", opts: []Option{Width(4), Signed()}, buf: "beffffff", want: int64(-0x42)},
		{name: "signed 64", opts: []Option{Width(8), Signed()}, buf: "beffffffffffffff", want: int64(-0x42)},
		{name: "signed positive", opts: []Option{Signed()}, buf: "42", want: int64(0x42)},
	}

	for _, test := range tests {
		buf := fromHex(t, test.buf)
		s := single(t, NewInt(test.opts...), buf)

		bv, err := s.Field("bar")
		if err != nil {
			t.Errorf("[TestInt(%s)]: Field() error: %s", test.name, err)
			continue
		}
		got, err := bv.Raw()
		if err != nil {
			t.Errorf("[TestInt(%s)]: Raw() error: %s", test.name, err)
			continue
		}
		if diff := pretty.Compare(test.want, got); diff != "" {
			t.Errorf("[TestInt(%s)]: -want +got:\n%s", test.name, diff)
		}
		if got, want := s.Size(), offset.Bytes(int64(len(buf))); got != want {
			t.Errorf("[TestInt(%s)]: Size() got %s, want %s", test.name, got, want)
		}

		// Writing the value back leaves the bytes untouched.
		orig := append([]byte(nil), buf...)
		for i := range buf {
			buf[i] = 0
		}
		if err := bv.Set(test.want); err != nil {
			t.Errorf("[TestInt(%s)]: Set() error: %s", test.name, err)
			continue
		}
		if diff := pretty.Compare(orig, buf); diff != "" {
			t.Errorf("[TestInt(%s)]: Set() bytes -want +got:\n%s", test.name, diff)
		}
	}
}

func TestIntEncode(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)
	s := single(t, NewInt(Width(4), Endian(Big), Values(V(0x42434445, "MAGIC", "The magic"))), buf)

	if err := s.Set("bar", "MAGIC"); err != nil {
		t.Fatalf("[TestIntEncode]: Set(name) error: %s", err)
	}
	if diff := pretty.Compare(fromHex(t, "42434445"), buf); diff != "" {
		t.Errorf("[TestIntEncode]: Set(name) -want +got:\n%s", diff)
	}
	v, err := s.Get("bar")
	if err != nil {
		t.Fatalf("[TestIntEncode]: Get() error: %s", err)
	}
	if v.Name != "MAGIC" || v.Description != "The magic" || v.Raw != uint64(0x42434445) {
		t.Errorf("[TestIntEncode]: Get() got %+v", v)
	}

	// Wraps around.
	if err := s.Set("bar", uint64(0x0108048832)); err != nil {
		t.Fatalf("[TestIntEncode]: Set(wide) error: %s", err)
	}
	if diff := pretty.Compare(fromHex(t, "08048832"), buf); diff != "" {
		t.Errorf("[TestIntEncode]: Set(wide) -want +got:\n%s", diff)
	}

	tests := []struct {
		name string
		v    any
	}{
		{name: "unknown name", v: "NOPE"},
		{name: "bytes", v: []byte{1}},
		{name: "float", v: 1.5},
	}
	for _, test := range tests {
		if err := s.Set("bar", test.v); !errors.Is(err, errors.ErrValue) {
			t.Errorf("[TestIntEncode(%s)]: got err == %v, want ErrValue", test.name, err)
		}
	}
}

func TestIntWidth(t *testing.T) {
	t.Parallel()

	for _, w := range []int{0, 3, 16} {
		_, err := NewType("Foo", []Decl{F("bar", NewInt(Width(w)))}).New(data.New(make([]byte, 16)), offset.At(0))
		if !errors.Is(err, errors.ErrAlignment) {
			t.Errorf("[TestIntWidth(%d)]: got err == %v, want ErrAlignment", w, err)
		}
	}
}

func TestIntDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f    Field
		buf  string
		want string
	}{
		{name: "decimal", f: NewInt(), buf: "2a", want: "42"},
		{name: "hex", f: NewInt(Hex(), Width(2)), buf: "2a00", want: "0x2a"},
		{name: "enum", f: NewInt(Values(V(2, "ELFCLASS64"))), buf: "02", want: "ELFCLASS64 (2)"},
		{name: "negative hex", f: NewInt(Hex(), Signed()), buf: "be", want: "-0x42"},
		{name: "bytes", f: NewBytes(2), buf: "4243", want: "42 43"},
	}

	for _, test := range tests {
		s := single(t, test.f, fromHex(t, test.buf))
		bv, _ := s.Field("bar")
		got, err := bv.Display()
		if err != nil {
			t.Errorf("[TestIntDisplay(%s)]: Display() error: %s", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("[TestIntDisplay(%s)]: got %q, want %q", test.name, got, test.want)
		}
	}
}

func TestBytes(t *testing.T) {
	t.Parallel()

	buf := fromHex(t, "03414243ff")
	length := NewInt()
	typ := NewType("Foo", []Decl{
		F("length", length),
		F("name", NewBytes(length)),
		F("end", NewInt()),
	})
	s, err := typ.New(data.New(buf), offset.At(0))
	if err != nil {
		t.Fatalf("[TestBytes]: New() error: %s", err)
	}

	v, err := s.Get("name")
	if err != nil {
		t.Fatalf("[TestBytes]: Get() error: %s", err)
	}
	if diff := pretty.Compare([]byte("ABC"), v.Raw); diff != "" {
		t.Errorf("[TestBytes]: -want +got:\n%s", diff)
	}
	if v, _ := s.Get("end"); v.Raw != uint64(0xff) {
		t.Errorf("[TestBytes]: end got %v, want 0xff", v.Raw)
	}

	// Short values are zero filled.
	if err := s.Set("name", "Z"); err != nil {
		t.Fatalf("[TestBytes]: Set(short) error: %s", err)
	}
	if diff := pretty.Compare(fromHex(t, "035a0000ff"), buf); diff != "" {
		t.Errorf("[TestBytes]: Set(short) -want +got:\n%s", diff)
	}

	// Long values are refused and nothing is written.
	if err := s.Set("name", []byte("WXYZ")); !errors.Is(err, errors.ErrValue) {
		t.Errorf("[TestBytes]: Set(long) got err == %v, want ErrValue", err)
	}
	if diff := pretty.Compare(fromHex(t, "035a0000ff"), buf); diff != "" {
		t.Errorf("[TestBytes]: Set(long) changed the buffer -want +got:\n%s", diff)
	}
	if err := s.Set("name", 12); !errors.Is(err, errors.ErrValue) {
		t.Errorf("[TestBytes]: Set(int) got err == %v, want ErrValue", err)
	}
}

func TestBytesLengthPastEnd(t *testing.T) {
	t.Parallel()

	n := NewInt(Width(8))
	typ := NewType("Foo", []Decl{
		F("n", n),
		F("b", NewBytes(n)),
	})
	s, err := typ.New(data.New(fromHex(t, "ffffffffffffff7f4243")), offset.At(0))
	if err != nil {
		t.Fatalf("[TestBytesLengthPastEnd]: New() error: %s", err)
	}
	if _, err := s.Get("b"); !errors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("[TestBytesLengthPastEnd]: got err == %v, want ErrOutOfBounds", err)
	}
}

func TestBits(t *testing.T) {
	t.Parallel()

	buf := fromHex(t, "a942")
	typ := NewType("Foo", []Decl{
		F("bar1", NewBits(2)),
		F("bar2", NewBits(4)),
		F("bar3", NewBits(2)),
		F("bar4", NewInt()),
	})
	s, err := typ.New(data.New(buf), offset.At(0))
	if err != nil {
		t.Fatalf("[TestBits]: New() error: %s", err)
	}

	want := []struct {
		name string
		raw  uint64
		off  offset.Offset
	}{
		{"bar1", 0b10, offset.AtBit(0, 0)},
		{"bar2", 0b1010, offset.AtBit(0, 2)},
		{"bar3", 0b01, offset.AtBit(0, 6)},
		{"bar4", 0x42, offset.At(1)},
	}
	for _, w := range want {
		bv, err := s.Field(w.name)
		if err != nil {
			t.Fatalf("[TestBits(%s)]: Field() error: %s", w.name, err)
		}
		raw, err := bv.Raw()
		if err != nil {
			t.Fatalf("[TestBits(%s)]: Raw() error: %s", w.name, err)
		}
		if raw != w.raw {
			t.Errorf("[TestBits(%s)]: got %#b, want %#b", w.name, raw, w.raw)
		}
		if bv.Offset() != w.off {
			t.Errorf("[TestBits(%s)]: Offset() got %s, want %s", w.name, bv.Offset(), w.off)
		}
	}

	if err := s.Set("bar2", 0b0101); err != nil {
		t.Fatalf("[TestBits]: Set() error: %s", err)
	}
	if diff := pretty.Compare(fromHex(t, "9542"), buf); diff != "" {
		t.Errorf("[TestBits]: Set() -want +got:\n%s", diff)
	}
}

func TestBitsStraddle(t *testing.T) {
	t.Parallel()

	buf := []byte{0b0000_0011, 0b1100_0000}
	typ := NewType("Foo", []Decl{
		F("a", NewBits(6)),
		F("b", NewBits(4)),
	})
	s, err := typ.New(data.New(buf), offset.At(0))
	if err != nil {
		t.Fatalf("[TestBitsStraddle]: New() error: %s", err)
	}
	if v, _ := s.Get("b"); v.Raw != uint64(0xf) {
		t.Errorf("[TestBitsStraddle]: got %v, want 0xf", v.Raw)
	}
	if got, want := s.Size(), offset.Bits(10); got != want {
		t.Errorf("[TestBitsStraddle]: Size() got %s, want %s", got, want)
	}

	if err := s.Set("b", 0b1001); err != nil {
		t.Fatalf("[TestBitsStraddle]: Set() error: %s", err)
	}
	if diff := pretty.Compare([]byte{0b0000_0010, 0b0100_0000}, buf); diff != "" {
		t.Errorf("[TestBitsStraddle]: Set() -want +got:\n%s", diff)
	}

	// The last byte of a buffer is read without the byte after it.
	s = single(t, NewBits(3), []byte{0b1010_0000})
	if v, _ := s.Get("bar"); v.Raw != uint64(0b101) {
		t.Errorf("[TestBitsStraddle(last byte)]: got %v, want 0b101", v.Raw)
	}
}

func TestBitsPastEnd(t *testing.T) {
	t.Parallel()

	buf := []byte{0xff}
	typ := NewType("Foo", []Decl{
		F("a", NewBits(7)),
		F("b", NewBits(4)),
	})
	s, err := typ.New(data.New(buf), offset.At(0))
	if err != nil {
		t.Fatalf("[TestBitsPastEnd]: New() error: %s", err)
	}
	if v, err := s.Get("a"); err != nil || v.Raw != uint64(0x7f) {
		t.Errorf("[TestBitsPastEnd(a)]: got %v, %v, want 0x7f, nil", v.Raw, err)
	}
	if _, err := s.Get("b"); !errors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("[TestBitsPastEnd(decode)]: got err == %v, want ErrOutOfBounds", err)
	}
	if err := s.Set("b", 0); !errors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("[TestBitsPastEnd(encode)]: got err == %v, want ErrOutOfBounds", err)
	}
	if diff := pretty.Compare([]byte{0xff}, buf); diff != "" {
		t.Errorf("[TestBitsPastEnd]: buffer changed -want +got:\n%s", diff)
	}
}

func TestBitsAlignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		decls []Decl
	}{
		{name: "int after bits", decls: []Decl{F("a", NewBits(2)), F("b", NewInt())}},
		{name: "zero width", decls: []Decl{F("a", NewBits(0))}},
		{name: "8 bits", decls: []Decl{F("a", NewBits(8))}},
	}

	for _, test := range tests {
		_, err := NewType("Foo", test.decls).New(data.New(fromHex(t, "4243")), offset.At(0))
		if !errors.Is(err, errors.ErrAlignment) {
			t.Errorf("[TestBitsAlignment(%s)]: got err == %v, want ErrAlignment", test.name, err)
		}
	}
}

func TestBitMask(t *testing.T) {
	t.Parallel()

	buf := []byte{0x3d}
	s := single(t, NewBitMask(Values(
		V(0x1, "PF_X"),
		V(0x2, "PF_W"),
		V(0x4, "PF_R"),
		V(0xf0, "PF_MASK"),
	)), buf)

	v, err := s.Get("bar")
	if err != nil {
		t.Fatalf("[TestBitMask]: Get() error: %s", err)
	}
	m, ok := v.Raw.(Mask)
	if !ok {
		t.Fatalf("[TestBitMask]: got %T, want Mask", v.Raw)
	}
	var names []string
	for _, f := range m.Flags {
		names = append(names, f.Name)
	}
	if diff := pretty.Compare([]string{"PF_X", "PF_R", "PF_MASK"}, names); diff != "" {
		t.Errorf("[TestBitMask]: flags -want +got:\n%s", diff)
	}
	if m.Rest != 0x8 || m.Bits != 0x3d {
		t.Errorf("[TestBitMask]: got Rest %#x Bits %#x, want 0x8 0x3d", m.Rest, m.Bits)
	}
	if !m.Has("PF_R") || m.Has("PF_W") {
		t.Errorf("[TestBitMask]: Has() is wrong")
	}

	bv, _ := s.Field("bar")
	if got, _ := bv.Display(); got != "PF_X | PF_R | PF_MASK | 0x8" {
		t.Errorf("[TestBitMask]: Display() got %q", got)
	}

	if err := s.Set("bar", "PF_W | PF_R"); err != nil {
		t.Fatalf("[TestBitMask]: Set() error: %s", err)
	}
	if buf[0] != 0x06 {
		t.Errorf("[TestBitMask]: Set() got %#x, want 0x06", buf[0])
	}
	if err := s.Set("bar", "PF_NOPE"); !errors.Is(err, errors.ErrValue) {
		t.Errorf("[TestBitMask]: Set(unknown) got err == %v, want ErrValue", err)
	}
}

func TestPadding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pad      Field
		wantSize offset.Size
	}{
		{name: "take", pad: Take(5), wantSize: offset.Bytes(6)},
		{name: "fill", pad: Fill(6), wantSize: offset.Bytes(6)},
		{name: "fill passed", pad: Fill(0), wantSize: offset.Bytes(1)},
		{name: "fill exact", pad: Fill(1), wantSize: offset.Bytes(1)},
	}

	for _, test := range tests {
		buf := fromHex(t, "42000000000043")
		typ := NewType("Foo", []Decl{F("a", NewInt()), F("pad", test.pad)})
		s, err := typ.New(data.New(buf), offset.At(1))
		if err != nil {
			t.Errorf("[TestPadding(%s)]: New() error: %s", test.name, err)
			continue
		}
		if s.Size() != test.wantSize {
			t.Errorf("[TestPadding(%s)]: Size() got %s, want %s", test.name, s.Size(), test.wantSize)
		}
		v, err := s.Get("pad")
		if err != nil || v.Raw != nil {
			t.Errorf("[TestPadding(%s)]: Get() got %v, %v, want no value", test.name, v.Raw, err)
		}
		if err := s.Set("pad", 1); err != nil {
			t.Errorf("[TestPadding(%s)]: Set() error: %s", test.name, err)
		}
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	typ := NewType("Ident", []Decl{
		F("magic", NewBytes(4, Valid(Equals("\x7fELF")))),
		F("class", NewInt(Values(
			V(0, "ELFCLASSNONE", "Invalid class").WithValid(Invalid),
			V(1, "ELFCLASS32"),
		))),
	})

	tests := []struct {
		name      string
		buf       string
		wantMagic bool
		wantClass bool
	}{
		{name: "valid", buf: "7f454c4601", wantMagic: true, wantClass: true},
		{name: "bad magic", buf: "7f454c4701", wantMagic: false, wantClass: true},
		{name: "invalid class", buf: "7f454c4600", wantMagic: true, wantClass: false},
		{name: "unknown class", buf: "7f454c4607", wantMagic: true, wantClass: true},
	}

	for _, test := range tests {
		s, err := typ.New(data.New(fromHex(t, test.buf)), offset.At(0))
		if err != nil {
			t.Fatalf("[TestValid(%s)]: New() error: %s", test.name, err)
		}
		for name, want := range map[string]bool{"magic": test.wantMagic, "class": test.wantClass} {
			bv, _ := s.Field(name)
			got, err := bv.Valid()
			if err != nil {
				t.Errorf("[TestValid(%s)]: Valid(%s) error: %s", test.name, name, err)
				continue
			}
			if got != want {
				t.Errorf("[TestValid(%s)]: Valid(%s) got %v, want %v", test.name, name, got, want)
			}
		}
	}
}

func TestEquals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want any
		raw  any
		ok   bool
	}{
		{want: 1, raw: uint64(1), ok: true},
		{want: -1, raw: int64(-1), ok: true},
		{want: 2, raw: uint64(1), ok: false},
		{want: "AB", raw: []byte("AB"), ok: true},
		{want: []byte("AB"), raw: []byte("AC"), ok: false},
		{want: 1, raw: []byte{1}, ok: false},
	}

	for i, test := range tests {
		if got := Equals(test.want)(test.raw); got != test.ok {
			t.Errorf("[TestEquals(%d)]: got %v, want %v", i, got, test.ok)
		}
	}
	if Invalid(1) {
		t.Errorf("[TestEquals]: Invalid() accepted a value")
	}
}
