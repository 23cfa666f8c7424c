package binary

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestUint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		b     []byte
		order Order
		want  uint64
	}{
		{name: "byte", b: []byte{0x42}, order: Little, want: 0x42},
		{name: "le16", b: []byte{0x43, 0x42}, order: Little, want: 0x4243},
		{name: "be16", b: []byte{0x42, 0x43}, order: Big, want: 0x4243},
		{name: "le32", b: []byte{0x45, 0x44, 0x43, 0x42}, order: Little, want: 0x42434445},
		{name: "be32", b: []byte{0x42, 0x43, 0x44, 0x45}, order: Big, want: 0x42434445},
		{name: "le64", b: []byte{0x49, 0x48, 0x47, 0x46, 0x45, 0x44, 0x43, 0x42}, order: Little, want: 0x4243444546474849},
		{name: "be64", b: []byte{0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49}, order: Big, want: 0x4243444546474849},
	}

	for _, test := range tests {
		if got := Uint(test.b, test.order); got != test.want {
			t.Errorf("[TestUint(%s)]: got %#x, want %#x", test.name, got, test.want)
		}

		b := make([]byte, len(test.b))
		PutUint(b, test.order, test.want)
		if diff := pretty.Compare(test.b, b); diff != "" {
			t.Errorf("[TestUint(%s)]: PutUint() -want +got:\n%s", test.name, diff)
		}
	}
}

func TestSignExtend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		u     uint64
		width int
		want  int64
	}{
		{0xbe, 1, -0x42},
		{0xffbe, 2, -0x42},
		{0xffffffbe, 4, -0x42},
		{0xffffffffffffffbe, 8, -0x42},
		{0x7f, 1, 0x7f},
	}

	for _, test := range tests {
		if got := SignExtend(test.u, test.width); got != test.want {
			t.Errorf("[TestSignExtend(%#x, %d)]: got %d, want %d", test.u, test.width, got, test.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate(-0x42, 1); got != 0xbe {
		t.Errorf("[TestTruncate]: got %#x, want 0xbe", got)
	}
	if got := Truncate(uint64(0x08048832ff), 4); got != 0x048832ff {
		t.Errorf("[TestTruncate]: got %#x, want 0x048832ff", got)
	}
	if got := Truncate(int64(-1), 8); got != ^uint64(0) {
		t.Errorf("[TestTruncate]: got %#x, want all ones", got)
	}
}
