package inspect

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/kylelemons/godebug/pretty"
	"gopkg.in/yaml.v3"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
	"github.com/bearlytools/bindecl/structs"
)

func fileType() *structs.Type {
	a := structs.NewType("A", []structs.Decl{
		structs.F("a1", structs.NewInt()),
		structs.F("a2", structs.NewInt()),
	})
	b := structs.NewType("B", []structs.Decl{
		structs.F("b1", structs.NewInt(structs.Width(2))),
	})
	hdr := structs.NewType(
		"Hdr",
		[]structs.Decl{
			structs.F("magic", structs.NewBytes(2, structs.Desc("Magic."))),
			structs.F("ver", structs.NewInt(structs.Values(structs.V(1, "V1")))),
		},
		structs.WithDescription("Header."),
	)
	n := structs.NewInt()
	return structs.NewType("File", []structs.Decl{
		structs.F("hdr", structs.NewSub(hdr)),
		structs.F("n", n),
		structs.F("items", structs.NewArray(n, structs.NewInt(structs.Hex()))),
		structs.F("u", structs.NewUnion([]structs.Case{{Name: "a", Type: a}, {Name: "b", Type: b}})),
		structs.F("pad", structs.Take(1)),
		structs.F("flags", structs.NewBitMask(structs.Values(structs.V(1, "F1"), structs.V(2, "F2")))),
	})
}

func newFile(t *testing.T) *structs.Struct {
	t.Helper()

	buf := []byte{0x42, 0x43, 0x01, 0x02, 0x0a, 0x0b, 0x43, 0x42, 0x00, 0x03}
	s, err := fileType().New(data.New(buf), offset.At(0))
	if err != nil {
		t.Fatalf("New() error: %s", err)
	}
	return s
}

func TestTree(t *testing.T) {
	t.Parallel()

	root := Tree(newFile(t))

	var got []string
	for depth, n := range root.Walk() {
		got = append(got, fmt.Sprintf("%d %s %s", depth, n.Name, n.Kind))
	}
	want := []string{
		"0 File struct",
		"1 hdr struct",
		"2 magic bytes",
		"2 ver int",
		"1 n int",
		"1 items array",
		"2 items[0] int",
		"2 items[1] int",
		"1 u union",
		"2 a struct",
		"3 a1 int",
		"3 a2 int",
		"2 b struct",
		"3 b1 int",
		"1 pad padding",
		"1 flags mask",
	}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("[TestTree]: -want +got:\n%s", diff)
	}

	if !root.Valid {
		t.Errorf("[TestTree]: root is not valid")
	}
	if root.Size != offset.Bytes(10) {
		t.Errorf("[TestTree]: root size got %s, want 10 bytes", root.Size)
	}
	hdr := root.Children[0]
	if hdr.Description != "Header." || hdr.Type != "Hdr" {
		t.Errorf("[TestTree]: hdr got description %q type %q", hdr.Description, hdr.Type)
	}
	ver := hdr.Children[1]
	if ver.Symbol != "V1" || ver.Display != "V1 (1)" || ver.Offset != offset.At(2) {
		t.Errorf("[TestTree]: ver got %q %q at %s", ver.Symbol, ver.Display, ver.Offset)
	}
}

func TestTreeOptions(t *testing.T) {
	t.Parallel()

	s := newFile(t)

	root := Tree(s, WithMaxElements(1))
	items := root.Children[2]
	if len(items.Children) != 1 || items.More != 1 {
		t.Errorf("[TestTreeOptions(max elements)]: got %d children, %d more", len(items.Children), items.More)
	}
	b := &bytes.Buffer{}
	if err := Text(b, root); err != nil {
		t.Fatalf("[TestTreeOptions]: Text() error: %s", err)
	}
	if !strings.Contains(b.String(), "... 1 more") {
		t.Errorf("[TestTreeOptions]: Text() does not show the elements left out:\n%s", b.String())
	}

	root = Tree(s, WithMaxDepth(1))
	if len(root.Children) != 6 {
		t.Errorf("[TestTreeOptions(max depth)]: root got %d children, want 6", len(root.Children))
	}
	if n := len(root.Children[0].Children); n != 0 {
		t.Errorf("[TestTreeOptions(max depth)]: hdr got %d children, want 0", n)
	}
}

func TestTreeErrors(t *testing.T) {
	t.Parallel()

	s := newFile(t)
	if err := s.Set("n", 200); err != nil {
		t.Fatal(err)
	}
	root := Tree(s)
	items := root.Children[2]
	if !errors.Is(items.Err, errors.ErrOutOfBounds) {
		t.Errorf("[TestTreeErrors]: items got err == %v, want ErrOutOfBounds", items.Err)
	}
	if root.Valid {
		t.Errorf("[TestTreeErrors]: root is valid with a broken array")
	}
	d := Values(root).(interface{ Get(string) (any, bool) })
	v, _ := d.Get("items")
	if s, ok := v.(string); !ok || !strings.HasPrefix(s, "error: ") {
		t.Errorf("[TestTreeErrors]: Values() of items got %v", v)
	}
}

func TestText(t *testing.T) {
	t.Parallel()

	b := &bytes.Buffer{}
	if err := Text(b, Tree(newFile(t))); err != nil {
		t.Fatalf("[TestText]: Text() error: %s", err)
	}
	for _, want := range []string{
		"File: File",
		"    magic: 42 43  // Magic.",
		"    ver: V1 (1)",
		"  items: [2 elements]",
		"    items[1]: 0xb",
		"      b1: 16963",
		"  flags: F1 | F2",
	} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("[TestText]: output does not contain %q:\n%s", want, b.String())
		}
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	b := &bytes.Buffer{}
	if err := JSON(b, Tree(newFile(t))); err != nil {
		t.Fatalf("[TestJSON]: JSON() error: %s", err)
	}
	out := b.String()

	got := map[string]any{}
	if err := json.Unmarshal(b.Bytes(), &got); err != nil {
		t.Fatalf("[TestJSON]: output is not JSON: %s\n%s", err, out)
	}
	want := map[string]any{
		"hdr":   map[string]any{"magic": "4243", "ver": "V1"},
		"n":     float64(2),
		"items": []any{float64(10), float64(11)},
		"u": map[string]any{
			"a": map[string]any{"a1": float64(0x43), "a2": float64(0x42)},
			"b": map[string]any{"b1": float64(0x4243)},
		},
		"flags": "F1 | F2",
	}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("[TestJSON]: -want +got:\n%s", diff)
	}

	last := -1
	for _, key := range []string{`"hdr"`, `"n"`, `"items"`, `"u"`, `"flags"`} {
		i := strings.Index(out, key)
		if i <= last {
			t.Errorf("[TestJSON]: key %s out of order:\n%s", key, out)
		}
		last = i
	}
}

func TestYAML(t *testing.T) {
	t.Parallel()

	b := &bytes.Buffer{}
	if err := YAML(b, Tree(newFile(t))); err != nil {
		t.Fatalf("[TestYAML]: YAML() error: %s", err)
	}
	out := b.String()

	got := map[string]any{}
	if err := yaml.Unmarshal(b.Bytes(), &got); err != nil {
		t.Fatalf("[TestYAML]: output is not YAML: %s\n%s", err, out)
	}
	want := map[string]any{
		"hdr":   map[string]any{"magic": "4243", "ver": "V1"},
		"n":     2,
		"items": []any{10, 11},
		"u": map[string]any{
			"a": map[string]any{"a1": 0x43, "a2": 0x42},
			"b": map[string]any{"b1": 0x4243},
		},
		"flags": "F1 | F2",
	}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("[TestYAML]: -want +got:\n%s", diff)
	}
	if !strings.HasPrefix(out, "hdr:\n") {
		t.Errorf("[TestYAML]: first key is not hdr:\n%s", out)
	}
}

func TestHexdump(t *testing.T) {
	t.Parallel()

	d := data.New([]byte("0123456789abcdefGHIJ"))
	line0 := "00000000  30 31 32 33 34 35 36 37  38 39 61 62 63 64 65 66  |0123456789abcdef|\n"
	line1 := "00000010  47 48 49 4a                                       |GHIJ|\n"

	tests := []struct {
		name    string
		off, n  int64
		want    string
		wantErr bool
	}{
		{name: "all", off: 0, n: 20, want: line0 + line1},
		{name: "clipped", off: 0, n: 100, want: line0 + line1},
		{name: "second line", off: 18, n: 1, want: line1},
		{name: "straddle", off: 15, n: 2, want: line0 + line1},
		{name: "empty", off: 20, n: 10, want: ""},
		{name: "past end", off: 21, n: 1, wantErr: true},
		{name: "negative", off: 0, n: -1, wantErr: true},
	}

	for _, test := range tests {
		b := &bytes.Buffer{}
		err := Hexdump(b, d, test.off, test.n)
		switch {
		case err == nil && test.wantErr:
			t.Errorf("[TestHexdump(%s)]: got err == nil, want err != nil", test.name)
			continue
		case err != nil && !test.wantErr:
			t.Errorf("[TestHexdump(%s)]: got err == %s, want err == nil", test.name, err)
			continue
		case err != nil:
			continue
		}
		if diff := pretty.Compare(test.want, b.String()); diff != "" {
			t.Errorf("[TestHexdump(%s)]: -want +got:\n%s", test.name, diff)
		}
	}

	nonPrint := &bytes.Buffer{}
	if err := Hexdump(nonPrint, data.New([]byte{0x00, 'A', 0x7f}), 0, 3); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(nonPrint.String(), "|.A.|\n") {
		t.Errorf("[TestHexdump(non printable)]: got %q", nonPrint.String())
	}
}

func TestView(t *testing.T) {
	t.Parallel()

	v := NewView(data.New(make([]byte, 40)))

	steps := []struct {
		name string
		move func()
		want int64
	}{
		{"down", v.Down, 16},
		{"down", v.Down, 32},
		{"down on last line", v.Down, 39},
		{"down at end", v.Down, 39},
		{"up", v.Up, 23},
		{"left", v.Left, 22},
		{"right", v.Right, 23},
		{"page up", v.PageUp, 7},
		{"left to start", func() { v.SetOffset(0); v.Left() }, 0},
		{"page down", v.PageDown, 39},
		{"right at end", v.Right, 39},
		{"clamp high", func() { v.SetOffset(1000) }, 40},
		{"clamp low", func() { v.SetOffset(-5) }, 0},
	}
	for _, step := range steps {
		step.move()
		if v.Offset() != step.want {
			t.Errorf("[TestView(%s)]: got offset %d, want %d", step.name, v.Offset(), step.want)
		}
	}

	v.SetOffset(21)
	if v.Line() != 1 || v.Column() != 5 {
		t.Errorf("[TestView]: got line %d column %d, want 1, 5", v.Line(), v.Column())
	}
	if v.MaxLines() != 3 {
		t.Errorf("[TestView]: MaxLines() got %d, want 3", v.MaxLines())
	}
	if v.AddrWidth() != 8 {
		t.Errorf("[TestView]: AddrWidth() got %d, want 8", v.AddrWidth())
	}

	b := &bytes.Buffer{}
	if err := v.Render(b, 5); err != nil {
		t.Fatalf("[TestView]: Render() error: %s", err)
	}
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "00000010") || !strings.HasPrefix(lines[1], "00000020") {
		t.Errorf("[TestView]: Render() got:\n%s", b.String())
	}
}

func TestViewEmpty(t *testing.T) {
	t.Parallel()

	v := NewView(data.New(nil))
	moves := []struct {
		name string
		move func()
	}{
		{"down", v.Down},
		{"page down", v.PageDown},
		{"right", v.Right},
		{"up", v.Up},
	}
	for _, m := range moves {
		m.move()
		if v.Offset() != 0 {
			t.Errorf("[TestViewEmpty(%s)]: got offset %d, want 0", m.name, v.Offset())
		}
	}
	if v.MaxLines() != 0 {
		t.Errorf("[TestViewEmpty]: MaxLines() got %d, want 0", v.MaxLines())
	}
}
