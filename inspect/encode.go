package inspect

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	"github.com/bearlytools/bindecl/structs"
)

// Text writes n as one line per node: offset, size, indented name and display form.
func Text(w io.Writer, n *Node) error {
	b := getBuffer()
	defer putBuffer(b)

	for depth, c := range n.Walk() {
		fmt.Fprintf(b, "%-10s %-8s ", c.Offset, c.Size)
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(c.Name)
		switch {
		case c.Err != nil:
			fmt.Fprintf(b, ": <error: %s>", c.Err)
		case c.Kind == KindArray:
			fmt.Fprintf(b, ": [%d elements]", len(c.Children)+c.More)
		case c.Display != "":
			b.WriteString(": ")
			b.WriteString(c.Display)
		}
		if !c.Valid && c.Err == nil && !c.Container() {
			b.WriteString(" (invalid)")
		}
		if c.Description != "" {
			b.WriteString("  // ")
			b.WriteString(c.Description)
		}
		b.WriteByte('\n')
		if c.More > 0 && len(c.Children) > 0 {
			fmt.Fprintf(b, "%-10s %-8s %s... %d more\n", "", "", strings.Repeat("  ", depth+1), c.More)
		}

		if b.Len() > 4096 {
			if _, err := w.Write(b.Bytes()); err != nil {
				return err
			}
			b.Reset()
		}
	}
	_, err := w.Write(b.Bytes())
	return err
}

// Values converts n to plain values: an *ordereddict.Dict of field name to value for
// structures and unions, a []any for arrays and a scalar for leaves. Integers stay
// numbers unless they have an enumeration name, bytes become hex strings and bit
// masks their display form. Padding is left out.
func Values(n *Node) any {
	switch {
	case n.Err != nil:
		return "error: " + n.Err.Error()
	case n.Kind == KindArray:
		out := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			out = append(out, Values(c))
		}
		return out
	case n.Kind == KindStruct || n.Kind == KindUnion:
		d := ordereddict.NewDict()
		for _, c := range n.Children {
			if c.Kind == KindPadding {
				continue
			}
			d.Set(c.Name, Values(c))
		}
		return d
	}

	switch r := n.Raw.(type) {
	case uint64, int64:
		if n.Symbol != "" {
			return n.Symbol
		}
		return r
	case []byte:
		return hex.EncodeToString(r)
	case structs.Mask:
		return r.String()
	case nil:
		return nil
	}
	return n.Display
}

// JSON writes n as an indented JSON object keeping the field order.
func JSON(w io.Writer, n *Node) error {
	b, err := json.Marshal(Values(n), jsontext.WithIndent("  "))
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// YAML writes n as a YAML document keeping the field order.
func YAML(w io.Writer, n *Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(Values(n))); err != nil {
		return err
	}
	return enc.Close()
}

func yamlNode(v any) *yaml.Node {
	switch x := v.(type) {
	case *ordereddict.Dict:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			n.Content = append(n.Content, scalar("!!str", k), yamlNode(val))
		}
		return n
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range x {
			n.Content = append(n.Content, yamlNode(e))
		}
		return n
	case uint64:
		return scalar("!!int", strconv.FormatUint(x, 10))
	case int64:
		return scalar("!!int", strconv.FormatInt(x, 10))
	case string:
		return scalar("!!str", x)
	case nil:
		return scalar("!!null", "null")
	}
	return scalar("!!str", fmt.Sprint(v))
}

func scalar(tag, v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}
}
