package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/inspect"
	"github.com/bearlytools/bindecl/layout"
	"github.com/bearlytools/bindecl/offset"
	"github.com/bearlytools/bindecl/structs"
)

func (a *app) typesCmd() *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "List the known file types",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tEXTENSIONS\tDESCRIPTION")
			for _, name := range a.registry.Names() {
				ft, _ := a.registry.Get(name)
				fmt.Fprintf(tw, "%s\t%s\t%s\n", ft.Name, strings.Join(ft.Extensions, ","), ft.Description)
			}
			return tw.Flush()
		},
	}
}

func (a *app) detectCmd() *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     "Tell which file types the files may be",
		ArgsUsage: "FILE...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return fmt.Errorf("detect needs at least one file")
			}
			for _, path := range cmd.Args().Slice() {
				if err := a.detect(ctx, path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) detect(ctx context.Context, path string) error {
	d, err := a.open(ctx, path)
	if err != nil {
		return err
	}
	defer d.Close()

	matches := a.registry.Detect(d)
	if len(matches) == 0 {
		fmt.Fprintf(a.stdout, "%s: unknown\n", d.Name())
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(a.stdout, "%s: %s (%s)\n", d.Name(), m.Type.Name, m.Reason)
	}
	return nil
}

// open maps the file read only, or reads and decompresses it with --decompress.
func (a *app) open(ctx context.Context, path string) (*data.Data, error) {
	if a.decompress {
		return data.Load(ctx, nil, path, data.WithReadOnly(), data.WithDecompression())
	}
	return data.Open(ctx, path, data.ReadOnly)
}

func (a *app) dumpCmd() *cli.Command {
	var (
		out        outputOptions
		typeName   string
		layoutPath string
		structName string
		at         string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "file type to decode the file as, detected when not set",
			Destination: &typeName,
		},
		&cli.StringFlag{
			Name:        "layout",
			Aliases:     []string{"l"},
			Usage:       "layout file declaring the structure to decode",
			Destination: &layoutPath,
		},
		&cli.StringFlag{
			Name:        "struct",
			Aliases:     []string{"s"},
			Usage:       "structure of the layout file to decode",
			Destination: &structName,
		},
		&cli.StringFlag{
			Name:        "offset",
			Aliases:     []string{"o"},
			Usage:       "offset of the layout structure, decimal or 0x prefixed",
			Value:       "0",
			Destination: &at,
		},
	}

	return &cli.Command{
		Name:      "dump",
		Usage:     "Decode the structures of a file",
		ArgsUsage: "FILE",
		Flags:     append(flags, outputFlags(&out)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("dump needs exactly one file")
			}
			applyOutputConfig(cmd, a.cfg, &out)

			d, err := a.open(ctx, cmd.Args().First())
			if err != nil {
				return err
			}
			defer d.Close()

			var roots []*structs.Struct
			switch {
			case layoutPath != "":
				off, err := parseOffset(at)
				if err != nil {
					return err
				}
				s, err := a.mapLayout(ctx, d, layoutPath, structName, off)
				if err != nil {
					return err
				}
				roots = append(roots, s)
			case typeName != "":
				if err := a.registry.Setup(ctx, d, typeName); err != nil {
					return err
				}
				roots = mapped(d)
			default:
				ft, err := a.registry.Auto(ctx, d)
				if err != nil {
					return err
				}
				a.logger().Debug("file type detected", "file", d.Name(), "type", ft.Name)
				roots = mapped(d)
			}
			return render(a.stdout, roots, out)
		},
	}
}

func (a *app) mapLayout(ctx context.Context, d *data.Data, path, name string, off int64) (*structs.Struct, error) {
	if name == "" {
		return nil, fmt.Errorf("--layout needs --struct")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := layout.LoadFile(ctx, nil, abs)
	if err != nil {
		return nil, err
	}
	typ, ok := f.Type(name)
	if !ok {
		return nil, fmt.Errorf("layout %s has no struct %q, it has %s", path, name, strings.Join(f.Names(), ", "))
	}
	return structs.Map(ctx, d, offset.At(off), typ)
}

// mapped returns the structures mapped on d in offset order.
func mapped(d *data.Data) []*structs.Struct {
	var out []*structs.Struct
	for _, off := range d.Offsets() {
		for _, m := range d.MappedAt(off) {
			if s, ok := m.(*structs.Struct); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func render(w io.Writer, roots []*structs.Struct, o outputOptions) error {
	opts := []inspect.Option{
		inspect.WithMaxElements(int(o.maxElements)),
		inspect.WithMaxDepth(int(o.maxDepth)),
	}
	nodes := make([]*inspect.Node, 0, len(roots))
	for _, s := range roots {
		nodes = append(nodes, inspect.Tree(s, opts...))
	}

	switch strings.ToLower(o.format) {
	case "text":
		for _, n := range nodes {
			if err := inspect.Text(w, n); err != nil {
				return err
			}
		}
		return nil
	case "json", "yaml":
	default:
		return fmt.Errorf("bad --format %q, want text, json or yaml", o.format)
	}

	var n *inspect.Node
	if len(nodes) == 1 {
		n = nodes[0]
	} else {
		n = &inspect.Node{Kind: inspect.KindArray, Children: nodes, Valid: true}
	}
	if strings.ToLower(o.format) == "json" {
		return inspect.JSON(w, n)
	}
	return inspect.YAML(w, n)
}

func (a *app) hexdumpCmd() *cli.Command {
	var at, length string

	return &cli.Command{
		Name:      "hexdump",
		Usage:     "Dump the bytes of a file in hexadecimal",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "offset",
				Aliases:     []string{"o"},
				Usage:       "first byte to dump, decimal or 0x prefixed",
				Value:       "0",
				Destination: &at,
			},
			&cli.StringFlag{
				Name:        "length",
				Aliases:     []string{"n"},
				Usage:       "number of bytes to dump, all when not set",
				Destination: &length,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("hexdump needs exactly one file")
			}
			off, err := parseOffset(at)
			if err != nil {
				return err
			}

			d, err := a.open(ctx, cmd.Args().First())
			if err != nil {
				return err
			}
			defer d.Close()

			n := d.Len()
			if length != "" {
				if n, err = parseOffset(length); err != nil {
					return err
				}
			}
			return inspect.Hexdump(a.stdout, d, off, n)
		},
	}
}

// parseOffset parses a non negative decimal, 0x hexadecimal or 0o octal integer.
func parseOffset(s string) (int64, error) {
	i, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad offset %q: %w", s, err)
	}
	if i < 0 {
		return 0, fmt.Errorf("bad offset %q: negative", s)
	}
	return i, nil
}
