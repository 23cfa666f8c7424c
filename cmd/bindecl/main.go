// Command bindecl inspects binary files with the structure templates of bindecl.
//
//	bindecl types
//	bindecl detect FILE...
//	bindecl dump [--type NAME] [--format text|json|yaml] FILE
//	bindecl dump --layout FILE.layout --struct NAME [--offset N] FILE
//	bindecl hexdump [--offset N] [--length N] FILE
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/filetype"
	"github.com/bearlytools/bindecl/templates"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every command shares.
type app struct {
	stdout, stderr io.Writer
	cfg            Config
	log            logOptions
	configFile     string
	decompress     bool
	registry       *filetype.Registry
	lg             *slog.Logger
}

func (a *app) logger() *slog.Logger {
	if a.lg == nil {
		return slog.Default()
	}
	return a.lg
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	a := &app{stdout: stdout, stderr: stderr}

	return &cli.Command{
		Name:      "bindecl",
		Usage:     "Decode binary files with declarative structure templates",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     append(loggingFlags(&a.log), configFlag(&a.configFile), decompressFlag(&a.decompress)),
		Before:    a.before,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			a.typesCmd(),
			a.detectCmd(),
			a.dumpCmd(),
			a.hexdumpCmd(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(a.configFile)
	if err != nil {
		return ctx, err
	}
	a.cfg = cfg
	applyLogConfig(cmd, cfg, &a.log)

	l, err := newLogger(a.stderr, a.log)
	if err != nil {
		return ctx, err
	}
	a.lg = l
	data.SetLogger(l)

	a.registry = filetype.NewRegistry()
	if err := templates.Register(a.registry); err != nil {
		return ctx, err
	}
	l.Debug("file types registered", "types", a.registry.Names())
	return ctx, nil
}
