package main

import "github.com/urfave/cli/v3"

type logOptions struct {
	level  string
	format string
	debug  bool
}

func loggingFlags(o *logOptions) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "warn",
			Destination: &o.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &o.format,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &o.debug,
		},
	}
}

func configFlag(path *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Usage:       "path to the config file (default ~/.config/bindecl/config.yaml)",
		Destination: path,
	}
}

func decompressFlag(on *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "decompress",
		Aliases:     []string{"z"},
		Usage:       "read gzip, zstd or snappy compressed files decompressed",
		Destination: on,
	}
}

type outputOptions struct {
	format      string
	maxElements int64
	maxDepth    int64
}

func outputFlags(o *outputOptions) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "output format (text, json, yaml)",
			Value:       "text",
			Destination: &o.format,
		},
		&cli.Int64Flag{
			Name:        "max-elements",
			Usage:       "array elements shown per array, 0 for all",
			Value:       1024,
			Destination: &o.maxElements,
		},
		&cli.Int64Flag{
			Name:        "max-depth",
			Usage:       "nesting levels shown, 0 for all",
			Destination: &o.maxDepth,
		},
	}
}
