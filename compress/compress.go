// Package compress recognizes compressed files by their magic number and
// decompresses them, so the structures of a compressed capture or object file can
// be decoded. It includes decompressors for gzip, zstd and framed snappy, and
// supports custom decompressor registration.
package compress

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gostdlib/base/concurrency/sync"
)

//go:generate go tool github.com/johnsiilver/stringer -type=Format -linecomment

// Format is a compression format.
type Format uint8

const (
	// None is uncompressed data.
	None Format = 0 // none
	// Gzip is RFC 1952 gzip.
	Gzip Format = 1 // gzip
	// Zstd is Zstandard frames.
	Zstd Format = 2 // zstd
	// Snappy is the snappy framing format.
	Snappy Format = 3 // snappy
)

// Decompressor decompresses one format.
type Decompressor interface {
	// Decompress returns the decompressed data.
	Decompress(data []byte) ([]byte, error)
	// Format is the format handled.
	Format() Format
	// Magic is the prefix of data in the format.
	Magic() []byte
	// Extensions are the file name extensions, without the dot, of the format.
	Extensions() []string
}

var (
	registry   = map[Format]Decompressor{}
	order      []Format
	registryMu sync.RWMutex
)

// Register adds a decompressor to the registry. This can be used to register
// custom decompressors or override built-in ones. Thread-safe.
func Register(d Decompressor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[d.Format()]; !ok {
		order = append(order, d.Format())
	}
	registry[d.Format()] = d
}

// Get returns the decompressor for f, or nil if not found.
func Get(f Format) Decompressor {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[f]
}

// Detect returns the format of data by its magic number, None if no registered
// format matches.
func Detect(data []byte) Format {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, f := range order {
		if m := registry[f].Magic(); len(m) > 0 && bytes.HasPrefix(data, m) {
			return f
		}
	}
	return None
}

// Decompress decompresses data in format f.
// Returns data unchanged if f is None.
// Returns an error if the decompressor is not registered.
func Decompress(f Format, data []byte) ([]byte, error) {
	if f == None {
		return data, nil
	}
	d := Get(f)
	if d == nil {
		return nil, fmt.Errorf("decompressor not registered for %s", f)
	}
	out, err := d.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f, err)
	}
	return out, nil
}

// TrimExtension removes the extension of format f from name: "dump.pcap.gz"
// becomes "dump.pcap".
func TrimExtension(f Format, name string) string {
	d := Get(f)
	if d == nil {
		return name
	}
	for _, ext := range d.Extensions() {
		if s, ok := strings.CutSuffix(name, "."+ext); ok {
			return s
		}
	}
	return name
}

func init() {
	Register(&GzipDecompressor{})
	Register(&ZstdDecompressor{})
	Register(&SnappyDecompressor{})
}
