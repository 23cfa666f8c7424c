package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipDecompressor implements Decompressor for gzip.
type GzipDecompressor struct{}

// Format implements Decompressor.Format().
func (g *GzipDecompressor) Format() Format {
	return Gzip
}

// Magic implements Decompressor.Magic().
func (g *GzipDecompressor) Magic() []byte {
	return []byte{0x1f, 0x8b}
}

// Extensions implements Decompressor.Extensions().
func (g *GzipDecompressor) Extensions() []string {
	return []string{"gz", "gzip"}
}

// Decompress decompresses gzip data. Concatenated members are read as one stream.
func (g *GzipDecompressor) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
