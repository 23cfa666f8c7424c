package compress

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
)

// SnappyDecompressor implements Decompressor for the snappy framing format. Raw
// snappy blocks carry no magic number and are not recognized.
type SnappyDecompressor struct{}

// Format implements Decompressor.Format().
func (s *SnappyDecompressor) Format() Format {
	return Snappy
}

// Magic implements Decompressor.Magic(). It is the stream identifier chunk.
func (s *SnappyDecompressor) Magic() []byte {
	return []byte("\xff\x06\x00\x00sNaPpY")
}

// Extensions implements Decompressor.Extensions().
func (s *SnappyDecompressor) Extensions() []string {
	return []string{"sz"}
}

// Decompress decompresses a snappy framed stream.
func (s *SnappyDecompressor) Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(snappy.NewReader(bytes.NewReader(data)))
}
