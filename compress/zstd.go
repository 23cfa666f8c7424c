package compress

import (
	"github.com/klauspost/compress/zstd"
)

// ZstdDecompressor implements Decompressor for Zstandard.
type ZstdDecompressor struct {
	// MaxMemory caps the decoder memory use. If 0, the zstd default is used.
	MaxMemory uint64
}

// Format implements Decompressor.Format().
func (z *ZstdDecompressor) Format() Format {
	return Zstd
}

// Magic implements Decompressor.Magic().
func (z *ZstdDecompressor) Magic() []byte {
	return []byte{0x28, 0xb5, 0x2f, 0xfd}
}

// Extensions implements Decompressor.Extensions().
func (z *ZstdDecompressor) Extensions() []string {
	return []string{"zst", "zstd"}
}

// Decompress decompresses Zstandard data.
func (z *ZstdDecompressor) Decompress(data []byte) ([]byte, error) {
	var opts []zstd.DOption
	if z.MaxMemory > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(z.MaxMemory))
	}
	dec, err := zstd.NewReader(nil, opts...)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
