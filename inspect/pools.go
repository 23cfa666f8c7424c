package inspect

import (
	"bytes"

	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"
)

// buffers is a pool of buffers used to render text output.
var buffers = sync.NewPool[*bytes.Buffer](
	context.Background(),
	"inspect.buffers",
	func() *bytes.Buffer {
		return &bytes.Buffer{}
	},
	sync.WithBuffer(4),
)

func getBuffer() *bytes.Buffer {
	return buffers.Get(context.Background())
}

func putBuffer(b *bytes.Buffer) {
	b.Reset()
	buffers.Put(context.Background(), b)
}
