package reactssr

import (
	"bytes"
	"io"
	"sync"
)

// maxPooledBuffer keeps one oversized page from pinning memory in the pool.
const maxPooledBuffer = 64 << 10

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 128))
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

// renderToString runs write against a pooled buffer and returns a copy of
// what was written. The buffer is empty when write starts.
func renderToString(write func(w io.Writer) error) (string, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := write(buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
