package sink

import (
	"bufio"
	"context"
	"io"
)

// Console writes statements unchanged to a buffered writer, usually stdout.
type Console struct {
	w *bufio.Writer
}

// NewConsole returns a console sink writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: bufio.NewWriterSize(w, 64*1024)}
}

func (c *Console) Write(ctx context.Context, stmt []byte) (int, error) {
	return c.w.Write(stmt)
}

func (c *Console) Flush(ctx context.Context) error {
	return c.w.Flush()
}

// Close flushes pending output. The underlying writer is left open.
func (c *Console) Close() error {
	return c.w.Flush()
}
