// Package input opens mysqldump files, plain or compressed, and reads them
// line by line.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const bufferSize = 1 << 20

// Reader yields the lines of a dump, terminator included.
type Reader struct {
	br      *bufio.Reader
	closers []io.Closer
	line    int
}

// Open returns a reader over path. An empty path or "-" reads stdin. Files
// ending in .gz or .zst/.zstd are decompressed on the fly.
func Open(path string) (*Reader, error) {
	if path == "" || path == "-" {
		return NewReader(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump file: %w", err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		r := NewReader(zr)
		r.closers = []io.Closer{zr, f}
		return r, nil
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		r := NewReader(zr)
		r.closers = []io.Closer{zr.IOReadCloser(), f}
		return r, nil
	default:
		r := NewReader(f)
		r.closers = []io.Closer{f}
		return r, nil
	}
}

// NewReader wraps an already opened stream. Closing the returned reader does
// not close r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, bufferSize)}
}

// ReadLine returns the next line including its '\n'. The last line of the
// input may lack one. io.EOF is returned once the input is exhausted. The
// returned slice is owned by the caller.
func (r *Reader) ReadLine() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if len(line) > 0 {
		r.line++
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return line, nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

// Line is the 1-based number of the last line returned by ReadLine.
func (r *Reader) Line() int {
	return r.line
}

// Close releases the underlying decompressor and file.
func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
