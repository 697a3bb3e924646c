package convert

import (
	"bytes"
	"fmt"
)

// LineError is returned when an input line cannot be read or parsed.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// SinkError is returned when the sink rejects a statement.
type SinkError struct {
	Statement []byte
	Err       error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("failed to write statement %q: %v", abbreviate(e.Statement, 80), e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

func abbreviate(stmt []byte, n int) string {
	stmt = bytes.TrimSpace(stmt)
	if i := bytes.IndexByte(stmt, '\n'); i >= 0 && i < n {
		return string(stmt[:i]) + "..."
	}
	if len(stmt) > n {
		return string(stmt[:n]) + "..."
	}
	return string(stmt)
}
