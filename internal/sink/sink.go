// Package sink holds the destinations converted statements are written to.
package sink

import "context"

// Sink receives complete statements, one per call, in dump order.
type Sink interface {
	// Write forwards one statement and returns the number of bytes consumed.
	Write(ctx context.Context, stmt []byte) (int, error)
	Flush(ctx context.Context) error
	Close() error
}

// DatabaseSwitcher is implemented by sinks that track the database a USE
// statement selects outside of the statement text itself.
type DatabaseSwitcher interface {
	UseDatabase(ctx context.Context, name string) error
}
