package sink

import (
	"context"
	"log/slog"

	"github.com/Scoopit/mysql2databend/pkg/dialect"
)

const replayPageSize = 1000

type entrySource interface {
	EntriesAfter(ctx context.Context, seq, offset, count int64) ([]Entry, error)
}

// Replay writes the entries buffered after seq to out, in sequence order. A
// USE statement is emitted whenever the database of the entries changes. It
// returns the number of entries written.
//
// Pages are taken by offset from the fixed seq bound, so entries sharing a
// sequence number are not skipped at a page boundary.
func Replay(ctx context.Context, src entrySource, out Sink, seq int64) (int, error) {
	var (
		written  int
		last     = seq
		database string
		quoting  = dialect.NewDatabend()
	)
	for {
		entries, err := src.EntriesAfter(ctx, seq, int64(written), replayPageSize)
		if err != nil {
			return written, err
		}
		for _, e := range entries {
			if e.Database != "" && e.Database != database {
				if _, err := out.Write(ctx, []byte(quoting.UseStatement(e.Database)+";\n")); err != nil {
					return written, err
				}
				database = e.Database
			}
			if _, err := out.Write(ctx, []byte(e.SQL+"\n")); err != nil {
				return written, err
			}
			written++
			last = e.Seq
		}
		if len(entries) < replayPageSize {
			slog.Info("Replay completed", "statements", written, "last_seq", last)
			return written, nil
		}
	}
}
