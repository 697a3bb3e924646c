package sink

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DefaultConnectRetries is how many times a sink tries to reach its server
// before giving up.
const DefaultConnectRetries = 5

var newBackOff = func() backoff.BackOff {
	return backoff.NewExponentialBackOff()
}

// connectWithRetry calls connect until it succeeds, tries is exhausted or ctx
// is done.
func connectWithRetry[T any](ctx context.Context, target string, tries uint, connect func() (T, error)) (T, error) {
	if tries == 0 {
		tries = 1
	}
	return backoff.Retry(ctx, connect,
		backoff.WithBackOff(newBackOff()),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("Connection failed, retrying", "target", target, "retry_in", next, "error", err)
		}))
}
