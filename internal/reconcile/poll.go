package reconcile

import (
	"context"
	"errors"
	"time"
)

// defaultPollInterval bounds the sleep between poll iterations.
const defaultPollInterval = 10 * time.Second

// errPollDeadline is returned by pollUntil when the deadline passes without
// the predicate reporting done. Callers wrap it into a phase-specific
// timeout error.
var errPollDeadline = errors.New("poll deadline exceeded")

// pollUntil runs fn until it reports done, fails, or deadline passes.
//
// fn runs at least once regardless of the deadline, and each sleep is capped
// at min(interval, time remaining), so the loop can never oversleep past the
// deadline by more than one interval. A terminal status observed
// mid-iteration ends the loop early; there is no external cancellation
// beyond ctx.
func pollUntil(ctx context.Context, deadline time.Time, interval time.Duration, fn func(ctx context.Context) (bool, error)) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	for {
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return errPollDeadline
		}

		sleep := interval
		if remaining < sleep {
			sleep = remaining
		}

		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
