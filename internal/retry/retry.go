// Package retry implements the linear-backoff policy used for upstream
// calls that can be rate limited. Only a rate-limit signal is retried;
// every other failure surfaces immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"membership-checkout/internal/domain"
)

// Policy retries an operation after domain.ErrRateLimited failures with
// delay BaseDelay * attemptNumber (linear, not exponential: 2s, 4s, 6s for
// three retries at a 2s base).
type Policy struct {
	MaxRetries int           // additional attempts after the first
	BaseDelay  time.Duration // multiplied by the retry number

	// Sleep is injectable for tests; defaults to a context-aware wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do runs op, retrying on rate-limit signals until MaxRetries is spent.
// Exhaustion surfaces domain.ErrUnavailable; any non-rate-limit error
// stops retrying at once.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = wait
	}
	for attempt := 0; ; {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrRateLimited) {
			return err
		}
		attempt++
		if attempt > p.MaxRetries {
			return fmt.Errorf("%w: still rate limited after %d retries", domain.ErrUnavailable, p.MaxRetries)
		}
		if err := sleep(ctx, p.BaseDelay*time.Duration(attempt)); err != nil {
			return err
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
