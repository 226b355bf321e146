// Package retry executes provider calls under the key-rotation retry policy.
//
// A rate-limited attempt (domain.ErrRateLimited) rotates the provider's key
// ring, waits a fixed backoff, and retries with the next key, bounded by the
// ring size. Any other error propagates immediately. When every key has been
// tried and all were rate limited, the call fails with
// domain.ErrRetriesExhausted.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/logger"
)

// DefaultBackoff is the wait between rate-limited attempts.
const DefaultBackoff = 1 * time.Second

// Policy configures retry behaviour. The zero value is usable: it applies
// DefaultBackoff and a real timer-based sleep.
type Policy struct {
	// Backoff is the wait between rate-limited attempts.
	Backoff time.Duration

	// Sleep waits for the given duration or until the context is cancelled.
	// Injectable so tests run without real timers.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do runs fn with the ring's current key. On domain.ErrRateLimited it
// rotates the ring, sleeps, and retries, performing at most ring.Size()
// attempts in total. op names the operation for diagnostics and error
// wrapping.
func (p Policy) Do(ctx context.Context, ring *domain.KeyRing, op string, fn func(key string) error) error {
	backoff := p.Backoff
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	attempts := ring.Size()
	if attempts == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNoKeysConfigured)
	}

	for attempt := 1; ; attempt++ {
		key, err := ring.Current()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		err = fn(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrRateLimited) {
			return err
		}

		logger.Warn("%s: rate limited on attempt %d/%d", op, attempt, attempts)

		if attempt >= attempts {
			return fmt.Errorf("%s: %w", op, domain.ErrRetriesExhausted)
		}

		if ring.Rotate() {
			// A full cycle of keys has been exhausted. Diagnostic only.
			logger.Info("%s: key ring wrapped, every key has been used this cycle", op)
		}

		if err := sleep(ctx, backoff); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
