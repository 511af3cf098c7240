package external

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// throttle enforces a minimum spacing between upstream calls.
type throttle struct {
	limiter *rate.Limiter
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// wait blocks until the next call may go out or ctx is done.
func (t *throttle) wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("lookup throttle: %w", err)
	}
	return nil
}
