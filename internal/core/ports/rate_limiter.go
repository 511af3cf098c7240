package ports

import (
	"context"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
)

// RateLimitStore holds per-client sliding windows. Implementations MUST be safe
// for concurrent Admit and Sweep calls.
type RateLimitStore interface {
	// Admit prunes the client's window at now and records now unless the window is full.
	Admit(ctx context.Context, clientID string, now time.Time, policy ratelimit.Policy) (ratelimit.Decision, error)
	// Sweep prunes every tracked client and forgets those left empty, returning how many were evicted.
	Sweep(ctx context.Context, now time.Time, window time.Duration) (int, error)
	// Tracked reports how many clients currently hold state.
	Tracked(ctx context.Context) (int, error)
}

// RateLimiterService owns the store, the policy and the sweep lifecycle.
type RateLimiterService interface {
	Admit(ctx context.Context, clientID string) (ratelimit.Decision, error)
	// Start launches the periodic sweep; it stops when ctx is cancelled or Stop is called.
	Start(ctx context.Context)
	// Stop cancels the sweep and waits for it to exit.
	Stop()
	Stats(ctx context.Context) (*ratelimit.Stats, error)
}
