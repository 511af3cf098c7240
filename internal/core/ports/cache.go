package ports

import (
	"context"
	"time"
)

// Cache is the byte store behind the read-through user repository.
// A failing cache must never fail a lookup; callers treat errors as misses.
type Cache interface {
	// Get reports found=false for a missing key without an error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete of a missing key succeeds.
	Delete(ctx context.Context, key string) error
}
