package ratelimit

import (
	"errors"
	"time"
)

// UnknownClient is the identity used when the peer address cannot be determined.
// Every such request shares this one bucket.
const UnknownClient = "unknown"

const (
	DefaultLimit  = 60
	DefaultWindow = time.Minute
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

type Decision int

const (
	Allowed Decision = iota
	Rejected
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "rejected"
}

// Policy is the quota applied to every client.
type Policy struct {
	Limit  int
	Window time.Duration
}

// ClientWindow holds one client's request instants in arrival order.
// It is not safe for concurrent use; callers hold the owning lock.
type ClientWindow struct {
	Timestamps []time.Time
}

// Prune drops instants that are no longer inside the trailing window ending at now.
func (w *ClientWindow) Prune(now time.Time, window time.Duration) {
	kept := w.Timestamps[:0]
	for _, ts := range w.Timestamps {
		if now.Sub(ts) < window {
			kept = append(kept, ts)
		}
	}
	clear(w.Timestamps[len(kept):])
	w.Timestamps = kept
}

// Admit prunes, then records now unless the window is already full.
// A rejected call leaves the window exactly as pruned.
func (w *ClientWindow) Admit(now time.Time, p Policy) Decision {
	w.Prune(now, p.Window)
	if len(w.Timestamps) >= p.Limit {
		return Rejected
	}
	w.Timestamps = append(w.Timestamps, now)
	return Allowed
}

func (w *ClientWindow) Empty() bool {
	return len(w.Timestamps) == 0
}

// Stats is a point-in-time view of limiter state.
type Stats struct {
	TrackedClients int `json:"tracked_clients"`
	Limit          int `json:"limit"`
	WindowSeconds  int `json:"window_seconds"`
}
