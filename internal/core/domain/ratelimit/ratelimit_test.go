package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
)

var policy = ratelimit.Policy{Limit: 60, Window: time.Minute}

func TestClientWindow_RejectsAtLimitWithoutRecording(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &ratelimit.ClientWindow{}

	for i := 0; i < 60; i++ {
		require.Equal(t, ratelimit.Allowed, w.Admit(base.Add(time.Duration(i)*100*time.Millisecond), policy))
	}
	require.Len(t, w.Timestamps, 60)

	assert.Equal(t, ratelimit.Rejected, w.Admit(base.Add(10*time.Second), policy))
	assert.Len(t, w.Timestamps, 60, "rejected request must not be recorded")
}

func TestClientWindow_OldestInstantExpiresAtExactlyWindow(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &ratelimit.ClientWindow{}
	for i := 0; i < 60; i++ {
		require.Equal(t, ratelimit.Allowed, w.Admit(base.Add(time.Duration(i)*time.Second), policy))
	}

	// t=59.5s: every instant is still inside the window
	assert.Equal(t, ratelimit.Rejected, w.Admit(base.Add(59500*time.Millisecond), policy))

	// t=60s: the t=0 instant is exactly one window old and drops out
	assert.Equal(t, ratelimit.Allowed, w.Admit(base.Add(60*time.Second), policy))
	assert.Len(t, w.Timestamps, 60)
	assert.Equal(t, base.Add(time.Second), w.Timestamps[0])
}

func TestClientWindow_FullRecoveryAfterQuietWindow(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &ratelimit.ClientWindow{}
	for i := 0; i < 60; i++ {
		w.Admit(base, policy)
	}
	require.Equal(t, ratelimit.Rejected, w.Admit(base.Add(30*time.Second), policy))

	// t=61s: the whole burst has aged out
	assert.Equal(t, ratelimit.Allowed, w.Admit(base.Add(61*time.Second), policy))
	assert.Len(t, w.Timestamps, 1)
}

func TestClientWindow_PruneEmptiesIdleWindow(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &ratelimit.ClientWindow{Timestamps: []time.Time{base, base.Add(time.Second)}}

	w.Prune(base.Add(30*time.Second), time.Minute)
	assert.False(t, w.Empty())

	w.Prune(base.Add(2*time.Minute), time.Minute)
	assert.True(t, w.Empty())
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allowed", ratelimit.Allowed.String())
	assert.Equal(t, "rejected", ratelimit.Rejected.String())
}
