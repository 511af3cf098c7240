package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/avatarctic/realestate-crm/internal/application/services"
	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/repositories"
	tmocks "github.com/avatarctic/realestate-crm/test/mocks"
)

func TestRateLimiter_AppliesPolicyThroughStore(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := impl.NewRateLimiterService(repositories.NewRateLimitMemoryRepository(0), &impl.RateLimiterConfig{
		RequestsPerWindow: 3,
		Window:            time.Minute,
		Clock:             func() time.Time { return now },
	}, logrus.New())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d, err := svc.Admit(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.Equal(t, ratelimit.Allowed, d)
	}
	d, err := svc.Admit(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, ratelimit.Rejected, d)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TrackedClients)
	assert.Equal(t, 3, stats.Limit)
	assert.Equal(t, 60, stats.WindowSeconds)
}

func TestRateLimiter_EmptyClientUsesUnknownBucket(t *testing.T) {
	var seen string
	store := &tmocks.RateLimitStoreMock{AdmitFn: func(ctx context.Context, clientID string, now time.Time, p ratelimit.Policy) (ratelimit.Decision, error) {
		seen = clientID
		return ratelimit.Allowed, nil
	}}
	svc := impl.NewRateLimiterService(store, nil, nil)

	_, err := svc.Admit(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, ratelimit.UnknownClient, seen)
}

func TestRateLimiter_StoreErrorFailsOpen(t *testing.T) {
	store := &tmocks.RateLimitStoreMock{AdmitFn: func(ctx context.Context, clientID string, now time.Time, p ratelimit.Policy) (ratelimit.Decision, error) {
		return ratelimit.Rejected, errors.New("redis down")
	}}
	logger, hook := logtest.NewNullLogger()
	svc := impl.NewRateLimiterService(store, nil, logger)

	d, err := svc.Admit(context.Background(), "c")
	require.Error(t, err)
	assert.Equal(t, ratelimit.Allowed, d)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "c", hook.LastEntry().Data["client_id"])
}

func TestRateLimiter_StartSweepsUntilStop(t *testing.T) {
	var sweeps atomic.Int32
	swept := make(chan struct{}, 16)
	store := &tmocks.RateLimitStoreMock{SweepFn: func(ctx context.Context, now time.Time, window time.Duration) (int, error) {
		sweeps.Add(1)
		select {
		case swept <- struct{}{}:
		default:
		}
		return 0, nil
	}}
	svc := impl.NewRateLimiterService(store, &impl.RateLimiterConfig{SweepInterval: 5 * time.Millisecond}, logrus.New())

	svc.Start(context.Background())
	svc.Start(context.Background()) // second Start is a no-op

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep never ran")
	}

	svc.Stop()
	after := sweeps.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, sweeps.Load(), "no sweep may run after Stop returns")

	svc.Stop() // idempotent
}

func TestRateLimiter_SweepStopsWhenParentContextCancelled(t *testing.T) {
	done := make(chan struct{})
	store := &tmocks.RateLimitStoreMock{}
	svc := impl.NewRateLimiterService(store, &impl.RateLimiterConfig{SweepInterval: time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	cancel()

	go func() {
		svc.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}

func TestRateLimiter_SweepOnceRecoversFromPanic(t *testing.T) {
	store := &tmocks.RateLimitStoreMock{SweepFn: func(ctx context.Context, now time.Time, window time.Duration) (int, error) {
		panic("corrupt state")
	}}
	svc := impl.NewRateLimiterService(store, nil, logrus.New())

	err := svc.SweepOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt state")
}

func TestRateLimiter_SweepOnceEvictsIdleClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := repositories.NewRateLimitMemoryRepository(0)
	svc := impl.NewRateLimiterService(store, &impl.RateLimiterConfig{Clock: clock}, nil)

	ctx := context.Background()
	_, _ = svc.Admit(ctx, "a")
	_, _ = svc.Admit(ctx, "b")

	now = now.Add(2 * time.Minute)
	require.NoError(t, svc.SweepOnce(ctx))

	tracked, err := store.Tracked(ctx)
	require.NoError(t, err)
	assert.Zero(t, tracked)
}
