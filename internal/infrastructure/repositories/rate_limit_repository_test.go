package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/repositories"
)

const testLimitPrefix = "test:ratelimit"

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func admitN(t *testing.T, repo *repositories.RateLimitRedisRepository, client string, at time.Time, n int) (allowed int) {
	t.Helper()
	for i := 0; i < n; i++ {
		d, err := repo.Admit(context.Background(), client, at, memPolicy)
		require.NoError(t, err)
		if d == ratelimit.Allowed {
			allowed++
		}
	}
	return allowed
}

func TestRateLimitRedis_SixtyFirstRequestRejected(t *testing.T) {
	_, client := newMiniRedis(t)
	repo := repositories.NewRateLimitRedisRepository(client, testLimitPrefix)
	t0 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 60, admitN(t, repo, "203.0.113.7", t0, 60))

	d, err := repo.Admit(context.Background(), "203.0.113.7", t0, memPolicy)
	require.NoError(t, err)
	assert.Equal(t, ratelimit.Rejected, d)

	d, err = repo.Admit(context.Background(), "198.51.100.2", t0, memPolicy)
	require.NoError(t, err)
	assert.Equal(t, ratelimit.Allowed, d, "other clients keep their own window")
}

func TestRateLimitRedis_RejectedRequestsAreNotRecorded(t *testing.T) {
	_, client := newMiniRedis(t)
	repo := repositories.NewRateLimitRedisRepository(client, testLimitPrefix)
	t0 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	require.Equal(t, 60, admitN(t, repo, "10.0.0.1", t0, 60))
	assert.Zero(t, admitN(t, repo, "10.0.0.1", t0.Add(30*time.Second), 5))

	// entries aged exactly one window are gone; the rejected ones never counted
	assert.Equal(t, 60, admitN(t, repo, "10.0.0.1", t0.Add(time.Minute), 61))
}

func TestRateLimitRedis_AdmitsAgainAfterWindow(t *testing.T) {
	_, client := newMiniRedis(t)
	repo := repositories.NewRateLimitRedisRepository(client, testLimitPrefix)
	t0 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	require.Equal(t, 60, admitN(t, repo, "10.0.0.1", t0, 61))

	d, err := repo.Admit(context.Background(), "10.0.0.1", t0.Add(61*time.Second), memPolicy)
	require.NoError(t, err)
	assert.Equal(t, ratelimit.Allowed, d)
}

func TestRateLimitRedis_IdleKeysExpire(t *testing.T) {
	mr, client := newMiniRedis(t)
	repo := repositories.NewRateLimitRedisRepository(client, testLimitPrefix)
	ctx := context.Background()
	now := time.Now()

	require.Equal(t, 1, admitN(t, repo, "10.0.0.1", now, 1))
	require.Equal(t, 1, admitN(t, repo, "10.0.0.2", now, 1))

	n, err := repo.Tracked(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, time.Minute, mr.TTL(testLimitPrefix+":10.0.0.1"))

	evicted, err := repo.Sweep(ctx, now, time.Minute)
	require.NoError(t, err)
	assert.Zero(t, evicted)

	mr.FastForward(time.Minute + time.Second)
	n, err = repo.Tracked(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRateLimitRedis_StoreUnavailable(t *testing.T) {
	mr, client := newMiniRedis(t)
	repo := repositories.NewRateLimitRedisRepository(client, testLimitPrefix)
	mr.Close()

	d, err := repo.Admit(context.Background(), "10.0.0.1", time.Now(), memPolicy)
	assert.Error(t, err)
	assert.Equal(t, ratelimit.Allowed, d)
}
