package businessflow

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/amirphl/concept-studio/config"
	"github.com/amirphl/concept-studio/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalConceptLocker(t *testing.T) {
	locker := NewLocalConceptLocker()
	ctx := context.Background()
	id := uuid.New()

	release, err := locker.Acquire(ctx, id, "remix")
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, id, "delete")
	assert.ErrorIs(t, err, ErrConceptBusy)

	// Other concepts are independent
	otherRelease, err := locker.Acquire(ctx, uuid.New(), "remix")
	require.NoError(t, err)
	otherRelease()

	release()
	release()

	again, err := locker.Acquire(ctx, id, "delete")
	require.NoError(t, err)
	again()

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = locker.Acquire(cancelled, id, "remix")
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRedisConceptLocker runs against a live server when REDIS_URL is set
func TestRedisConceptLocker(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	opt, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	rc := redis.NewClient(opt)
	defer rc.Close()

	ctx := context.Background()
	require.NoError(t, rc.Ping(ctx).Err())

	cfg := config.CacheConfig{Enabled: true, RedisPrefix: "concept_studio_test:", LockTTL: 5 * time.Second}
	locker := NewRedisConceptLocker(rc, cfg, utils.NewNopLogger())
	id := uuid.New()

	release, err := locker.Acquire(ctx, id, "remix")
	require.NoError(t, err)

	ttl, err := rc.TTL(ctx, conceptLockKey(cfg.RedisPrefix, id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	_, err = locker.Acquire(ctx, id, "delete")
	assert.ErrorIs(t, err, ErrConceptBusy)

	release()

	exists, err := rc.Exists(ctx, conceptLockKey(cfg.RedisPrefix, id)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)

	// A stale release must not remove a lock someone else now holds
	next, err := locker.Acquire(ctx, id, "delete")
	require.NoError(t, err)
	release()
	_, err = locker.Acquire(ctx, id, "remix")
	assert.ErrorIs(t, err, ErrConceptBusy)
	next()
}

func TestRedisConceptLockerUnavailable(t *testing.T) {
	rc := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rc.Close()

	locker := NewRedisConceptLocker(rc, config.CacheConfig{}, nil)
	_, err := locker.Acquire(context.Background(), uuid.New(), "remix")
	assert.ErrorIs(t, err, ErrLockUnavailable)
	assert.True(t, IsLockUnavailable(err))
}
