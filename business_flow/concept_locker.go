package businessflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amirphl/concept-studio/config"
	"github.com/amirphl/concept-studio/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ConceptLocker guards a concept against overlapping remix and delete requests.
// Acquire returns ErrConceptBusy when another mutation holds the concept.
type ConceptLocker interface {
	Acquire(ctx context.Context, conceptID uuid.UUID, op string) (release func(), err error)
}

// releaseScript deletes the key only if it still carries our token, so a lock that
// expired and was re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisConceptLocker holds per-concept tokens in redis with SETNX and a TTL
type RedisConceptLocker struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
	logger *utils.Logger
}

// NewRedisConceptLocker creates a locker backed by the shared cache
func NewRedisConceptLocker(rc *redis.Client, cfg config.CacheConfig, logger *utils.Logger) ConceptLocker {
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = utils.DefaultConceptLockTTL
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &RedisConceptLocker{
		rc:     rc,
		prefix: cfg.RedisPrefix,
		ttl:    ttl,
		logger: logger,
	}
}

func conceptLockKey(prefix string, conceptID uuid.UUID) string {
	return prefix + utils.ConceptLockKeyPrefix + conceptID.String()
}

func (l *RedisConceptLocker) Acquire(ctx context.Context, conceptID uuid.UUID, op string) (func(), error) {
	key := conceptLockKey(l.prefix, conceptID)
	token := fmt.Sprintf("%s:%s", op, uuid.NewString())

	// Acquire distributed lock (SETNX with TTL)
	ok, err := l.rc.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLockUnavailable, err)
	}
	if !ok {
		return nil, ErrConceptBusy
	}

	return func() {
		if err := releaseScript.Run(context.Background(), l.rc, []string{key}, token).Err(); err != nil {
			l.logger.Warn("Failed to release concept lock", "key", key, "op", op, "error", err)
		}
	}, nil
}

// LocalConceptLocker keeps the held set in process memory. It is used when no cache is configured.
type LocalConceptLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]string
}

func NewLocalConceptLocker() ConceptLocker {
	return &LocalConceptLocker{held: make(map[uuid.UUID]string)}
}

func (l *LocalConceptLocker) Acquire(ctx context.Context, conceptID uuid.UUID, op string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[conceptID]; busy {
		return nil, ErrConceptBusy
	}
	l.held[conceptID] = op

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, conceptID)
			l.mu.Unlock()
		})
	}, nil
}
