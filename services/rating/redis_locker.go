package rating

import (
	"context"
	"fmt"
	"sync"
	"time"

	"washx/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every API instance. Locks expire after TTL so a crashed
// holder cannot block a provider forever.
type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	wait       time.Duration // longest Lock blocks before ErrLockTimeout
	retryDelay time.Duration
	prefix     string
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		wait:       ttl,
		retryDelay: 25 * time.Millisecond,
		prefix:     "washx:rating-lock:",
	}
}

// Lock polls SET NX PX until it wins or the wait expires. Waiting longer than one TTL means the
// holder is stuck. A cancelled ctx returns ctx.Err() rather than ErrLockTimeout.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.New().String()

	deadline := time.NewTimer(l.wait)
	defer deadline.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", redisKey, err)
		}
		if ok {
			return l.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrLockTimeout
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *RedisLocker) unlockFunc(redisKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { l.release(redisKey, token) })
	}
}

func (l *RedisLocker) release(redisKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
		// The TTL will release it anyway.
		utils.GetLogger().Warn("Failed to release rating lock", zap.String("key", redisKey), zap.Error(err))
	}
}
