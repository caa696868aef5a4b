package sessioninfra

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

const lockKeyPrefix = "session:turn:lock:"

// RedisLock implements session.Lock with SETNX and a TTL, serializing
// turn processing per session. The TTL bounds how long a crashed request
// can keep a session busy.
type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

func (l *RedisLock) Acquire(ctx context.Context, sessionID kernel.SessionID, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, lockKeyPrefix+sessionID.String(), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquiring session lock: %w", err)
	}
	return acquired, nil
}

func (l *RedisLock) Release(ctx context.Context, sessionID kernel.SessionID) error {
	if err := l.client.Del(ctx, lockKeyPrefix+sessionID.String()).Err(); err != nil {
		return fmt.Errorf("releasing session lock: %w", err)
	}
	return nil
}
