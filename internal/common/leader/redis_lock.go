package leader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Owner-checked scripts so a holder never extends or drops someone else's lock.
var (
	refreshScript = redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("pexpire", KEYS[1], ARGV[2])
		else
			return 0
		end
	`)
	releaseScript = redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)
)

// RedisLock stores the lock as a key holding the owner's instance id.
type RedisLock struct {
	client *redis.Client
	key    string
}

// NewRedisLock creates a lock stored under key.
func NewRedisLock(client *redis.Client, key string) *RedisLock {
	return &RedisLock{client: client, key: key}
}

func (l *RedisLock) Name() string { return l.key }

func (l *RedisLock) Acquire(ctx context.Context, holder string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, holder, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	if ok {
		return true, nil
	}

	// Still ours from before a restart.
	owner, err := l.Holder(ctx)
	if err != nil || owner != holder {
		return false, err
	}
	return l.Refresh(ctx, holder, ttl)
}

func (l *RedisLock) Refresh(ctx context.Context, holder string, ttl time.Duration) (bool, error) {
	n, err := refreshScript.Run(ctx, l.client, []string{l.key}, holder, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("refresh %s: %w", l.key, err)
	}
	return n > 0, nil
}

func (l *RedisLock) Release(ctx context.Context, holder string) (bool, error) {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, holder).Int()
	if err != nil {
		return false, fmt.Errorf("release %s: %w", l.key, err)
	}
	return n > 0, nil
}

func (l *RedisLock) Holder(ctx context.Context) (string, error) {
	owner, err := l.client.Get(ctx, l.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", l.key, err)
	}
	return owner, nil
}
