package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	retryInterval  = 25 * time.Millisecond
	releaseTimeout = 2 * time.Second
)

// снимаем блокировку только если она всё ещё наша
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

var errLockBusy = errors.New("lock: busy")

// RedisLocker распределённая блокировка на SET NX PX
type RedisLocker struct {
	rdb  redis.Cmdable
	ttl  time.Duration
	wait time.Duration
	log  Logger
}

// NewRedisLocker ttl - время жизни ключа, wait - сколько ждать занятую блокировку
func NewRedisLocker(rdb redis.Cmdable, ttl, wait time.Duration, log Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if wait < 0 {
		wait = 0
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, wait: wait, log: log}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	acquire := func() (struct{}, error) {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("%w: %v", ErrLockBackend, err))
		}
		if !ok {
			return struct{}{}, errLockBusy
		}
		return struct{}{}, nil
	}

	opts := []backoff.RetryOption{backoff.WithBackOff(backoff.NewConstantBackOff(retryInterval))}
	if l.wait > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(l.wait))
	} else {
		opts = append(opts, backoff.WithMaxTries(1))
	}

	_, err := backoff.Retry(ctx, acquire, opts...)
	if err != nil {
		if errors.Is(err, errLockBusy) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		}
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()

			if err := releaseScript.Run(releaseCtx, l.rdb, []string{key}, token).Err(); err != nil && l.log != nil {
				l.log.Warn("lock: failed to release %s: %v", key, err)
			}
		})
	}, nil
}
