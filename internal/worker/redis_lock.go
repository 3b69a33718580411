package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"

	"barter_market/pkg/logx"
)

const DefaultLockKey = "barter-market:catalogue-sync:lock"

// снимаем блокировку, только если она всё ещё наша
//
//nolint:gochecknoglobals
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock — RunLock поверх SET NX PX. TTL должен быть больше самого
// долгого прогона, иначе блокировка истечёт раньше.
type RedisLock struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

func NewRedisLock(client redis.UniversalClient, key string, ttl time.Duration) *RedisLock {
	if key == "" {
		key = DefaultLockKey
	}

	return &RedisLock{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (l *RedisLock) Acquire(ctx context.Context) (func(context.Context), bool, error) {
	token := xid.New().String()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis.SetNX: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) {
		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
			logger(ctx).Error("sync lock release failed", logx.Error(err))
		}
	}

	return release, true, nil
}
