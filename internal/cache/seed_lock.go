package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

const seedLockKey = "rental:catalog:seed-lock"

// releaseScript deletes the lock only while it still holds our token, so an
// expired holder cannot drop a lock taken over by another instance.
var releaseScript = redisv9.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SeedLock is a single-holder Redis lock guarding catalog seeding across instances.
type SeedLock struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewSeedLock(client *redisv9.Client, ttl time.Duration) *SeedLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SeedLock{client: client, ttl: ttl}
}

// Acquire returns ok=false when another holder has the lock. release is never nil.
func (l *SeedLock) Acquire(ctx context.Context) (release func(), ok bool, err error) {
	token := uuid.NewString()
	ok, err = l.client.SetNX(ctx, seedLockKey, token, l.ttl).Result()
	if err != nil {
		return func() {}, false, fmt.Errorf("redis acquire seed lock failed: %w", err)
	}
	if !ok {
		return func() {}, false, nil
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{seedLockKey}, token).Err()
	}, true, nil
}
