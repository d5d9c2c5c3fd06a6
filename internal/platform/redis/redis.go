package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	connectAttempts = 5
	retryDelay      = time.Second
)

// New returns a client once a ping succeeds, retrying while the server is
// still coming up.
func New(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if lastErr = ping(ctx, client); lastErr == nil {
			slog.Info("redis connected", "addr", addr)
			return client, nil
		}
		slog.Warn("waiting for redis", "addr", addr, "attempt", attempt, "error", lastErr)

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, fmt.Errorf("connect redis cancelled: %w", ctx.Err())
		case <-time.After(retryDelay):
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("ping redis failed after %d attempts: %w", connectAttempts, lastErr)
}

func ping(ctx context.Context, client *redis.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(pingCtx).Err()
}
