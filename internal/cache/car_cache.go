package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"carrental/internal/model"
)

const carsKey = "rental:catalog:cars"

type CarCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCarCache(client *redisv9.Client, ttl time.Duration) *CarCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CarCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CarCache) GetCars(ctx context.Context) ([]model.Car, bool, error) {
	raw, err := c.client.Get(ctx, carsKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get cars failed: %w", err)
	}

	var cars []model.Car
	if err := json.Unmarshal([]byte(raw), &cars); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached cars failed: %w", err)
	}
	return cars, true, nil
}

func (c *CarCache) SetCars(ctx context.Context, cars []model.Car) error {
	payload, err := json.Marshal(cars)
	if err != nil {
		return fmt.Errorf("marshal cars cache failed: %w", err)
	}
	if err := c.client.Set(ctx, carsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cars failed: %w", err)
	}
	return nil
}

func (c *CarCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, carsKey).Err(); err != nil {
		return fmt.Errorf("redis delete cars failed: %w", err)
	}
	return nil
}
