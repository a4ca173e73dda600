package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcortez/admetrics/internal/utils"
)

// RedisProgress keeps upload progress in Redis so multiple instances
// can serve the polling endpoint. Entries expire via key TTL.
type RedisProgress struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProgress connects to Redis and verifies it is reachable,
// retrying the ping briefly before giving up.
func NewRedisProgress(ctx context.Context, addr, password string, db int, ttl time.Duration, log *slog.Logger) (*RedisProgress, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	err := utils.Retry(ctx, 4, 200*time.Millisecond, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.Info("connected to redis", slog.String("addr", addr), slog.Int("db", db))
	return &RedisProgress{client: client, ttl: ttl}, nil
}

func progressKey(owner string) string { return "upload_progress:" + owner }

func (r *RedisProgress) Set(ctx context.Context, owner string, p Progress) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, progressKey(owner), b, r.ttl).Err()
}

func (r *RedisProgress) Get(ctx context.Context, owner string) (Progress, bool, error) {
	b, err := r.client.Get(ctx, progressKey(owner)).Bytes()
	if err == redis.Nil {
		return Progress{}, false, nil
	}
	if err != nil {
		return Progress{}, false, err
	}
	var p Progress
	if err := json.Unmarshal(b, &p); err != nil {
		return Progress{}, false, err
	}
	return p, true, nil
}

func (r *RedisProgress) Clear(ctx context.Context, owner string) error {
	return r.client.Del(ctx, progressKey(owner)).Err()
}

func (r *RedisProgress) Close() error { return r.client.Close() }
