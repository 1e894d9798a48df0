package utils

import (
	"context"
	"fmt"
	"time"

	"investplan/config"

	"github.com/go-redis/redis/v8"
)

var (
	// AuthCacheClient caches verified bearer tokens.
	AuthCacheClient *redis.Client
	// LockClient holds the per-transaction settlement locks.
	LockClient *redis.Client
)

func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis db %d: %w", db, err)
	}
	return client, nil
}

// InitRedis connects the auth cache and lock clients.
func InitRedis() error {
	var err error
	if AuthCacheClient, err = newRedisClient(config.AppConfig.RedisAuthDB); err != nil {
		return err
	}
	if LockClient, err = newRedisClient(config.AppConfig.RedisLockDB); err != nil {
		return err
	}
	return nil
}

// CloseRedis closes every initialized client.
func CloseRedis() {
	for _, c := range []*redis.Client{AuthCacheClient, LockClient} {
		if c != nil {
			_ = c.Close()
		}
	}
}
