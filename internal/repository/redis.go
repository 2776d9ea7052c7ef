package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AndrewHnidets/demo-repositories/internal/config"
	"github.com/redis/go-redis/v9"
)

// InitRedis connects the redis client used for view counters.
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
