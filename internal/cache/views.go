package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const viewKeyPrefix = "project:views:"

// ViewCounter accumulates project view counts in redis. The scheduler
// periodically drains it into the projects table.
type ViewCounter struct {
	client *redis.Client
}

func NewViewCounter(client *redis.Client) *ViewCounter {
	return &ViewCounter{client: client}
}

// Increment bumps the pending view count of one project.
func (v *ViewCounter) Increment(ctx context.Context, projectID uint) error {
	key := viewKeyPrefix + strconv.FormatUint(uint64(projectID), 10)
	if err := v.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to increment view counter: %w", err)
	}
	return nil
}

// Drain atomically reads and clears every pending counter.
func (v *ViewCounter) Drain(ctx context.Context) (map[uint]int64, error) {
	counts := make(map[uint]int64)

	iter := v.client.Scan(ctx, 0, viewKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		raw, err := v.client.GetDel(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return counts, fmt.Errorf("failed to drain view counter %s: %w", key, err)
		}

		id, err := strconv.ParseUint(strings.TrimPrefix(key, viewKeyPrefix), 10, 64)
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n == 0 {
			continue
		}
		counts[uint(id)] += n
	}
	if err := iter.Err(); err != nil {
		return counts, fmt.Errorf("failed to scan view counters: %w", err)
	}
	return counts, nil
}
