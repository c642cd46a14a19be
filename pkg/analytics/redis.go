package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRetention = 30 * 24 * time.Hour

// RedisSink accumulates per-area firing counters in hourly buckets.
type RedisSink struct {
	client    redis.UniversalClient
	retention time.Duration
}

func NewRedisSink(client redis.UniversalClient) *RedisSink {
	return &RedisSink{
		client:    client,
		retention: defaultRetention,
	}
}

func (s *RedisSink) RecordFiring(ctx context.Context, areaID string, firedAt time.Time) error {
	key := firingKey(areaID, firedAt)

	pipe := s.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.retention)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}

	return nil
}

func firingKey(areaID string, t time.Time) string {
	return fmt.Sprintf("areion:firings:%s:%s", areaID, t.UTC().Format("2006010215"))
}
