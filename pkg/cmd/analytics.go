package cmd

import (
	"fmt"

	"github.com/dukex/areion/pkg/analytics"
	"github.com/redis/go-redis/v9"
)

// NewAnalytics builds the firing analytics sink. An empty URL disables it.
func NewAnalytics(redisURL string) (analytics.Sink, error) {
	if redisURL == "" {
		return analytics.NewNoopSink(), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return analytics.NewRedisSink(redis.NewClient(opts)), nil
}
