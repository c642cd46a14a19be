// Package timer provides a clock-based trigger that needs no external service.
package timer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/protocol"
)

var (
	// ErrEveryRequired is returned when the 'every' parameter is missing.
	ErrEveryRequired = errors.New("missing or invalid 'every' parameter")
	// ErrEveryTooSmall is returned for periods under one second.
	ErrEveryTooSmall = errors.New("'every' must be at least one second")
)

type Service struct {
	now func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

// NewServiceWithClock injects a clock for tests.
func NewServiceWithClock(now func() time.Time) *Service {
	return &Service{now: now}
}

func (s *Service) ID() string {
	return "timer"
}

func (s *Service) Description() string {
	return "Clock triggers: fire on a fixed period"
}

func (s *Service) Triggers() []protocol.Trigger {
	return []protocol.Trigger{
		&IntervalTrigger{service: s},
	}
}

func (s *Service) Reactions() []protocol.Reaction {
	return nil
}

// IntervalTrigger fires once the configured period has elapsed since the last
// firing. The first sweep only records the baseline timestamp; ticks missed
// while the engine was down collapse into a single firing.
type IntervalTrigger struct {
	service *Service
}

func (t *IntervalTrigger) Name() string {
	return "interval"
}

func (t *IntervalTrigger) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"every": map[string]any{
				"type":        "string",
				"description": "Period between firings as a Go duration, e.g. '30m' or '24h'",
			},
		},
		"required": []string{"every"},
	}
}

func (t *IntervalTrigger) Check(_ context.Context, params map[string]any, ectx models.EvaluationContext) (models.CheckResult, error) {
	raw, ok := params["every"].(string)
	if !ok || raw == "" {
		return models.CheckResult{}, ErrEveryRequired
	}

	every, err := time.ParseDuration(raw)
	if err != nil {
		return models.CheckResult{}, fmt.Errorf("invalid 'every' duration: %w", err)
	}

	if every < time.Second {
		return models.CheckResult{}, ErrEveryTooSmall
	}

	now := t.service.now().UTC()
	metadata := map[string]any{"last_fired_at": now.Format(time.RFC3339)}

	last, seen := lastFiredAt(ectx.Metadata)
	if !seen {
		return models.CheckResult{Metadata: metadata}, nil
	}

	if now.Sub(last) < every {
		return models.CheckResult{}, nil
	}

	return models.CheckResult{
		Fired: true,
		Data: map[string]any{
			"fired_at": now.Format(time.RFC3339),
			"every":    raw,
		},
		Metadata: metadata,
	}, nil
}

func lastFiredAt(metadata map[string]any) (time.Time, bool) {
	if metadata == nil {
		return time.Time{}, false
	}

	raw, ok := metadata["last_fired_at"].(string)
	if !ok {
		return time.Time{}, false
	}

	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}

	return last, true
}
