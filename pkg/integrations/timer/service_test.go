package timer

import (
	"context"
	"testing"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestInterval_FirstObservationRecordsBaseline(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	trigger := NewServiceWithClock(fixedClock(now)).Triggers()[0]

	result, err := trigger.Check(context.Background(),
		map[string]any{"every": "1h"},
		models.EvaluationContext{})

	require.NoError(t, err)
	assert.False(t, result.Fired)
	assert.Equal(t, map[string]any{"last_fired_at": "2025-03-01T12:00:00Z"}, result.Metadata)
}

func TestInterval_FiresOncePeriodElapsed(t *testing.T) {
	now := time.Date(2025, 3, 1, 13, 30, 0, 0, time.UTC)
	trigger := NewServiceWithClock(fixedClock(now)).Triggers()[0]

	result, err := trigger.Check(context.Background(),
		map[string]any{"every": "1h"},
		models.EvaluationContext{Metadata: map[string]any{"last_fired_at": "2025-03-01T12:00:00Z"}})

	require.NoError(t, err)
	assert.True(t, result.Fired)
	assert.Equal(t, "2025-03-01T13:30:00Z", result.Data["fired_at"])
	assert.Equal(t, map[string]any{"last_fired_at": "2025-03-01T13:30:00Z"}, result.Metadata)
}

func TestInterval_SilentBeforePeriodElapses(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	trigger := NewServiceWithClock(fixedClock(now)).Triggers()[0]

	result, err := trigger.Check(context.Background(),
		map[string]any{"every": "1h"},
		models.EvaluationContext{Metadata: map[string]any{"last_fired_at": "2025-03-01T12:00:00Z"}})

	require.NoError(t, err)
	assert.False(t, result.Fired)
	assert.Nil(t, result.Metadata)
}

func TestInterval_MissedPeriodsCollapseIntoOneFiring(t *testing.T) {
	// Three hours late on a 1h period still fires exactly once and resets
	// the cursor to now.
	now := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	trigger := NewServiceWithClock(fixedClock(now)).Triggers()[0]

	result, err := trigger.Check(context.Background(),
		map[string]any{"every": "1h"},
		models.EvaluationContext{Metadata: map[string]any{"last_fired_at": "2025-03-01T12:00:00Z"}})

	require.NoError(t, err)
	assert.True(t, result.Fired)
	assert.Equal(t, map[string]any{"last_fired_at": "2025-03-01T15:00:00Z"}, result.Metadata)
}

func TestInterval_InvalidParams(t *testing.T) {
	trigger := NewService().Triggers()[0]

	_, err := trigger.Check(context.Background(), map[string]any{}, models.EvaluationContext{})
	require.ErrorIs(t, err, ErrEveryRequired)

	_, err = trigger.Check(context.Background(), map[string]any{"every": "nonsense"}, models.EvaluationContext{})
	require.Error(t, err)

	_, err = trigger.Check(context.Background(), map[string]any{"every": "100ms"}, models.EvaluationContext{})
	require.ErrorIs(t, err, ErrEveryTooSmall)
}
