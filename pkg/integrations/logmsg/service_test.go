package logmsg

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dukex/areion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_LogsInterpolatedMessage(t *testing.T) {
	var buf bytes.Buffer

	ectx := models.EvaluationContext{
		AreaID: "area-1",
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	}

	reaction := NewService().Reactions()[0]

	err := reaction.Execute(context.Background(), map[string]any{"message": "New issue: Fix crash"}, ectx)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "New issue: Fix crash")
	assert.Contains(t, buf.String(), "area-1")
}

func TestWrite_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	ectx := models.EvaluationContext{
		Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	reaction := NewService().Reactions()[0]

	require.NoError(t, reaction.Execute(context.Background(), map[string]any{"message": "quiet", "level": "debug"}, ectx))
	assert.Empty(t, buf.String())

	require.NoError(t, reaction.Execute(context.Background(), map[string]any{"message": "loud", "level": "error"}, ectx))
	assert.Contains(t, buf.String(), "loud")
}

func TestWrite_InvalidParams(t *testing.T) {
	reaction := NewService().Reactions()[0]

	err := reaction.Execute(context.Background(), map[string]any{}, models.EvaluationContext{})
	require.ErrorIs(t, err, ErrMessageRequired)

	err = reaction.Execute(context.Background(), map[string]any{"message": "hi", "level": "shout"}, models.EvaluationContext{})
	require.Error(t, err)
}
