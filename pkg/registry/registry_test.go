package registry

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTrigger struct{ name string }

func (s *stubTrigger) Name() string            { return s.name }
func (s *stubTrigger) Schema() map[string]any  { return nil }
func (s *stubTrigger) Check(_ context.Context, _ map[string]any, _ models.EvaluationContext) (models.CheckResult, error) {
	return models.CheckResult{}, nil
}

type stubReaction struct{ name string }

func (s *stubReaction) Name() string           { return s.name }
func (s *stubReaction) Schema() map[string]any { return nil }
func (s *stubReaction) Execute(_ context.Context, _ map[string]any, _ models.EvaluationContext) error {
	return nil
}

type stubService struct {
	id        string
	triggers  []protocol.Trigger
	reactions []protocol.Reaction
}

func (s *stubService) ID() string                     { return s.id }
func (s *stubService) Description() string            { return "stub service" }
func (s *stubService) Triggers() []protocol.Trigger   { return s.triggers }
func (s *stubService) Reactions() []protocol.Reaction { return s.reactions }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry(testLogger())

	err := reg.RegisterService(&stubService{
		id:        "github",
		triggers:  []protocol.Trigger{&stubTrigger{name: "new_issue"}},
		reactions: []protocol.Reaction{&stubReaction{name: "create_issue"}},
	})
	require.NoError(t, err)

	service, ok := reg.Service("github")
	require.True(t, ok)
	assert.Equal(t, "github", service.ID())

	trigger, ok := reg.Trigger("github", "new_issue")
	require.True(t, ok)
	assert.Equal(t, "new_issue", trigger.Name())

	reaction, ok := reg.Reaction("github", "create_issue")
	require.True(t, ok)
	assert.Equal(t, "create_issue", reaction.Name())
}

func TestRegistry_DuplicateServiceFails(t *testing.T) {
	reg := NewRegistry(testLogger())

	require.NoError(t, reg.RegisterService(&stubService{id: "discord"}))
	err := reg.RegisterService(&stubService{id: "discord"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_LookupMissesAreNotErrors(t *testing.T) {
	reg := NewRegistry(testLogger())

	require.NoError(t, reg.RegisterService(&stubService{
		id:       "github",
		triggers: []protocol.Trigger{&stubTrigger{name: "new_issue"}},
	}))

	_, ok := reg.Service("gitlab")
	assert.False(t, ok)

	_, ok = reg.Trigger("github", "new_star")
	assert.False(t, ok)

	_, ok = reg.Trigger("gitlab", "new_issue")
	assert.False(t, ok)

	_, ok = reg.Reaction("github", "new_issue")
	assert.False(t, ok)
}

func TestRegistry_ServicesSorted(t *testing.T) {
	reg := NewRegistry(testLogger())

	require.NoError(t, reg.RegisterService(&stubService{id: "timer"}))
	require.NoError(t, reg.RegisterService(&stubService{id: "discord"}))
	require.NoError(t, reg.RegisterService(&stubService{id: "github"}))

	services := reg.Services()
	require.Len(t, services, 3)
	assert.Equal(t, "discord", services[0].ID())
	assert.Equal(t, "github", services[1].ID())
	assert.Equal(t, "timer", services[2].ID())
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{"type": "string"},
		},
		"required": []any{"content"},
	}

	err := ValidateParameters(schema, map[string]any{"content": "hello"})
	require.NoError(t, err)

	err = ValidateParameters(schema, map[string]any{})
	require.Error(t, err)

	// No schema means nothing to enforce.
	require.NoError(t, ValidateParameters(nil, map[string]any{"anything": 1}))
}
