// Package logmsg provides a log-output reaction, mostly useful while wiring
// up a new area.
package logmsg

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/protocol"
)

// ErrMessageRequired is returned when the 'message' parameter is missing.
var ErrMessageRequired = errors.New("missing or invalid 'message' parameter")

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) ID() string {
	return "log"
}

func (s *Service) Description() string {
	return "Log reactions: write a message to the engine log"
}

func (s *Service) Triggers() []protocol.Trigger {
	return nil
}

func (s *Service) Reactions() []protocol.Reaction {
	return []protocol.Reaction{
		&WriteReaction{},
	}
}

// WriteReaction logs its interpolated message at the configured level.
type WriteReaction struct{}

func (r *WriteReaction) Name() string {
	return "write"
}

func (r *WriteReaction) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message text, may contain {{placeholders}}",
			},
			"level": map[string]any{
				"type":        "string",
				"description": "One of debug, info, warn, error; defaults to info",
			},
		},
		"required": []string{"message"},
	}
}

func (r *WriteReaction) Execute(ctx context.Context, params map[string]any, ectx models.EvaluationContext) error {
	message, ok := params["message"].(string)
	if !ok || message == "" {
		return ErrMessageRequired
	}

	level := slog.LevelInfo

	if raw, ok := params["level"].(string); ok && raw != "" {
		err := level.UnmarshalText([]byte(raw))
		if err != nil {
			return err
		}
	}

	ectx.Logger.Log(ctx, level, message, "area_id", ectx.AreaID)

	return nil
}
