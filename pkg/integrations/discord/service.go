// Package discord provides the Discord webhook reaction.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/protocol"
)

const requestTimeout = 15 * time.Second

var (
	// ErrWebhookURLRequired is returned when the 'webhook_url' parameter is missing.
	ErrWebhookURLRequired = errors.New("missing or invalid 'webhook_url' parameter")
	// ErrContentRequired is returned when the 'content' parameter is missing.
	ErrContentRequired = errors.New("missing or invalid 'content' parameter")
	// ErrWebhookRejected is returned when Discord answers with a non-2xx status.
	ErrWebhookRejected = errors.New("discord webhook rejected the message")
)

type Service struct {
	client *http.Client
}

func NewService() *Service {
	return &Service{client: &http.Client{Timeout: requestTimeout}}
}

func (s *Service) ID() string {
	return "discord"
}

func (s *Service) Description() string {
	return "Discord reactions: post messages through webhooks"
}

func (s *Service) Triggers() []protocol.Trigger {
	return nil
}

func (s *Service) Reactions() []protocol.Reaction {
	return []protocol.Reaction{
		&SendMessageReaction{service: s},
	}
}

// SendMessageReaction posts a message to a Discord channel webhook.
type SendMessageReaction struct {
	service *Service
}

func (r *SendMessageReaction) Name() string {
	return "send_message"
}

func (r *SendMessageReaction) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"webhook_url": map[string]any{
				"type":        "string",
				"description": "Discord webhook URL for the target channel",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Message text, may contain {{placeholders}}",
			},
			"username": map[string]any{
				"type":        "string",
				"description": "Optional display name override",
			},
		},
		"required": []string{"webhook_url", "content"},
	}
}

func (r *SendMessageReaction) Execute(ctx context.Context, params map[string]any, ectx models.EvaluationContext) error {
	webhookURL, ok := params["webhook_url"].(string)
	if !ok || webhookURL == "" {
		return ErrWebhookURLRequired
	}

	content, ok := params["content"].(string)
	if !ok || content == "" {
		return ErrContentRequired
	}

	payload := map[string]any{"content": content}

	if username, ok := params["username"].(string); ok && username != "" {
		payload["username"] = username
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create discord request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := r.service.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrWebhookRejected, resp.StatusCode)
	}

	ectx.Logger.InfoContext(ctx, "Discord message delivered", "status", resp.StatusCode)

	return nil
}
