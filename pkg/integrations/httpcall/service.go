// Package httpcall provides a generic HTTP request reaction with retry on
// server errors.
package httpcall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/protocol"
)

const defaultTimeout = 30 * time.Second

var (
	// ErrURLRequired is returned when the 'url' parameter is missing.
	ErrURLRequired = errors.New("missing or invalid 'url' parameter")
	// ErrServerError is returned when the target keeps answering with 5xx.
	ErrServerError = errors.New("server error during http request")
	// ErrRequestRejected is returned when the target answers with a 4xx status.
	ErrRequestRejected = errors.New("http request rejected")
)

// RetryConfig defines retry behavior for server errors and transport failures.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

type Service struct {
	client *http.Client
}

func NewService() *Service {
	return &Service{client: &http.Client{Timeout: defaultTimeout}}
}

func (s *Service) ID() string {
	return "http"
}

func (s *Service) Description() string {
	return "Generic HTTP reactions for services without a dedicated integration"
}

func (s *Service) Triggers() []protocol.Trigger {
	return nil
}

func (s *Service) Reactions() []protocol.Reaction {
	return []protocol.Reaction{
		&RequestReaction{service: s},
	}
}

// RequestReaction performs one HTTP request described entirely by its
// parameters. 5xx answers and transport failures are retried, 4xx answers are
// not.
type RequestReaction struct {
	service *Service
}

func (r *RequestReaction) Name() string {
	return "request"
}

func (r *RequestReaction) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Target URL",
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method, defaults to GET",
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Request headers",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Request body, may contain {{placeholders}}",
			},
			"retry": map[string]any{
				"type":        "object",
				"description": "Retry policy: attempts and delay_seconds",
			},
		},
		"required": []string{"url"},
	}
}

func (r *RequestReaction) Execute(ctx context.Context, params map[string]any, ectx models.EvaluationContext) error {
	targetURL, ok := params["url"].(string)
	if !ok || targetURL == "" {
		return ErrURLRequired
	}

	method, _ := params["method"].(string)
	if method == "" {
		method = http.MethodGet
	}

	method = strings.ToUpper(method)

	body, _ := params["body"].(string)
	headers := parseHeaders(params["headers"])
	retry := parseRetryConfig(params["retry"])

	logger := ectx.Logger.With("url", targetURL, "method", method)

	var lastErr error

	for attempt := 1; attempt <= retry.Attempts; attempt++ {
		if attempt > 1 {
			logger.InfoContext(ctx, fmt.Sprintf("HTTP reaction retry attempt %d/%d", attempt, retry.Attempts))
			time.Sleep(retry.Delay)
		}

		status, err := r.doRequest(ctx, method, targetURL, headers, body, ectx.Credential)
		if err != nil {
			lastErr = err

			continue
		}

		switch {
		case status >= 500:
			lastErr = fmt.Errorf("%w: %d", ErrServerError, status)

			continue
		case status >= 400:
			return fmt.Errorf("%w: %d", ErrRequestRejected, status)
		default:
			logger.InfoContext(ctx, "HTTP reaction completed", "status", status)

			return nil
		}
	}

	return fmt.Errorf("all retry attempts failed, last error: %w", lastErr)
}

func (r *RequestReaction) doRequest(
	ctx context.Context,
	method string,
	targetURL string,
	headers map[string]string,
	body string,
	credential *models.Credential,
) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, targetURL, strings.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create http request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if credential != nil && credential.AccessToken != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+credential.AccessToken)
	}

	resp, err := r.service.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request failed: %w", err)
	}

	err = resp.Body.Close()
	if err != nil {
		return 0, fmt.Errorf("failed to close response body: %w", err)
	}

	return resp.StatusCode, nil
}

func parseHeaders(raw any) map[string]string {
	headers := make(map[string]string)

	headersMap, ok := raw.(map[string]any)
	if !ok {
		return headers
	}

	for key, value := range headersMap {
		if strVal, ok := value.(string); ok {
			headers[key] = strVal
		}
	}

	return headers
}

func parseRetryConfig(raw any) RetryConfig {
	retry := RetryConfig{Attempts: 1, Delay: 0}

	retryMap, ok := raw.(map[string]any)
	if !ok {
		return retry
	}

	if attempts, ok := retryMap["attempts"].(float64); ok && attempts >= 1 {
		retry.Attempts = int(attempts)
	}

	if delay, ok := retryMap["delay_seconds"].(float64); ok && delay >= 0 {
		retry.Delay = time.Duration(delay) * time.Second
	}

	return retry
}
