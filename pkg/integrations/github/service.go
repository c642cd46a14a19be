// Package github provides GitHub polling triggers backed by the REST API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/protocol"
)

const defaultBaseURL = "https://api.github.com"

const requestTimeout = 15 * time.Second

var (
	// ErrOwnerRequired is returned when the 'owner' parameter is missing.
	ErrOwnerRequired = errors.New("missing or invalid 'owner' parameter")
	// ErrRepoRequired is returned when the 'repo' parameter is missing.
	ErrRepoRequired = errors.New("missing or invalid 'repo' parameter")
	// ErrUnexpectedStatus is returned when GitHub answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status from github")
)

// Service exposes the GitHub triggers. BaseURL is overridable for tests.
type Service struct {
	baseURL string
	client  *http.Client
}

func NewService() *Service {
	return NewServiceWithBaseURL(defaultBaseURL)
}

func NewServiceWithBaseURL(baseURL string) *Service {
	return &Service{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

func (s *Service) ID() string {
	return "github"
}

func (s *Service) Description() string {
	return "GitHub repository triggers: new issues and new stars"
}

func (s *Service) Triggers() []protocol.Trigger {
	return []protocol.Trigger{
		&NewIssueTrigger{service: s},
		&NewStarTrigger{service: s},
	}
}

func (s *Service) Reactions() []protocol.Reaction {
	return nil
}

func repoParams(params map[string]any) (string, string, error) {
	owner, ok := params["owner"].(string)
	if !ok || owner == "" {
		return "", "", ErrOwnerRequired
	}

	repo, ok := params["repo"].(string)
	if !ok || repo == "" {
		return "", "", ErrRepoRequired
	}

	return owner, repo, nil
}

func (s *Service) get(ctx context.Context, path string, credential *models.Credential, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create github request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")

	if credential != nil && credential.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+credential.AccessToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read github response: %w", err)
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("failed to decode github response: %w", err)
	}

	return nil
}

// cursorNumber reads a numeric cursor from trigger metadata. JSON round-trips
// store numbers as float64.
func cursorNumber(metadata map[string]any, key string) (int64, bool) {
	if metadata == nil {
		return 0, false
	}

	switch v := metadata[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
