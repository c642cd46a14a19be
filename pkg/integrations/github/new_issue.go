package github

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dukex/areion/pkg/models"
)

type issue struct {
	Number  int64  `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	User    struct {
		Login string `json:"login"`
	} `json:"user"`
	PullRequest *struct{} `json:"pull_request"`
}

// NewIssueTrigger fires when an issue newer than the remembered one appears in
// a repository. The cursor is the highest issue number seen so far; several
// issues created between two sweeps collapse into one firing for the newest.
type NewIssueTrigger struct {
	service *Service
}

func (t *NewIssueTrigger) Name() string {
	return "new_issue"
}

func (t *NewIssueTrigger) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"owner": map[string]any{
				"type":        "string",
				"description": "Repository owner (user or organization)",
			},
			"repo": map[string]any{
				"type":        "string",
				"description": "Repository name",
			},
		},
		"required": []string{"owner", "repo"},
	}
}

func (t *NewIssueTrigger) Check(ctx context.Context, params map[string]any, ectx models.EvaluationContext) (models.CheckResult, error) {
	owner, repo, err := repoParams(params)
	if err != nil {
		return models.CheckResult{}, err
	}

	path := fmt.Sprintf("/repos/%s/%s/issues?state=all&sort=created&direction=desc&per_page=10",
		url.PathEscape(owner), url.PathEscape(repo))

	var issues []issue

	err = t.service.get(ctx, path, ectx.Credential, &issues)
	if err != nil {
		return models.CheckResult{}, err
	}

	latest, found := latestIssue(issues)
	if !found {
		// Empty repository: remember that we looked.
		return models.CheckResult{Metadata: map[string]any{"last_issue_id": float64(0)}}, nil
	}

	metadata := map[string]any{"last_issue_id": float64(latest.Number)}

	prior, seen := cursorNumber(ectx.Metadata, "last_issue_id")
	if !seen {
		return models.CheckResult{Metadata: metadata}, nil
	}

	if latest.Number <= prior {
		return models.CheckResult{Metadata: metadata}, nil
	}

	return models.CheckResult{
		Fired: true,
		Data: map[string]any{
			"id":     float64(latest.Number),
			"title":  latest.Title,
			"url":    latest.HTMLURL,
			"author": latest.User.Login,
		},
		Metadata: metadata,
	}, nil
}

// latestIssue skips pull requests, which the issues endpoint also returns.
func latestIssue(issues []issue) (issue, bool) {
	for _, candidate := range issues {
		if candidate.PullRequest == nil {
			return candidate, true
		}
	}

	return issue{}, false
}
