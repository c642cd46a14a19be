package github

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dukex/areion/pkg/models"
)

type repository struct {
	FullName        string `json:"full_name"`
	StargazersCount int64  `json:"stargazers_count"`
}

// NewStarTrigger fires when a repository's stargazer count rises above the
// remembered value. A count that drops (unstars) only moves the cursor down
// without firing.
type NewStarTrigger struct {
	service *Service
}

func (t *NewStarTrigger) Name() string {
	return "new_star"
}

func (t *NewStarTrigger) Schema() map[string]any {
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

func (t *NewStarTrigger) Check(ctx context.Context, params map[string]any, ectx models.EvaluationContext) (models.CheckResult, error) {
	owner, repo, err := repoParams(params)
	if err != nil {
		return models.CheckResult{}, err
	}

	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))

	var repoData repository

	err = t.service.get(ctx, path, ectx.Credential, &repoData)
	if err != nil {
		return models.CheckResult{}, err
	}

	metadata := map[string]any{"last_star_count": float64(repoData.StargazersCount)}

	prior, seen := cursorNumber(ectx.Metadata, "last_star_count")
	if !seen {
		return models.CheckResult{Metadata: metadata}, nil
	}

	if repoData.StargazersCount <= prior {
		return models.CheckResult{Metadata: metadata}, nil
	}

	return models.CheckResult{
		Fired: true,
		Data: map[string]any{
			"repository": repoData.FullName,
			"stars":      float64(repoData.StargazersCount),
			"new_stars":  float64(repoData.StargazersCount - prior),
		},
		Metadata: metadata,
	}, nil
}
