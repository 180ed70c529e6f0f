package github

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

// IssueContent is the JSON structure for issue and pull request RawDocument content.
type IssueContent struct {
	ID          int64     `json:"id"`
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	State       string    `json:"state"`
	Author      string    `json:"author"`
	URL         string    `json:"url"`
	Repository  string    `json:"repository"`
	Labels      []string  `json:"labels"`
	PullRequest bool      `json:"pull_request"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FetchIssues retrieves one page of issues and pull requests for repo.
// The issues endpoint returns both; cfg decides which are kept.
func FetchIssues(ctx context.Context, client *Client, repo *gh.Repository, cfg *Config) ([]domain.RawDocument, error) {
	if !cfg.IncludeIssues && !cfg.IncludePRs {
		return nil, nil
	}

	owner := repo.GetOwner().GetLogin()
	name := repo.GetName()

	issues, err := client.ListIssues(ctx, owner, name, cfg.MaxItems)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	docs := make([]domain.RawDocument, 0, len(issues))
	for _, issue := range issues {
		isPR := issue.IsPullRequest()
		if (isPR && !cfg.IncludePRs) || (!isPR && !cfg.IncludeIssues) {
			continue
		}

		doc, err := buildIssueDocument(repo.GetFullName(), issue)
		if err != nil {
			logger.Warn("github: skipping issue #%d of %s: %v", issue.GetNumber(), repo.GetFullName(), err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func buildIssueDocument(fullName string, issue *gh.Issue) (domain.RawDocument, error) {
	labels := make([]string, len(issue.Labels))
	for i, l := range issue.Labels {
		labels[i] = l.GetName()
	}

	content := IssueContent{
		ID:          issue.GetID(),
		Number:      issue.GetNumber(),
		Title:       issue.GetTitle(),
		Body:        issue.GetBody(),
		State:       issue.GetState(),
		Author:      issue.GetUser().GetLogin(),
		URL:         issue.GetHTMLURL(),
		Repository:  fullName,
		Labels:      labels,
		PullRequest: issue.IsPullRequest(),
		CreatedAt:   issue.GetCreatedAt().Time,
		UpdatedAt:   issue.GetUpdatedAt().Time,
	}
	data, err := json.Marshal(content)
	if err != nil {
		return domain.RawDocument{}, err
	}

	mimeType, kind := domain.MIMEGitHubIssue, "issue"
	if content.PullRequest {
		mimeType, kind = domain.MIMEGitHubPull, "pull_request"
	}

	return domain.RawDocument{
		Connector: domain.ConnectorGitHub,
		URI:       issue.GetHTMLURL(),
		MIMEType:  mimeType,
		Content:   data,
		Metadata: map[string]any{
			"type":       kind,
			"repository": fullName,
			"number":     issue.GetNumber(),
			"state":      issue.GetState(),
		},
	}, nil
}
