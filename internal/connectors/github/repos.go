package github

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// RepositoryContent is the JSON structure for the repository RawDocument content.
type RepositoryContent struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	DefaultBranch string    `json:"default_branch,omitempty"`
	Language      string    `json:"language,omitempty"`
	Stars         int       `json:"stars"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ReadmeContent is the JSON structure for the README RawDocument content.
type ReadmeContent struct {
	Repository string    `json:"repository"`
	Path       string    `json:"path"`
	URL        string    `json:"url"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BuildRepositoryDocument converts a repository into a RawDocument.
func BuildRepositoryDocument(repo *gh.Repository) (domain.RawDocument, error) {
	content := RepositoryContent{
		ID:            repo.GetID(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		URL:           repo.GetHTMLURL(),
		DefaultBranch: repo.GetDefaultBranch(),
		Language:      repo.GetLanguage(),
		Stars:         repo.GetStargazersCount(),
		CreatedAt:     repo.GetCreatedAt().Time,
		UpdatedAt:     repo.GetUpdatedAt().Time,
	}
	data, err := json.Marshal(content)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("encode repository: %w", err)
	}

	return domain.RawDocument{
		Connector: domain.ConnectorGitHub,
		URI:       repo.GetHTMLURL(),
		MIMEType:  domain.MIMEGitHubRepository,
		Content:   data,
		Metadata: map[string]any{
			"type":       domain.GitHubContentRepository,
			"repository": repo.GetFullName(),
		},
	}, nil
}

// FetchReadme retrieves the README of repo as a RawDocument.
// The README carries the repository's timestamps since the contents API has none.
func FetchReadme(ctx context.Context, client *Client, repo *gh.Repository) (domain.RawDocument, error) {
	owner := repo.GetOwner().GetLogin()
	name := repo.GetName()

	readme, text, err := client.GetReadme(ctx, owner, name)
	if err != nil {
		return domain.RawDocument{}, err
	}

	content := ReadmeContent{
		Repository: repo.GetFullName(),
		Path:       readme.GetPath(),
		URL:        readme.GetHTMLURL(),
		Text:       text,
		CreatedAt:  repo.GetCreatedAt().Time,
		UpdatedAt:  repo.GetUpdatedAt().Time,
	}
	data, err := json.Marshal(content)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("encode readme: %w", err)
	}

	parent := repo.GetHTMLURL()
	return domain.RawDocument{
		Connector: domain.ConnectorGitHub,
		URI:       readme.GetHTMLURL(),
		MIMEType:  domain.MIMEGitHubReadme,
		Content:   data,
		ParentURI: &parent,
		Metadata: map[string]any{
			"type":       domain.GitHubContentReadme,
			"repository": repo.GetFullName(),
		},
	}, nil
}
