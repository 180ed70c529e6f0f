package github

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

func rawJSON(t *testing.T, mimeType string, v any) *domain.RawDocument {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return &domain.RawDocument{Connector: domain.ConnectorGitHub, MIMEType: mimeType, Content: data}
}

func TestRepositoryNormaliser(t *testing.T) {
	n := NewRepository()
	assert.Equal(t, []string{domain.MIMEGitHubRepository}, n.SupportedMIMETypes())
	assert.Equal(t, []string{"github"}, n.SupportedConnectorTypes())
	assert.Equal(t, 95, n.Priority())

	raw := rawJSON(t, domain.MIMEGitHubRepository, RepositoryContent{
		ID:          1296269,
		FullName:    "octocat/hello-world",
		Description: "My first repository",
		URL:         "https://github.com/octocat/hello-world",
		CreatedAt:   time.Date(2011, 1, 26, 19, 1, 12, 0, time.UTC),
		UpdatedAt:   time.Date(2011, 1, 26, 19, 14, 43, 0, time.UTC),
	})

	result, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "1296269", doc.ID)
	assert.Equal(t, "github", doc.Source)
	assert.Equal(t, "repository", doc.Kind)
	assert.Equal(t, "octocat/hello-world", doc.Title)
	assert.Equal(t, "Source: GitHub\n"+
		"Repository: octocat/hello-world\n"+
		"Title: octocat/hello-world\n"+
		"URL: https://github.com/octocat/hello-world\n\n"+
		"Content:\n"+
		"Repository: octocat/hello-world\nDescription: My first repository", doc.Content)
	assert.Equal(t, "2011-01-26 19:01:12", doc.Metadata["created_at"])
	assert.Equal(t, "2011-01-26 19:14:43", doc.Metadata["updated_at"])
	assert.Equal(t, "octocat/hello-world", doc.Metadata["repository"])
}

func TestReadmeNormaliser(t *testing.T) {
	raw := rawJSON(t, domain.MIMEGitHubReadme, ReadmeContent{
		Repository: "octocat/hello-world",
		URL:        "https://github.com/octocat/hello-world/blob/main/README.md",
		Text:       "# Hello",
	})
	parent := "https://github.com/octocat/hello-world"
	raw.ParentURI = &parent

	result, err := NewReadme().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "octocat/hello-world-readme", doc.ID)
	assert.Equal(t, "readme", doc.Kind)
	assert.Equal(t, "README - octocat/hello-world", doc.Title)
	assert.Equal(t, parent, doc.ParentID)
	assert.Contains(t, doc.Content, "Content:\n# Hello")
	assert.True(t, doc.CreatedAt.IsZero())
	assert.NotContains(t, doc.Metadata, "created_at")
}

func TestIssueAndPullNormalisers(t *testing.T) {
	content := IssueContent{
		ID: 42, Number: 7, Title: "Crash on start", Body: "Stack trace", State: "open",
		Author: "alice", URL: "https://github.com/octocat/hello-world/issues/7",
		Repository: "octocat/hello-world", Labels: []string{"bug"},
	}

	issue, err := NewIssue().Normalise(context.Background(), rawJSON(t, domain.MIMEGitHubIssue, content))
	require.NoError(t, err)
	assert.Equal(t, "42", issue.Document.ID)
	assert.Equal(t, "issue", issue.Document.Kind)
	assert.Equal(t, "#7 - Crash on start", issue.Document.Title)
	assert.Equal(t, "alice", issue.Document.Author)
	assert.Contains(t, issue.Document.Content, "Title: Crash on start\nState: open\nBody: Stack trace")
	assert.Equal(t, []string{"bug"}, issue.Document.Metadata["labels"])

	pull, err := NewPull().Normalise(context.Background(), rawJSON(t, domain.MIMEGitHubPull, content))
	require.NoError(t, err)
	assert.Equal(t, "pull_request", pull.Document.Kind)
	assert.Equal(t, "pull_request", pull.Document.Metadata["type"])
}

func TestNormalisers_InvalidInput(t *testing.T) {
	_, err := NewIssue().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewRepository().Normalise(context.Background(), &domain.RawDocument{Content: []byte("{")})
	assert.Error(t, err)
}
