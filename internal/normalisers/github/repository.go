package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure the normalisers implement the interface.
var (
	_ driven.Normaliser = (*RepositoryNormaliser)(nil)
	_ driven.Normaliser = (*ReadmeNormaliser)(nil)
)

// RepositoryNormaliser handles GitHub repository documents.
type RepositoryNormaliser struct{}

// NewRepository creates a new GitHub repository normaliser.
func NewRepository() *RepositoryNormaliser {
	return &RepositoryNormaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *RepositoryNormaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMEGitHubRepository}
}

// SupportedConnectorTypes returns connector types for specialised handling.
func (n *RepositoryNormaliser) SupportedConnectorTypes() []string {
	return connectorTypes
}

// Priority returns the selection priority.
func (n *RepositoryNormaliser) Priority() int {
	return priority
}

// RepositoryContent represents the JSON content of a repository.
type RepositoryContent struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Normalise converts a repository document.
func (n *RepositoryNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var content RepositoryContent
	if err := json.Unmarshal(raw.Content, &content); err != nil {
		return nil, fmt.Errorf("parse repository content: %w", err)
	}

	body := fmt.Sprintf("Repository: %s\nDescription: %s", content.FullName, content.Description)
	doc := newDocument(raw, strconv.FormatInt(content.ID, 10), domain.GitHubContentRepository,
		content.FullName, content.FullName, content.URL, body, content.CreatedAt, content.UpdatedAt)
	return &driven.NormaliseResult{Document: doc}, nil
}

// ReadmeNormaliser handles GitHub README documents.
type ReadmeNormaliser struct{}

// NewReadme creates a new GitHub README normaliser.
func NewReadme() *ReadmeNormaliser {
	return &ReadmeNormaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *ReadmeNormaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMEGitHubReadme}
}

// SupportedConnectorTypes returns connector types for specialised handling.
func (n *ReadmeNormaliser) SupportedConnectorTypes() []string {
	return connectorTypes
}

// Priority returns the selection priority.
func (n *ReadmeNormaliser) Priority() int {
	return priority
}

// ReadmeContent represents the JSON content of a README.
type ReadmeContent struct {
	Repository string    `json:"repository"`
	URL        string    `json:"url"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Normalise converts a README document. Its ID is "<owner/repo>-readme".
func (n *ReadmeNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var content ReadmeContent
	if err := json.Unmarshal(raw.Content, &content); err != nil {
		return nil, fmt.Errorf("parse readme content: %w", err)
	}

	doc := newDocument(raw, content.Repository+"-readme", domain.GitHubContentReadme,
		content.Repository, "README - "+content.Repository, content.URL, content.Text,
		content.CreatedAt, content.UpdatedAt)
	if raw.ParentURI != nil {
		doc.ParentID = *raw.ParentURI
	}
	return &driven.NormaliseResult{Document: doc}, nil
}
