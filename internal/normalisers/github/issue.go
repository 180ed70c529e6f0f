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

// Ensure IssueNormaliser implements the interface.
var _ driven.Normaliser = (*IssueNormaliser)(nil)

// IssueNormaliser handles GitHub issue documents.
type IssueNormaliser struct{}

// NewIssue creates a new GitHub issue normaliser.
func NewIssue() *IssueNormaliser {
	return &IssueNormaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *IssueNormaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMEGitHubIssue}
}

// SupportedConnectorTypes returns connector types for specialised handling.
func (n *IssueNormaliser) SupportedConnectorTypes() []string {
	return connectorTypes
}

// Priority returns the selection priority.
func (n *IssueNormaliser) Priority() int {
	return priority
}

// IssueContent represents the JSON content of an issue or pull request.
type IssueContent struct {
	ID         int64     `json:"id"`
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	State      string    `json:"state"`
	Author     string    `json:"author"`
	URL        string    `json:"url"`
	Repository string    `json:"repository"`
	Labels     []string  `json:"labels"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Normalise converts an issue document.
func (n *IssueNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return normaliseIssue(raw, "issue")
}

func normaliseIssue(raw *domain.RawDocument, kind string) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var content IssueContent
	if err := json.Unmarshal(raw.Content, &content); err != nil {
		return nil, fmt.Errorf("parse %s content: %w", kind, err)
	}

	title := fmt.Sprintf("#%d - %s", content.Number, content.Title)
	body := fmt.Sprintf("Title: %s\nState: %s\nBody: %s", content.Title, content.State, content.Body)

	doc := newDocument(raw, strconv.FormatInt(content.ID, 10), kind,
		content.Repository, title, content.URL, body, content.CreatedAt, content.UpdatedAt)
	doc.Author = content.Author
	doc.Metadata["number"] = content.Number
	doc.Metadata["state"] = content.State
	if len(content.Labels) > 0 {
		doc.Metadata["labels"] = content.Labels
	}
	return &driven.NormaliseResult{Document: doc}, nil
}
