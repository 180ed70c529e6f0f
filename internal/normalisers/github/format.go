package github

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// DateLayout is the layout of the created_at and updated_at metadata.
const DateLayout = "2006-01-02 15:04:05"

// connectorTypes restricts every normaliser in this package to GitHub documents.
var connectorTypes = []string{domain.ConnectorGitHub}

// priority is the selection priority of connector-specific normalisers.
const priority = 95

// render builds the exported text of a GitHub document.
func render(repository, title, url, content string) string {
	var sb strings.Builder
	sb.WriteString("Source: GitHub\n")
	fmt.Fprintf(&sb, "Repository: %s\n", repository)
	fmt.Fprintf(&sb, "Title: %s\n", title)
	fmt.Fprintf(&sb, "URL: %s\n\n", url)
	sb.WriteString("Content:\n")
	sb.WriteString(content)
	return sb.String()
}

// formatDate renders t in DateLayout, or "" for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// newDocument fills the fields shared by every GitHub document.
func newDocument(raw *domain.RawDocument, id, kind, repository, title, url, content string, created, updated time.Time) domain.Document {
	metadata := maps.Clone(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["type"] = kind
	metadata["repository"] = repository
	metadata["mime_type"] = raw.MIMEType
	if s := formatDate(created); s != "" {
		metadata["created_at"] = s
	}
	if s := formatDate(updated); s != "" {
		metadata["updated_at"] = s
	}

	return domain.Document{
		ID:        id,
		Source:    domain.ConnectorGitHub,
		Kind:      kind,
		Title:     title,
		Content:   render(repository, title, url, content),
		URL:       url,
		CreatedAt: created.UTC(),
		UpdatedAt: updated.UTC(),
		Metadata:  metadata,
	}
}
