// Package drive provides the normaliser for Google Drive files.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	gdrive "github.com/custodia-labs/memorybox-cli/internal/connectors/google/drive"
	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Placeholders used when a field of the file is missing.
const (
	UntitledTitle   = "Untitled"
	UnknownOwner    = "Unknown"
	UnknownDate     = "Unknown date"
	NoTextExtracted = "[No text extracted]"
)

// Normaliser handles Google Drive file documents.
type Normaliser struct{}

// New creates a new Google Drive normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMEDriveFile}
}

// SupportedConnectorTypes returns connector types for specialised handling.
func (n *Normaliser) SupportedConnectorTypes() []string {
	return []string{domain.ConnectorGoogleDrive}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 95
}

// Normalise converts a Drive file document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var file gdrive.FileContent
	if err := json.Unmarshal(raw.Content, &file); err != nil {
		return nil, fmt.Errorf("parse drive file content: %w", err)
	}
	if file.ID == "" {
		return nil, fmt.Errorf("drive file without id: %w", domain.ErrInvalidInput)
	}

	title := orDefault(file.Name, UntitledTitle)
	owner := UnknownOwner
	if len(file.Owners) > 0 && file.Owners[0].DisplayName != "" {
		owner = file.Owners[0].DisplayName
	}
	created := UnknownDate
	createdAt, _ := time.Parse(time.RFC3339, file.CreatedTime)
	if file.CreatedTime != "" {
		created = file.CreatedTime
	}
	updatedAt, _ := time.Parse(time.RFC3339, file.ModifiedTime)

	var sb strings.Builder
	sb.WriteString("Source: Google Drive\n")
	fmt.Fprintf(&sb, "Title: %s\n", title)
	fmt.Fprintf(&sb, "Owner: %s\n", owner)
	fmt.Fprintf(&sb, "File Type: %s\n", file.MIMEType)
	fmt.Fprintf(&sb, "Created: %s\n\n", created)
	sb.WriteString("Content:\n")
	sb.WriteString(orDefault(strings.TrimSpace(file.Content), NoTextExtracted))

	metadata := maps.Clone(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["file_id"] = file.ID
	metadata["owner"] = owner
	if file.Description != "" {
		metadata["description"] = file.Description
	}
	if file.Truncated {
		metadata["truncated"] = true
	}

	doc := domain.Document{
		ID:        "drive_" + file.ID,
		Source:    domain.ConnectorGoogleDrive,
		Kind:      file.MIMEType,
		Title:     title,
		Content:   sb.String(),
		Author:    owner,
		URL:       gdrive.ResolveWebURL(raw.URI, file.WebViewLink),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Metadata:  metadata,
	}
	if raw.ParentURI != nil {
		if id, ok := gdrive.FileIDFromURI(*raw.ParentURI); ok {
			doc.ParentID = "drive_" + id
		}
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
