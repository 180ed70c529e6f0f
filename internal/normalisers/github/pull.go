package github

import (
	"context"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure PullNormaliser implements the interface.
var _ driven.Normaliser = (*PullNormaliser)(nil)

// PullNormaliser handles GitHub pull request documents.
// Pull requests arrive through the issues endpoint and share its shape.
type PullNormaliser struct{}

// NewPull creates a new GitHub pull request normaliser.
func NewPull() *PullNormaliser {
	return &PullNormaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *PullNormaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMEGitHubPull}
}

// SupportedConnectorTypes returns connector types for specialised handling.
func (n *PullNormaliser) SupportedConnectorTypes() []string {
	return connectorTypes
}

// Priority returns the selection priority.
func (n *PullNormaliser) Priority() int {
	return priority
}

// Normalise converts a pull request document.
func (n *PullNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return normaliseIssue(raw, "pull_request")
}
