package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure ClientSecretsProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ClientSecretsProvider)(nil)

// ClientSecretsProvider locates an OAuth client secrets file.
// GetToken returns the file path; the OAuth flow itself lives in the connector.
type ClientSecretsProvider struct {
	path string
}

// NewClientSecretsProvider creates a provider for the secrets file at path.
func NewClientSecretsProvider(path string) *ClientSecretsProvider {
	return &ClientSecretsProvider{path: path}
}

// GetToken returns the secrets file path once it is known to exist.
func (p *ClientSecretsProvider) GetToken(_ context.Context) (string, error) {
	if p.path == "" {
		return "", fmt.Errorf("no credentials file configured: %w", domain.ErrAuthRequired)
	}
	info, err := os.Stat(p.path)
	if err != nil {
		return "", fmt.Errorf("credentials file %s not found: %w", p.path, domain.ErrAuthRequired)
	}
	if info.IsDir() {
		return "", fmt.Errorf("credentials file %s is a directory: %w", p.path, domain.ErrAuthInvalid)
	}
	return p.path, nil
}

// Source returns "file:PATH".
func (p *ClientSecretsProvider) Source() string {
	return "file:" + p.path
}

// AuthMethod returns AuthMethodOAuth.
func (p *ClientSecretsProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodOAuth
}

// IsAuthenticated returns true if the secrets file exists.
func (p *ClientSecretsProvider) IsAuthenticated() bool {
	_, err := p.GetToken(context.Background())
	return err == nil
}
