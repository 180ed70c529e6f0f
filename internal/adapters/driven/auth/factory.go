package auth

import (
	"fmt"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Factory creates the TokenProvider for each configured connector.
// Every connector gets its own provider; nothing is shared between them.
type Factory struct {
	env driven.Environment
}

// NewFactory creates a token provider factory reading env.
func NewFactory(env driven.Environment) *Factory {
	if env == nil {
		env = OSEnvironment{}
	}
	return &Factory{env: env}
}

// CreateTokenProvider returns the provider for the named connector entry.
// Returns ErrUnsupportedType for unknown names and ErrNotFound when the
// entry is missing from cfg.
func (f *Factory) CreateTokenProvider(cfg *domain.Config, name string) (driven.TokenProvider, error) {
	switch name {
	case domain.ConnectorSlack:
		if cfg.Connectors.Slack == nil {
			return nil, fmt.Errorf("connector %s: %w", name, domain.ErrNotFound)
		}
		return NewEnvTokenProvider(cfg.Connectors.Slack.BotTokenEnv, f.env), nil
	case domain.ConnectorGitHub:
		if cfg.Connectors.GitHub == nil {
			return nil, fmt.Errorf("connector %s: %w", name, domain.ErrNotFound)
		}
		return NewEnvTokenProvider(cfg.Connectors.GitHub.TokenEnv, f.env), nil
	case domain.ConnectorGoogleDrive:
		if cfg.Connectors.GoogleDrive == nil {
			return nil, fmt.Errorf("connector %s: %w", name, domain.ErrNotFound)
		}
		return NewClientSecretsProvider(cfg.Connectors.GoogleDrive.CredentialsFile), nil
	default:
		return nil, fmt.Errorf("connector %s: %w", name, domain.ErrUnsupportedType)
	}
}

// LookupEnv exposes the factory's environment to callers that only need
// presence checks, such as the embedding key in status output.
func (f *Factory) LookupEnv(key string) (string, bool) {
	return f.env.LookupEnv(key)
}
