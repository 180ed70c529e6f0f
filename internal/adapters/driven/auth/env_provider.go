package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure EnvTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*EnvTokenProvider)(nil)

// EnvTokenProvider provides a static token read from an environment variable.
// The variable is read on every call so a value exported after start-up is seen.
type EnvTokenProvider struct {
	name string
	env  driven.Environment
}

// NewEnvTokenProvider creates a token provider for the variable name.
func NewEnvTokenProvider(name string, env driven.Environment) *EnvTokenProvider {
	if env == nil {
		env = OSEnvironment{}
	}
	return &EnvTokenProvider{name: name, env: env}
}

// GetToken returns the variable's value.
// An unset, empty or whitespace-only variable yields domain.ErrAuthRequired.
func (p *EnvTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.name == "" {
		return "", fmt.Errorf("no environment variable configured: %w", domain.ErrAuthRequired)
	}
	value, ok := p.env.LookupEnv(p.name)
	if !ok {
		return "", fmt.Errorf("environment variable %s is not set: %w", p.name, domain.ErrAuthRequired)
	}
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("environment variable %s is empty: %w", p.name, domain.ErrAuthRequired)
	}
	return value, nil
}

// Source returns "env:NAME".
func (p *EnvTokenProvider) Source() string {
	return "env:" + p.name
}

// AuthMethod returns AuthMethodPAT.
func (p *EnvTokenProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodPAT
}

// IsAuthenticated returns true if the variable holds a non-blank value.
func (p *EnvTokenProvider) IsAuthenticated() bool {
	_, err := p.GetToken(context.Background())
	return err == nil
}
