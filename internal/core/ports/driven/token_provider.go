package driven

import (
	"context"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// TokenProvider resolves the credential for exactly one connector.
type TokenProvider interface {
	// GetToken returns the secret.
	// Returns an error wrapping domain.ErrAuthRequired when it is absent or empty.
	GetToken(ctx context.Context) (string, error)

	// Source describes where the credential comes from, e.g. "env:SLACK_BOT_TOKEN".
	Source() string

	// AuthMethod returns the authentication method (oauth, pat).
	AuthMethod() domain.AuthMethod

	// IsAuthenticated returns true if a non-empty credential is available.
	// It never performs network I/O.
	IsAuthenticated() bool
}

// TokenStore persists the OAuth user token of a connector.
type TokenStore interface {
	// Load reads the token. Returns domain.ErrNotFound when none is stored.
	Load() (*domain.OAuthToken, error)

	// Save writes the token, replacing any previous one.
	Save(token *domain.OAuthToken) error

	// Delete removes the stored token. Deleting a missing token is not an error.
	Delete() error

	// Path returns where the token lives.
	Path() string
}

// Environment looks up process environment variables.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// TokenProviderFactory creates the TokenProvider of a configured connector.
type TokenProviderFactory interface {
	// CreateTokenProvider returns the provider for the named entry of cfg.
	// Returns ErrUnsupportedType for unknown names and ErrNotFound when the
	// entry is missing.
	CreateTokenProvider(cfg *domain.Config, name string) (TokenProvider, error)
}
