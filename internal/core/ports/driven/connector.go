package driven

import (
	"context"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// Connector authenticates against and fetches documents from one external source.
// Each connector type (slack, github, google_drive) implements this interface.
//
// A connector is built only for an enabled configuration entry. It performs
// no network I/O until Authenticate is called.
type Connector interface {
	// Type returns the connector name as used in configuration.
	Type() string

	// Authenticate resolves the connector's credential and verifies it.
	// Absent credentials fail with a domain.AuthError carrying
	// domain.ErrAuthRequired and make no network call. Malformed or
	// rejected credentials carry domain.ErrAuthInvalid.
	Authenticate(ctx context.Context) (*domain.Account, error)

	// Fetch reads the configured content.
	// Returns domain.ErrNotAuthenticated before a successful Authenticate.
	Fetch(ctx context.Context) ([]domain.RawDocument, error)

	// Close releases resources.
	Close() error
}
