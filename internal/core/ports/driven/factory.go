package driven

import (
	"context"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// ConnectorBuilder creates a Connector from the shared configuration.
// Builders read only their own connector entry.
type ConnectorBuilder func(cfg *domain.Config, tokenProvider TokenProvider) (Connector, error)

// ConnectorFactory creates connectors from configuration.
// It maintains a registry of connector types and their builders.
type ConnectorFactory interface {
	// Create returns a Connector for the named entry of cfg.
	// Returns ErrUnsupportedType if the name is unknown and
	// ErrConnectorDisabled if the entry is disabled; in both cases no
	// connector is constructed.
	Create(ctx context.Context, cfg *domain.Config, name string) (Connector, error)

	// Register adds a connector builder for the given type.
	Register(connectorType string, builder ConnectorBuilder)

	// SupportedTypes returns all registered connector types.
	SupportedTypes() []string
}
