package driving

import (
	"context"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// ConfigService manages the shared configuration document.
type ConfigService interface {
	// Show returns the current configuration.
	Show(ctx context.Context) (*domain.Config, error)

	// Init writes the default configuration. An existing file is only
	// replaced when force is set.
	Init(ctx context.Context, force bool) (*domain.Config, error)

	// Enable switches a connector on and saves the file.
	Enable(ctx context.Context, name string) error

	// Disable switches a connector off and saves the file.
	Disable(ctx context.Context, name string) error

	// AutoConfigure enables every connector whose credentials are present
	// and returns all connectors enabled afterwards.
	AutoConfigure(ctx context.Context) ([]string, error)
}
