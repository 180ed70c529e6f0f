package driven

import "github.com/custodia-labs/memorybox-cli/internal/core/domain"

// ConfigStore reads and writes the shared configuration document.
type ConfigStore interface {
	// Load reads and validates the configuration.
	// Returns a *domain.ConfigError of kind ErrConfigParse or ErrConfigSchema,
	// or an error wrapping domain.ErrNotFound when the file is missing.
	Load() (*domain.Config, error)

	// Save persists cfg, replacing the file atomically.
	Save(cfg *domain.Config) error

	// Exists reports whether the configuration file exists.
	Exists() bool

	// Path returns the configuration file path.
	Path() string
}
