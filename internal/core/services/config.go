package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

// Ensure ConfigService implements the interface.
var _ driving.ConfigService = (*ConfigService)(nil)

// ConfigService manages the shared configuration file.
type ConfigService struct {
	store     driven.ConfigStore
	providers driven.TokenProviderFactory
}

// NewConfigService creates a new config service.
func NewConfigService(store driven.ConfigStore, providers driven.TokenProviderFactory) *ConfigService {
	return &ConfigService{store: store, providers: providers}
}

// Show returns the current configuration.
func (s *ConfigService) Show(_ context.Context) (*domain.Config, error) {
	return s.store.Load()
}

// Init writes the default configuration.
func (s *ConfigService) Init(_ context.Context, force bool) (*domain.Config, error) {
	if s.store.Exists() && !force {
		return nil, fmt.Errorf("config %s: %w (use --force to overwrite)", s.store.Path(), domain.ErrAlreadyExists)
	}

	cfg := domain.DefaultConfig()
	if err := s.store.Save(cfg); err != nil {
		return nil, fmt.Errorf("save config: %w", err)
	}
	logger.Info("wrote default config to %s", s.store.Path())
	return cfg, nil
}

// Enable switches a connector on. The result must validate before it is saved.
func (s *ConfigService) Enable(ctx context.Context, name string) error {
	return s.toggle(ctx, name, true)
}

// Disable switches a connector off.
func (s *ConfigService) Disable(ctx context.Context, name string) error {
	return s.toggle(ctx, name, false)
}

func (s *ConfigService) toggle(_ context.Context, name string, enabled bool) error {
	if !domain.IsSupportedConnector(name) {
		return fmt.Errorf("connector %q: %w", name, domain.ErrUnsupportedType)
	}

	cfg, err := s.store.Load()
	if err != nil {
		return err
	}
	if err := cfg.SetEnabled(name, enabled); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.store.Save(cfg)
}

// AutoConfigure enables every connector whose credential is available:
// google_drive when its credentials file exists, slack and github when their
// token variables are set. Connectors without credentials are left as they are.
// It returns every connector enabled in the saved file, including those that
// were already enabled.
func (s *ConfigService) AutoConfigure(_ context.Context) ([]string, error) {
	cfg, err := s.store.Load()
	if errors.Is(err, domain.ErrNotFound) {
		cfg = domain.DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	for _, name := range domain.ConnectorNames {
		// Creates a default entry when the connector is missing.
		if err := cfg.SetEnabled(name, cfg.IsEnabled(name)); err != nil {
			return nil, err
		}

		tp, err := s.providers.CreateTokenProvider(cfg, name)
		if err != nil {
			return nil, fmt.Errorf("connector %q: %w", name, err)
		}
		if !tp.IsAuthenticated() {
			logger.Debug("%s: no credentials at %s", name, tp.Source())
			continue
		}
		if err := cfg.SetEnabled(name, true); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Save(cfg); err != nil {
		return nil, fmt.Errorf("save config: %w", err)
	}
	return cfg.EnabledConnectors(), nil
}
