package connectors

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/memorybox-cli/internal/connectors/github"
	"github.com/custodia-labs/memorybox-cli/internal/connectors/google/drive"
	"github.com/custodia-labs/memorybox-cli/internal/connectors/slack"
	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ConnectorFactory = (*Factory)(nil)

// Factory builds connectors from the shared configuration.
type Factory struct {
	mu        sync.RWMutex
	builders  map[string]driven.ConnectorBuilder
	providers driven.TokenProviderFactory
}

// NewFactory creates an empty factory. Register a builder per connector type.
func NewFactory(providers driven.TokenProviderFactory) *Factory {
	return &Factory{
		builders:  make(map[string]driven.ConnectorBuilder),
		providers: providers,
	}
}

// Register adds a connector builder for the given type.
func (f *Factory) Register(connectorType string, builder driven.ConnectorBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[connectorType] = builder
}

// SupportedTypes returns the registered connector types in configuration order.
func (f *Factory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.builders))
	for _, name := range domain.ConnectorNames {
		if _, ok := f.builders[name]; ok {
			types = append(types, name)
		}
	}
	return types
}

// Create builds the named connector. Unknown and disabled connectors are
// rejected before anything is constructed.
func (f *Factory) Create(_ context.Context, cfg *domain.Config, name string) (driven.Connector, error) {
	f.mu.RLock()
	builder, ok := f.builders[name]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("connector %q: %w", name, domain.ErrUnsupportedType)
	}
	if !cfg.IsEnabled(name) {
		return nil, fmt.Errorf("connector %q: %w", name, domain.ErrConnectorDisabled)
	}

	tp, err := f.providers.CreateTokenProvider(cfg, name)
	if err != nil {
		return nil, fmt.Errorf("connector %q: token provider: %w", name, err)
	}
	return builder(cfg, tp)
}

// SlackBuilder returns a builder for the Slack connector.
func SlackBuilder(opts ...slack.Option) driven.ConnectorBuilder {
	return func(cfg *domain.Config, tp driven.TokenProvider) (driven.Connector, error) {
		parsed, err := slack.ParseConfig(cfg.Connectors.Slack)
		if err != nil {
			return nil, err
		}
		return slack.New(parsed, tp, opts...), nil
	}
}

// GitHubBuilder returns a builder for the GitHub connector.
func GitHubBuilder(opts ...github.Option) driven.ConnectorBuilder {
	return func(cfg *domain.Config, tp driven.TokenProvider) (driven.Connector, error) {
		parsed, err := github.ParseConfig(cfg.Connectors.GitHub)
		if err != nil {
			return nil, err
		}
		return github.New(parsed, tp, opts...), nil
	}
}

// DriveBuilder returns a builder for the Google Drive connector.
// tokenStore opens the store for the configured token file.
func DriveBuilder(tokenStore func(path string) driven.TokenStore, opts ...drive.Option) driven.ConnectorBuilder {
	return func(cfg *domain.Config, tp driven.TokenProvider) (driven.Connector, error) {
		parsed, err := drive.ParseConfig(cfg.Connectors.GoogleDrive)
		if err != nil {
			return nil, err
		}
		return drive.New(parsed, tp, tokenStore(cfg.Connectors.GoogleDrive.TokenFile), opts...), nil
	}
}
