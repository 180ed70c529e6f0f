package main

import (
	"os"

	"github.com/custodia-labs/memorybox-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/memorybox-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/memorybox-cli/internal/adapters/driven/metrics"
	"github.com/custodia-labs/memorybox-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/memorybox-cli/internal/adapters/driving/oauth"
	"github.com/custodia-labs/memorybox-cli/internal/connectors"
	"github.com/custodia-labs/memorybox-cli/internal/connectors/github"
	"github.com/custodia-labs/memorybox-cli/internal/connectors/google/drive"
	"github.com/custodia-labs/memorybox-cli/internal/connectors/slack"
	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memorybox-cli/internal/core/services"
	drivenorm "github.com/custodia-labs/memorybox-cli/internal/normalisers/drive"
	githubnorm "github.com/custodia-labs/memorybox-cli/internal/normalisers/github"
	slacknorm "github.com/custodia-labs/memorybox-cli/internal/normalisers/slack"
)

// overrides carries extra connector options, used to point connectors at
// fake APIs.
type overrides struct {
	slack  []slack.Option
	github []github.Option
	drive  []drive.Option
}

func openTokenStore(path string) driven.TokenStore {
	return file.NewTokenStore(path)
}

// newServices wires the adapters for one command invocation.
func newServices(s cli.Settings, env driven.Environment, o overrides) (*cli.Services, error) {
	store := file.NewConfigStore(s.ConfigPath)
	providers := auth.NewFactory(env)

	driveOpts := append([]drive.Option{drive.WithAuthorizer(oauth.NewBrowserAuthorizer(os.Stderr))}, o.drive...)

	factory := connectors.NewFactory(providers)
	factory.Register(domain.ConnectorSlack, connectors.SlackBuilder(o.slack...))
	factory.Register(domain.ConnectorGitHub, connectors.GitHubBuilder(o.github...))
	factory.Register(domain.ConnectorGoogleDrive, connectors.DriveBuilder(openTokenStore, driveOpts...))

	registry := services.NewNormaliserRegistry(
		slacknorm.New(),
		githubnorm.NewRepository(),
		githubnorm.NewReadme(),
		githubnorm.NewIssue(),
		githubnorm.NewPull(),
		drivenorm.New(),
	)

	opts := []services.ConnectorServiceOption{
		services.WithTokenStores(openTokenStore),
		services.WithEnvironment(providers),
	}

	svc := &cli.Services{Config: services.NewConfigService(store, providers)}
	if s.MetricsFile != "" {
		recorder, err := metrics.NewRecorder()
		if err != nil {
			return nil, err
		}
		opts = append(opts, services.WithMetrics(recorder))
		svc.Metrics = recorder
	}
	svc.Connectors = services.NewConnectorService(store, factory, providers, registry, opts...)
	return svc, nil
}
