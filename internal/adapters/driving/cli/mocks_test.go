package cli

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driving"
)

// mockConnectorService returns canned reports.
type mockConnectorService struct {
	authResults []driving.AuthResult
	authNames   []string
	fetchReport *driving.FetchReport
	fetchReq    driving.FetchRequest
	status      *driving.StatusReport
	resetName   string
	err         error
}

func (m *mockConnectorService) Authenticate(_ context.Context, names ...string) ([]driving.AuthResult, error) {
	m.authNames = names
	return m.authResults, m.err
}

func (m *mockConnectorService) Fetch(_ context.Context, req driving.FetchRequest) (*driving.FetchReport, error) {
	m.fetchReq = req
	return m.fetchReport, m.err
}

func (m *mockConnectorService) Status(_ context.Context) (*driving.StatusReport, error) {
	return m.status, m.err
}

func (m *mockConnectorService) ResetToken(_ context.Context, name string) error {
	m.resetName = name
	return m.err
}

// mockConfigService records the last call.
type mockConfigService struct {
	cfg      *domain.Config
	force    bool
	enabled  []string
	disabled []string
	auto     []string
	err      error
}

func (m *mockConfigService) Show(_ context.Context) (*domain.Config, error) {
	return m.cfg, m.err
}

func (m *mockConfigService) Init(_ context.Context, force bool) (*domain.Config, error) {
	m.force = force
	return domain.DefaultConfig(), m.err
}

func (m *mockConfigService) Enable(_ context.Context, name string) error {
	m.enabled = append(m.enabled, name)
	return m.err
}

func (m *mockConfigService) Disable(_ context.Context, name string) error {
	m.disabled = append(m.disabled, name)
	return m.err
}

func (m *mockConfigService) AutoConfigure(_ context.Context) ([]string, error) {
	return m.auto, m.err
}

// mockMetrics records where metrics were written.
type mockMetrics struct {
	path string
}

func (m *mockMetrics) WriteTextfile(path string) error {
	m.path = path
	return nil
}

func sampleFetchReport() *driving.FetchReport {
	return &driving.FetchReport{
		RunID:     "run-1",
		StartedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Documents: []domain.Document{
			{ID: "slack_1700000000_000100", Source: "slack", Kind: "message", Content: "Sender: Alice in general\nMessage: hi"},
		},
		Results: []driving.FetchResult{
			{Connector: "slack", Authenticated: true, Documents: 1, Skipped: 2},
			{Connector: "github", Err: domain.NewAuthError("github", domain.ErrAuthRequired, errors.New("GITHUB_ACCESS_TOKEN is not set"))},
		},
	}
}

// setupTestServices installs mocks and returns a restore function.
func setupTestServices() (*mockConnectorService, *mockConfigService, func()) {
	oldConnectors, oldConfig, oldMetrics, oldBuild := connectorService, configService, metricsWriter, buildServices

	cs := &mockConnectorService{}
	cfg := &mockConfigService{}
	connectorService = cs
	configService = cfg
	metricsWriter = nil
	buildServices = nil

	return cs, cfg, func() {
		connectorService, configService, metricsWriter, buildServices = oldConnectors, oldConfig, oldMetrics, oldBuild
		rootCmd.SetArgs(nil)
	}
}
