package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// mockConfigStore keeps the configuration in memory.
type mockConfigStore struct {
	cfg     *domain.Config
	loadErr error
	saved   int
}

func (m *mockConfigStore) Load() (*domain.Config, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.cfg == nil {
		return nil, fmt.Errorf("config file memory.json: %w", domain.ErrNotFound)
	}
	// Deep copy so callers cannot mutate the stored document without Save.
	data, err := json.Marshal(m.cfg)
	if err != nil {
		return nil, err
	}
	var cfg domain.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (m *mockConfigStore) Save(cfg *domain.Config) error {
	m.cfg = cfg
	m.saved++
	return nil
}

func (m *mockConfigStore) Exists() bool { return m.cfg != nil }
func (m *mockConfigStore) Path() string { return "memory.json" }

// mockConnector records calls and returns canned results.
type mockConnector struct {
	mu         sync.Mutex
	name       string
	account    *domain.Account
	authErr    error
	docs       []domain.RawDocument
	fetchErr   error
	fetchCalls int
	closed     bool
}

func (m *mockConnector) Type() string { return m.name }

func (m *mockConnector) Authenticate(_ context.Context) (*domain.Account, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.account, nil
}

func (m *mockConnector) Fetch(_ context.Context) ([]domain.RawDocument, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()
	return m.docs, m.fetchErr
}

func (m *mockConnector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// mockFactory hands out prepared connectors and applies the enabled check.
type mockFactory struct {
	mu         sync.Mutex
	connectors map[string]*mockConnector
	created    []string
}

func (f *mockFactory) Create(_ context.Context, cfg *domain.Config, name string) (driven.Connector, error) {
	c, ok := f.connectors[name]
	if !ok {
		return nil, fmt.Errorf("connector %q: %w", name, domain.ErrUnsupportedType)
	}
	if !cfg.IsEnabled(name) {
		return nil, fmt.Errorf("connector %q: %w", name, domain.ErrConnectorDisabled)
	}
	f.mu.Lock()
	f.created = append(f.created, name)
	f.mu.Unlock()
	return c, nil
}

func (f *mockFactory) Register(string, driven.ConnectorBuilder) {}

func (f *mockFactory) SupportedTypes() []string { return domain.ConnectorNames }

// mockTokenProvider is a fixed credential.
type mockTokenProvider struct {
	source string
	token  string
}

func (p *mockTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", domain.ErrAuthRequired
	}
	return p.token, nil
}

func (p *mockTokenProvider) Source() string                { return p.source }
func (p *mockTokenProvider) AuthMethod() domain.AuthMethod { return domain.AuthMethodPAT }
func (p *mockTokenProvider) IsAuthenticated() bool         { return p.token != "" }

// mockProviders maps connector names to token providers.
type mockProviders map[string]*mockTokenProvider

func (m mockProviders) CreateTokenProvider(cfg *domain.Config, name string) (driven.TokenProvider, error) {
	if !domain.IsSupportedConnector(name) {
		return nil, domain.ErrUnsupportedType
	}
	p, ok := m[name]
	if !ok {
		return &mockTokenProvider{source: "env:" + name}, nil
	}
	return p, nil
}

// mockTokenStore is an in-memory token store.
type mockTokenStore struct {
	path    string
	token   *domain.OAuthToken
	deleted bool
}

func (s *mockTokenStore) Load() (*domain.OAuthToken, error) {
	if s.token == nil {
		return nil, domain.ErrNotFound
	}
	return s.token, nil
}

func (s *mockTokenStore) Save(token *domain.OAuthToken) error {
	s.token = token
	return nil
}

func (s *mockTokenStore) Delete() error {
	s.token = nil
	s.deleted = true
	return nil
}

func (s *mockTokenStore) Path() string { return s.path }

// recordingMetrics collects every measurement.
type recordingMetrics struct {
	mu        sync.Mutex
	auth      map[string]string
	documents map[string]int
	durations map[string]time.Duration
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		auth:      make(map[string]string),
		documents: make(map[string]int),
		durations: make(map[string]time.Duration),
	}
}

func (r *recordingMetrics) AuthAttempt(connector, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auth[connector] = outcome
}

func (r *recordingMetrics) DocumentsFetched(connector string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents[connector] += count
}

func (r *recordingMetrics) FetchDuration(connector string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations[connector] = d
}

// mapEnv is a fixed environment.
type mapEnv map[string]string

func (m mapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
