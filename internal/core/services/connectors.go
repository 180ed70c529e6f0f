package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

// Ensure ConnectorService implements the interface.
var _ driving.ConnectorService = (*ConnectorService)(nil)

// DefaultFetchConcurrency bounds how many connectors fetch at once.
const DefaultFetchConcurrency = 3

// Authentication outcomes reported to the MetricsRecorder.
const (
	OutcomeSuccess  = "success"
	OutcomeRequired = "required"
	OutcomeInvalid  = "invalid"
	OutcomeLimited  = "rate_limited"
	OutcomeError    = "error"
)

// ConnectorServiceOption configures a ConnectorService.
type ConnectorServiceOption func(*ConnectorService)

// WithMetrics sets the recorder for authentication and fetch measurements.
func WithMetrics(m driven.MetricsRecorder) ConnectorServiceOption {
	return func(s *ConnectorService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTokenStores sets how persisted OAuth tokens are opened.
// Without it Status cannot report saved tokens and ResetToken fails.
func WithTokenStores(open func(path string) driven.TokenStore) ConnectorServiceOption {
	return func(s *ConnectorService) {
		s.tokenStores = open
	}
}

// WithEnvironment sets the environment used for the embedding key check.
func WithEnvironment(env driven.Environment) ConnectorServiceOption {
	return func(s *ConnectorService) {
		s.env = env
	}
}

// WithFetchConcurrency sets how many connectors may fetch at once.
func WithFetchConcurrency(n int) ConnectorServiceOption {
	return func(s *ConnectorService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithServiceClock overrides the time source used for run timestamps.
func WithServiceClock(now func() time.Time) ConnectorServiceOption {
	return func(s *ConnectorService) {
		s.now = now
	}
}

// ConnectorService authenticates connectors and runs the fetch pipeline.
// The configuration is loaded and validated on every call before any
// connector is constructed.
type ConnectorService struct {
	store       driven.ConfigStore
	factory     driven.ConnectorFactory
	providers   driven.TokenProviderFactory
	registry    driven.NormaliserRegistry
	metrics     driven.MetricsRecorder
	tokenStores func(path string) driven.TokenStore
	env         driven.Environment
	concurrency int
	now         func() time.Time
}

// NewConnectorService creates a new connector service.
func NewConnectorService(
	store driven.ConfigStore,
	factory driven.ConnectorFactory,
	providers driven.TokenProviderFactory,
	registry driven.NormaliserRegistry,
	opts ...ConnectorServiceOption,
) *ConnectorService {
	s := &ConnectorService{
		store:       store,
		factory:     factory,
		providers:   providers,
		registry:    registry,
		metrics:     NopMetrics{},
		concurrency: DefaultFetchConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate authenticates the named connectors one at a time.
// Interactive flows such as the Drive browser consent cannot overlap.
func (s *ConnectorService) Authenticate(ctx context.Context, names ...string) ([]driving.AuthResult, error) {
	cfg, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	names, err = selectConnectors(cfg, names)
	if err != nil {
		return nil, err
	}

	results := make([]driving.AuthResult, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.authenticateOne(ctx, cfg, name))
	}
	return results, nil
}

func (s *ConnectorService) authenticateOne(ctx context.Context, cfg *domain.Config, name string) driving.AuthResult {
	result := driving.AuthResult{Connector: name}

	connector, err := s.factory.Create(ctx, cfg, name)
	if err != nil {
		result.Err = err
		s.metrics.AuthAttempt(name, AuthOutcome(err))
		return result
	}
	defer closeConnector(connector)

	account, err := connector.Authenticate(ctx)
	s.metrics.AuthAttempt(name, AuthOutcome(err))
	if err != nil {
		logger.Warn("%s: authentication failed: %v", name, err)
		result.Err = err
		return result
	}

	logger.Info("%s: authenticated as %s", name, account.Identifier)
	result.Authenticated = true
	result.Account = account
	return result
}

// Fetch authenticates, fetches and normalises every selected connector.
// Connectors run concurrently; results and documents keep configuration order.
func (s *ConnectorService) Fetch(ctx context.Context, req driving.FetchRequest) (*driving.FetchReport, error) {
	cfg, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	names, err := selectConnectors(cfg, req.Connectors)
	if err != nil {
		return nil, err
	}

	report := &driving.FetchReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Results:   make([]driving.FetchResult, len(names)),
	}
	logger.Section("Fetch " + report.RunID)

	docs := make([][]domain.Document, len(names))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, name := range names {
		g.Go(func() error {
			report.Results[i], docs[i] = s.fetchOne(ctx, cfg, name)
			return nil
		})
	}
	_ = g.Wait()

	for _, d := range docs {
		report.Documents = append(report.Documents, d...)
	}
	return report, nil
}

func (s *ConnectorService) fetchOne(ctx context.Context, cfg *domain.Config, name string) (driving.FetchResult, []domain.Document) {
	result := driving.FetchResult{Connector: name}

	connector, err := s.factory.Create(ctx, cfg, name)
	if err != nil {
		result.Err = err
		s.metrics.AuthAttempt(name, AuthOutcome(err))
		return result, nil
	}
	defer closeConnector(connector)

	_, err = connector.Authenticate(ctx)
	s.metrics.AuthAttempt(name, AuthOutcome(err))
	if err != nil {
		logger.Warn("%s: authentication failed: %v", name, err)
		result.Err = err
		return result, nil
	}
	result.Authenticated = true

	start := s.now()
	raws, err := connector.Fetch(ctx)
	result.Duration = s.now().Sub(start)
	s.metrics.FetchDuration(name, result.Duration)
	if err != nil {
		logger.Warn("%s: fetch failed: %v", name, err)
		result.Err = fmt.Errorf("fetch %s: %w", name, err)
		if !errors.Is(err, domain.ErrRateLimited) {
			return result, nil
		}
		result.RateLimited = true
	}

	docs := make([]domain.Document, 0, len(raws))
	for i := range raws {
		normalised, err := s.registry.Normalise(ctx, &raws[i])
		if err != nil {
			logger.Warn("%s: skipping %s: %v", name, raws[i].URI, err)
			result.Skipped++
			continue
		}
		docs = append(docs, normalised.Document)
	}

	result.Documents = len(docs)
	s.metrics.DocumentsFetched(name, len(docs))
	logger.Info("%s: %d documents (%d skipped) in %s", name, len(docs), result.Skipped, result.Duration.Round(time.Millisecond))
	return result, docs
}

// Status reports each connector's offline state. It performs no network I/O.
func (s *ConnectorService) Status(_ context.Context) (*driving.StatusReport, error) {
	cfg, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	report := &driving.StatusReport{ConfigPath: s.store.Path()}
	for _, name := range domain.ConnectorNames {
		report.Connectors = append(report.Connectors, s.connectorStatus(cfg, name))
	}

	if e := cfg.Embedding; e != nil && e.APIKeyEnv != "" {
		report.EmbeddingKeyEnv = e.APIKeyEnv
		if s.env != nil {
			v, ok := s.env.LookupEnv(e.APIKeyEnv)
			report.EmbeddingKeyPresent = ok && v != ""
		}
	}
	return report, nil
}

func (s *ConnectorService) connectorStatus(cfg *domain.Config, name string) domain.ConnectorStatus {
	status := domain.ConnectorStatus{Name: name, Enabled: cfg.IsEnabled(name)}

	tp, err := s.providers.CreateTokenProvider(cfg, name)
	if err != nil {
		status.Detail = "not configured"
		return status
	}
	status.CredentialSource = tp.Source()
	status.CredentialsPresent = tp.IsAuthenticated()

	if name == domain.ConnectorGoogleDrive && s.tokenStores != nil {
		store := s.tokenStores(cfg.Connectors.GoogleDrive.TokenFile)
		tok, err := store.Load()
		switch {
		case err == nil && tok.IsExpired() && tok.CanRefresh():
			status.Detail = "token in " + store.Path() + " expired; it is refreshed on next use"
		case err == nil && tok.IsExpired():
			status.Detail = "token in " + store.Path() + " expired; authorisation opens a browser"
		case err == nil:
			status.Detail = "token saved in " + store.Path()
		default:
			status.Detail = "no saved token; authorisation opens a browser"
		}
	}
	return status
}

// ResetToken deletes the persisted OAuth token of an OAuth connector.
func (s *ConnectorService) ResetToken(_ context.Context, name string) error {
	if !domain.IsSupportedConnector(name) {
		return fmt.Errorf("connector %q: %w", name, domain.ErrUnsupportedType)
	}
	if name != domain.ConnectorGoogleDrive {
		return fmt.Errorf("connector %q keeps no persisted token: %w", name, domain.ErrInvalidInput)
	}
	if s.tokenStores == nil {
		return errors.New("token store not configured")
	}

	cfg, err := s.store.Load()
	if err != nil {
		return err
	}
	if cfg.Connectors.GoogleDrive == nil {
		return fmt.Errorf("connector %q: %w", name, domain.ErrNotFound)
	}

	store := s.tokenStores(cfg.Connectors.GoogleDrive.TokenFile)
	if err := store.Delete(); err != nil {
		return fmt.Errorf("delete token %s: %w", store.Path(), err)
	}
	logger.Info("%s: removed token %s", name, store.Path())
	return nil
}

// selectConnectors resolves the requested names, defaulting to every enabled
// connector. Unknown names are rejected; disabled ones are kept so the
// factory reports them.
func selectConnectors(cfg *domain.Config, names []string) ([]string, error) {
	if len(names) == 0 {
		return cfg.EnabledConnectors(), nil
	}

	selected := make([]string, 0, len(names))
	for _, name := range names {
		if !domain.IsSupportedConnector(name) {
			return nil, fmt.Errorf("connector %q: %w", name, domain.ErrUnsupportedType)
		}
		if !slices.Contains(selected, name) {
			selected = append(selected, name)
		}
	}
	return selected, nil
}

// AuthOutcome classifies an Authenticate error for metrics.
func AuthOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrAuthRequired):
		return OutcomeRequired
	case errors.Is(err, domain.ErrAuthInvalid), errors.Is(err, domain.ErrTokenRefreshFailed):
		return OutcomeInvalid
	case errors.Is(err, domain.ErrRateLimited):
		return OutcomeLimited
	default:
		return OutcomeError
	}
}

func closeConnector(c driven.Connector) {
	if err := c.Close(); err != nil {
		logger.Debug("%s: close: %v", c.Type(), err)
	}
}

// NopMetrics discards every measurement.
type NopMetrics struct{}

// AuthAttempt does nothing.
func (NopMetrics) AuthAttempt(string, string) {}

// DocumentsFetched does nothing.
func (NopMetrics) DocumentsFetched(string, int) {}

// FetchDuration does nothing.
func (NopMetrics) FetchDuration(string, time.Duration) {}
