package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Option configures a Connector.
type Option func(*Connector)

// WithBaseURL points the connector at another API root, such as a
// GitHub Enterprise server or a test double.
func WithBaseURL(baseURL string) Option {
	return func(c *Connector) { c.baseURL = baseURL }
}

// WithHTTPClient sets the HTTP client used underneath the token transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) { c.httpClient = client }
}

// WithRateLimiter replaces the default request pacing.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(c *Connector) { c.limiter = limiter }
}

// Connector fetches documents from GitHub repositories.
type Connector struct {
	config        *Config
	tokenProvider driven.TokenProvider

	baseURL    string
	httpClient *http.Client
	limiter    *RateLimiter

	mu      sync.Mutex
	client  *Client
	account *domain.Account
	closed  bool
}

// New creates a new GitHub connector. No request is made until Authenticate.
func New(cfg *Config, tokenProvider driven.TokenProvider, opts ...Option) *Connector {
	c := &Connector{config: cfg, tokenProvider: tokenProvider}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return domain.ConnectorGitHub
}

// Authenticate resolves the token and verifies it with GET /user.
func (c *Connector) Authenticate(ctx context.Context) (*domain.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if c.tokenProvider == nil {
		return nil, domain.NewAuthError(domain.ConnectorGitHub, domain.ErrAuthRequired, nil)
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, domain.NewAuthError(domain.ConnectorGitHub, domain.ErrAuthRequired, err)
	}
	if strings.ContainsAny(token, " \t\r\n") {
		return nil, domain.NewAuthError(domain.ConnectorGitHub, domain.ErrAuthInvalid,
			errors.New("token contains whitespace"))
	}

	client, err := NewClient(ctx, token, c.httpClient, c.baseURL, c.limiter)
	if err != nil {
		return nil, err
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		if IsUnauthorized(err) || IsForbidden(err) {
			return nil, domain.NewAuthError(domain.ConnectorGitHub, domain.ErrAuthInvalid, err)
		}
		return nil, fmt.Errorf("github: authenticate: %w", err)
	}

	c.client = client
	c.account = &domain.Account{Identifier: user.GetLogin(), DisplayName: user.GetName()}
	logger.Info("github: authenticated as %s", user.GetLogin())
	return c.account, nil
}

// Fetch reads every configured repository. A repository that cannot be
// read is logged and skipped; the others are still returned. Hitting a
// rate limit stops the fetch and returns what was read so far with an
// error wrapping domain.ErrRateLimited.
func (c *Connector) Fetch(ctx context.Context) ([]domain.RawDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if c.client == nil {
		return nil, domain.ErrNotAuthenticated
	}

	if len(c.config.Repositories) == 0 {
		logger.Warn("github: no repositories configured")
		return nil, nil
	}

	var docs []domain.RawDocument
	for _, r := range c.config.Repositories {
		if err := ctx.Err(); err != nil {
			return docs, err
		}

		repoDocs, err := c.fetchRepository(ctx, r)
		if err != nil {
			if ctx.Err() != nil {
				return docs, ctx.Err()
			}
			if IsRateLimited(err) {
				l := c.client.RateLimiter()
				logger.Warn("github: rate limited with %d of %d requests left, quota resets at %s",
					l.Remaining(), l.Limit(), l.ResetTime().Format(time.RFC3339))
				return append(docs, repoDocs...), fmt.Errorf("github: %s: %w", r.FullName(), err)
			}
			logger.Warn("github: skipping %s: %v", r.FullName(), err)
			continue
		}
		logger.L().Debug("github repository fetched",
			zap.String("repository", r.FullName()), zap.Int("documents", len(repoDocs)))
		docs = append(docs, repoDocs...)
	}
	return docs, nil
}

func (c *Connector) fetchRepository(ctx context.Context, r Repo) ([]domain.RawDocument, error) {
	repo, err := c.client.GetRepository(ctx, r.Owner, r.Name)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ErrRepoNotFound, err)
		}
		return nil, err
	}

	var docs []domain.RawDocument
	if c.config.IncludeRepository {
		doc, err := BuildRepositoryDocument(repo)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if c.config.IncludeReadme {
		doc, err := FetchReadme(ctx, c.client, repo)
		switch {
		case err == nil:
			docs = append(docs, doc)
		case errors.Is(err, ErrNoReadme):
			logger.Debug("github: %s has no README", r.FullName())
		case IsRateLimited(err):
			return docs, err
		default:
			logger.Warn("github: readme of %s: %v", r.FullName(), err)
		}
	}

	issues, err := FetchIssues(ctx, c.client, repo, c.config)
	if IsRateLimited(err) {
		return docs, err
	}
	if err != nil {
		logger.Warn("github: issues of %s: %v", r.FullName(), err)
	}
	return append(docs, issues...), nil
}

// Account returns the authenticated account, or nil before Authenticate.
func (c *Connector) Account() *domain.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.account
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.client = nil
	return nil
}
