package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Option configures a Connector.
type Option func(*Connector)

// WithAPIURL points the connector at another Web API root.
func WithAPIURL(apiURL string) Option {
	return func(c *Connector) { c.apiURL = apiURL }
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) { c.httpClient = client }
}

// WithRateLimiter replaces the default request pacing.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Connector) { c.limiter = limiter }
}

// WithClock sets the clock used to compute the history window.
func WithClock(now func() time.Time) Option {
	return func(c *Connector) { c.now = now }
}

// Connector fetches messages from Slack channels.
type Connector struct {
	config        *Config
	tokenProvider driven.TokenProvider

	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time

	mu      sync.Mutex
	client  *Client
	account *domain.Account
	closed  bool
}

// New creates a new Slack connector. No request is made until Authenticate.
func New(cfg *Config, tokenProvider driven.TokenProvider, opts ...Option) *Connector {
	c := &Connector{config: cfg, tokenProvider: tokenProvider, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return domain.ConnectorSlack
}

// validateToken rejects tokens that cannot be Slack tokens.
func validateToken(token string) error {
	if strings.ContainsAny(token, " \t\r\n") {
		return errors.New("token contains whitespace")
	}
	if !strings.HasPrefix(token, "xox") || !strings.Contains(token, "-") {
		return errors.New("token is not a Slack token (expected xoxb-...)")
	}
	return nil
}

// Authenticate resolves the bot token and verifies it with auth.test.
func (c *Connector) Authenticate(ctx context.Context) (*domain.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if c.tokenProvider == nil {
		return nil, domain.NewAuthError(domain.ConnectorSlack, domain.ErrAuthRequired, nil)
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, domain.NewAuthError(domain.ConnectorSlack, domain.ErrAuthRequired, err)
	}
	if err := validateToken(token); err != nil {
		return nil, domain.NewAuthError(domain.ConnectorSlack, domain.ErrAuthInvalid, err)
	}

	client := NewClient(token, c.httpClient, c.apiURL, c.limiter)
	resp, err := client.AuthTest(ctx)
	if err != nil {
		if IsAuthError(err) {
			return nil, domain.NewAuthError(domain.ConnectorSlack, domain.ErrAuthInvalid, err)
		}
		return nil, fmt.Errorf("slack: authenticate: %w", wrapRateLimit(err))
	}

	c.client = client
	c.account = &domain.Account{
		Identifier:  resp.User + "@" + resp.Team,
		DisplayName: resp.User,
	}
	logger.Info("slack: connected as %s in workspace %s", resp.User, resp.Team)
	return c.account, nil
}

// Fetch reads recent messages of every configured channel, or of every
// visible channel when none are configured. A channel that cannot be read is
// logged and skipped. A rate limit response stops the fetch and returns the
// messages read so far with an error wrapping domain.ErrRateLimited.
func (c *Connector) Fetch(ctx context.Context) ([]domain.RawDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if c.client == nil {
		return nil, domain.ErrNotAuthenticated
	}

	channels := c.config.Channels
	if len(channels) == 0 {
		ids, err := c.client.ListChannelIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("slack: list channels: %w", wrapRateLimit(err))
		}
		channels = ids
	}

	f := &fetch{
		client: c.client,
		users:  make(map[string]string),
		oldest: c.now().AddDate(0, 0, -c.config.DaysHistory),
		limit:  c.config.Limit,
	}

	var docs []domain.RawDocument
	for _, channelID := range channels {
		if err := ctx.Err(); err != nil {
			return docs, err
		}

		channelDocs, err := f.channel(ctx, channelID)
		if err != nil {
			if ctx.Err() != nil {
				return docs, ctx.Err()
			}
			if IsRateLimited(err) {
				return docs, fmt.Errorf("slack: channel %s: %w", channelID, wrapRateLimit(err))
			}
			logger.Warn("slack: skipping channel %s: %v", channelID, err)
			continue
		}
		logger.L().Debug("slack channel fetched",
			zap.String("channel", channelID), zap.Int("documents", len(channelDocs)))
		docs = append(docs, channelDocs...)
	}
	return docs, nil
}

// fetch holds the per-Fetch state.
type fetch struct {
	client *Client
	users  map[string]string
	oldest time.Time
	limit  int
}

func (f *fetch) channel(ctx context.Context, channelID string) ([]domain.RawDocument, error) {
	name, err := f.client.ChannelName(ctx, channelID)
	if err != nil {
		return nil, err
	}

	history, err := f.client.History(ctx, channelID, f.oldest, f.limit)
	if err != nil {
		return nil, err
	}

	var docs []domain.RawDocument
	for _, msg := range history {
		if shouldSkip(msg) {
			continue
		}

		doc, err := buildMessageDocument(channelID, name, f.sender(ctx, msg.User), msg, "")
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)

		if isThreadParent(msg) {
			docs = append(docs, f.replies(ctx, channelID, name, msg.Timestamp)...)
		}
	}
	return docs, nil
}

// replies returns a thread's replies. Failures are logged and yield none.
func (f *fetch) replies(ctx context.Context, channelID, channelName, parentTS string) []domain.RawDocument {
	msgs, err := f.client.Replies(ctx, channelID, parentTS)
	if err != nil {
		logger.Warn("slack: thread %s in %s: %v", parentTS, channelID, err)
		return nil
	}

	var docs []domain.RawDocument
	for _, reply := range msgs {
		if reply.Timestamp == parentTS {
			continue
		}
		doc, err := buildMessageDocument(channelID, channelName, f.sender(ctx, reply.User), reply, parentTS)
		if err != nil {
			logger.Warn("slack: reply %s: %v", reply.Timestamp, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// sender resolves a user's real name, caching lookups for the fetch.
func (f *fetch) sender(ctx context.Context, userID string) string {
	if userID == "" {
		return UnknownSender
	}
	if name, ok := f.users[userID]; ok {
		return name
	}

	name, err := f.client.UserRealName(ctx, userID)
	if err != nil || name == "" {
		logger.Debug("slack: user %s: %v", userID, err)
		name = UnknownSender
	}
	f.users[userID] = name
	return name
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
