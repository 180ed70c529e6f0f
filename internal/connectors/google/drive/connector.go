package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/memorybox-cli/internal/connectors/google"
	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Option configures a Connector.
type Option func(*Connector)

// WithAuthorizer sets the interactive authorisation flow.
// Without one, a connector lacking a usable stored token cannot authenticate.
func WithAuthorizer(a Authorizer) Option {
	return func(c *Connector) { c.authorizer = a }
}

// WithServiceOptions adds options used when building the Drive service.
func WithServiceOptions(opts ...option.ClientOption) Option {
	return func(c *Connector) { c.serviceOpts = append(c.serviceOpts, opts...) }
}

// WithHTTPClient sets the HTTP client used for token endpoint requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) { c.httpClient = client }
}

// WithRateLimiter replaces the default request pacing.
func WithRateLimiter(limiter *google.RateLimiter) Option {
	return func(c *Connector) { c.limiter = limiter }
}

// Connector fetches files from Google Drive.
type Connector struct {
	config        *Config
	tokenProvider driven.TokenProvider
	tokens        driven.TokenStore

	authorizer  Authorizer
	serviceOpts []option.ClientOption
	httpClient  *http.Client
	limiter     *google.RateLimiter

	mu      sync.Mutex
	service *drive.Service
	account *domain.Account
	closed  bool
}

// New creates a new Google Drive connector. tokenProvider locates the client
// secrets file and tokens persists the user token. No request is made until
// Authenticate.
func New(cfg *Config, tokenProvider driven.TokenProvider, tokens driven.TokenStore, opts ...Option) *Connector {
	c := &Connector{
		config:        cfg,
		tokenProvider: tokenProvider,
		tokens:        tokens,
		limiter:       google.NewRateLimiter(google.ServiceDrive),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return domain.ConnectorGoogleDrive
}

// Authenticate loads the client secrets, obtains a user token and verifies it
// by reading the account's profile.
func (c *Connector) Authenticate(ctx context.Context) (*domain.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if c.tokenProvider == nil || c.tokens == nil {
		return nil, domain.NewAuthError(domain.ConnectorGoogleDrive, domain.ErrAuthRequired, nil)
	}

	path, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		reason := domain.ErrAuthRequired
		if errors.Is(err, domain.ErrAuthInvalid) {
			reason = domain.ErrAuthInvalid
		}
		return nil, domain.NewAuthError(domain.ConnectorGoogleDrive, reason, err)
	}

	oauthCfg, err := loadClientConfig(path, c.config.Scopes)
	if err != nil {
		return nil, err
	}

	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	tok, err := c.resolveToken(ctx, oauthCfg)
	if err != nil {
		return nil, err
	}

	// The token source outlives this call, so it must not inherit its cancellation.
	tsCtx := context.WithoutCancel(ctx)
	ts := google.NewPersistingTokenSource(oauthCfg.TokenSource(tsCtx, tok), c.tokens, tok)
	svc, err := google.NewDriveService(tsCtx, ts, c.serviceOpts...)
	if err != nil {
		return nil, fmt.Errorf("google_drive: create service: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	about, err := svc.About.Get().Fields("user").Context(ctx).Do()
	if err != nil {
		if google.IsUnauthorized(err) {
			return nil, domain.NewAuthError(domain.ConnectorGoogleDrive, domain.ErrAuthInvalid, err)
		}
		return nil, fmt.Errorf("google_drive: authenticate: %w", google.WrapError(err))
	}

	c.service = svc
	c.account = &domain.Account{}
	if about.User != nil {
		c.account.Identifier = about.User.EmailAddress
		c.account.DisplayName = about.User.DisplayName
	}
	logger.Info("google_drive: successfully authenticated as %s", c.account.Identifier)
	return c.account, nil
}

// Fetch lists files matching the configuration and extracts their text.
// A file whose content cannot be read keeps a placeholder instead.
func (c *Connector) Fetch(ctx context.Context) ([]domain.RawDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if c.service == nil {
		return nil, domain.ErrNotAuthenticated
	}

	folderID := ""
	if c.config.FolderName != "" {
		id, err := c.findFolder(ctx, c.config.FolderName)
		if err != nil {
			return nil, err
		}
		folderID = id
	}

	files, err := c.listFiles(ctx, BuildQuery(folderID, c.config.MimeTypeFilter))
	if err != nil {
		return nil, err
	}

	docs := make([]domain.RawDocument, 0, len(files))
	for _, file := range files {
		extracted, err := c.fileContent(ctx, file)
		if err != nil {
			if ctx.Err() != nil {
				return docs, ctx.Err()
			}
			logger.Warn("google_drive: content of %s (%s): %v", file.Name, file.Id, err)
			extracted = fileText{text: errorPlaceholder(err)}
		}
		if extracted.truncated {
			logger.Warn("google_drive: content of %s (%s) cut at %d bytes", file.Name, file.Id, MaxExportSize)
		}

		doc, err := buildFileDocument(file, extracted)
		if err != nil {
			logger.Warn("google_drive: skipping %s: %v", file.Id, err)
			continue
		}
		docs = append(docs, doc)
	}

	logger.L().Debug("google drive files fetched",
		zap.String("folder", c.config.FolderName), zap.Int("documents", len(docs)))
	return docs, nil
}

// findFolder returns the ID of the first folder called name.
func (c *Connector) findFolder(ctx context.Context, name string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	resp, err := c.service.Files.List().
		Q(folderQuery(name)).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("google_drive: locate folder %q: %w", name, c.recordError(err))
	}
	if len(resp.Files) == 0 {
		return "", fmt.Errorf("google_drive: folder %q: %w", name, domain.ErrNotFound)
	}
	return resp.Files[0].Id, nil
}

// listFiles pages through files.list until MaxResults files are collected.
func (c *Connector) listFiles(ctx context.Context, query string) ([]*drive.File, error) {
	var files []*drive.File
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := c.service.Files.List().
			Q(query).
			Spaces("drive").
			Fields(listFields).
			PageSize(c.config.PageSize(c.config.MaxResults - len(files)))
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("google_drive: list files: %w", c.recordError(err))
		}
		files = append(files, resp.Files...)

		pageToken = resp.NextPageToken
		if pageToken == "" || len(files) >= c.config.MaxResults {
			break
		}
	}

	if len(files) > c.config.MaxResults {
		files = files[:c.config.MaxResults]
	}
	return files, nil
}

func (c *Connector) fileContent(ctx context.Context, file *drive.File) (fileText, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return fileText{}, err
	}
	extracted, err := fetchFileContent(ctx, c.service, file)
	if err != nil {
		return fileText{}, c.recordError(err)
	}
	return extracted, nil
}

// recordError pauses later requests after a 429 and classifies err.
func (c *Connector) recordError(err error) error {
	if google.IsRateLimited(err) {
		c.limiter.RecordRateLimitError(0)
	}
	return google.WrapError(err)
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
	c.service = nil
	return nil
}
