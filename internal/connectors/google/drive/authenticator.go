package drive

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/custodia-labs/memorybox-cli/internal/connectors/google"
	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

// Authorizer obtains a new user token interactively.
type Authorizer interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// loadClientConfig reads a client secrets file downloaded from Google Cloud.
func loadClientConfig(path string, scopes []string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewAuthError(domain.ConnectorGoogleDrive, domain.ErrAuthRequired,
				fmt.Errorf("credentials file %s not found", path))
		}
		return nil, domain.NewAuthError(domain.ConnectorGoogleDrive, domain.ErrAuthInvalid, err)
	}

	cfg, err := googleoauth.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, domain.NewAuthError(domain.ConnectorGoogleDrive, domain.ErrAuthInvalid,
			fmt.Errorf("credentials file %s: %w", path, err))
	}
	return cfg, nil
}

// resolveToken returns a usable token: the stored one, a refreshed one or a
// newly authorised one. Refreshed and new tokens are persisted.
func (c *Connector) resolveToken(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	stored, err := c.tokens.Load()
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		stored = nil
	default:
		logger.Warn("google_drive: ignoring unreadable token file %s: %v", c.tokens.Path(), err)
		stored = nil
	}

	if stored != nil {
		tok := google.ToOAuth2Token(stored)
		if tok.Valid() {
			logger.Debug("google_drive: using stored token from %s", c.tokens.Path())
			return tok, nil
		}
		if stored.CanRefresh() {
			logger.Info("google_drive: refreshing expired credentials")
			fresh, err := cfg.TokenSource(ctx, tok).Token()
			if err != nil {
				return nil, &domain.RefreshError{
					Connector: domain.ConnectorGoogleDrive,
					TokenFile: c.tokens.Path(),
					Err:       err,
				}
			}
			c.persist(fresh)
			return fresh, nil
		}
	}

	if c.authorizer == nil {
		return nil, domain.NewAuthError(domain.ConnectorGoogleDrive, domain.ErrAuthRequired,
			errors.New("no stored token and no interactive authorisation available"))
	}

	logger.Info("google_drive: starting new authentication flow")
	tok, err := c.authorizer.Authorize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("google_drive: authorise: %w", err)
	}
	c.persist(tok)
	return tok, nil
}

// persist saves tok; a failure only costs a new authorisation next time.
func (c *Connector) persist(tok *oauth2.Token) {
	if err := c.tokens.Save(google.FromOAuth2Token(tok)); err != nil {
		logger.Warn("google_drive: could not save token to %s: %v", c.tokens.Path(), err)
		return
	}
	logger.Info("google_drive: saved credentials to %s", c.tokens.Path())
}
