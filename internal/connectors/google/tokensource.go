package google

import (
	"sync"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

// PersistingTokenSource writes every newly issued token to a TokenStore.
// Wrap the source returned by oauth2.Config.TokenSource with it so tokens
// refreshed in the middle of a fetch survive the process.
type PersistingTokenSource struct {
	mu    sync.Mutex
	base  oauth2.TokenSource
	store driven.TokenStore
	last  string
}

// NewPersistingTokenSource wraps base. The token base starts from is assumed
// to be stored already.
func NewPersistingTokenSource(base oauth2.TokenSource, store driven.TokenStore, current *oauth2.Token) *PersistingTokenSource {
	s := &PersistingTokenSource{base: base, store: store}
	if current != nil {
		s.last = current.AccessToken
	}
	return s
}

// Token implements oauth2.TokenSource.
func (s *PersistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.store.Save(FromOAuth2Token(tok)); err != nil {
			logger.Warn("google: could not persist refreshed token to %s: %v", s.store.Path(), err)
		}
	}
	return tok, nil
}

// ToOAuth2Token converts a stored token for use with golang.org/x/oauth2.
func ToOAuth2Token(t *domain.OAuthToken) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}

// FromOAuth2Token converts an oauth2 token for storage.
func FromOAuth2Token(t *oauth2.Token) *domain.OAuthToken {
	return &domain.OAuthToken{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}
