package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore keeps one OAuth token as JSON in a file.
// The encoding matches golang.org/x/oauth2's Token so files written by other
// Go tools remain readable.
type TokenStore struct {
	mu       sync.Mutex
	filePath string
}

// NewTokenStore creates a token store backed by path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{filePath: path}
}

// Load reads the stored token.
func (s *TokenStore) Load() (*domain.OAuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("token file %s: %w", s.filePath, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read token file %s: %w", s.filePath, err)
	}

	var token domain.OAuthToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("decode token file %s: %w", s.filePath, err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s: %w: no access or refresh token", s.filePath, domain.ErrInvalidInput)
	}
	return &token, nil
}

// Save writes the token with 0600 permissions.
func (s *TokenStore) Save(token *domain.OAuthToken) error {
	if token == nil {
		return fmt.Errorf("save token: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return writeFileAtomic(s.filePath, data, 0600)
}

// Delete removes the token file.
func (s *TokenStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete token file %s: %w", s.filePath, err)
	}
	return nil
}

// Path returns the token file path.
func (s *TokenStore) Path() string {
	return s.filePath
}
