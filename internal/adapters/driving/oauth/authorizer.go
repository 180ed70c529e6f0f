package oauth

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

// DefaultAuthorizeTimeout bounds how long the user has to approve access.
const DefaultAuthorizeTimeout = 5 * time.Minute

// BrowserAuthorizer runs the OAuth authorization-code flow for installed
// applications: a loopback callback server, PKCE (S256) and the system browser.
type BrowserAuthorizer struct {
	out     io.Writer
	open    func(url string) error
	timeout time.Duration
}

// AuthorizerOption configures a BrowserAuthorizer.
type AuthorizerOption func(*BrowserAuthorizer)

// WithBrowserOpener replaces the function used to open the consent page.
func WithBrowserOpener(open func(url string) error) AuthorizerOption {
	return func(a *BrowserAuthorizer) { a.open = open }
}

// WithTimeout sets how long to wait for the redirect.
func WithTimeout(d time.Duration) AuthorizerOption {
	return func(a *BrowserAuthorizer) { a.timeout = d }
}

// NewBrowserAuthorizer creates an authorizer printing instructions to out.
func NewBrowserAuthorizer(out io.Writer, opts ...AuthorizerOption) *BrowserAuthorizer {
	if out == nil {
		out = os.Stderr
	}
	a := &BrowserAuthorizer{out: out, open: OpenBrowser, timeout: DefaultAuthorizeTimeout}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authorize obtains a user token for cfg. The redirect URL of cfg is
// replaced by the loopback address of a temporary callback server.
func (a *BrowserAuthorizer) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	state, err := NewState()
	if err != nil {
		return nil, err
	}

	server := NewCallbackServer(0, state)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("start callback server: %w", err)
	}
	defer func() { _ = server.Stop() }()

	flow := *cfg
	flow.RedirectURL = server.RedirectURI()
	verifier := oauth2.GenerateVerifier()
	authURL := flow.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	fmt.Fprintf(a.out, "Open the following URL to authorise access:\n\n  %s\n\n", authURL)
	if err := a.open(authURL); err != nil {
		logger.Debug("could not open browser: %v", err)
	}

	code, err := server.WaitForCode(ctx, a.timeout)
	if err != nil {
		return nil, err
	}

	logger.Debug("authorization code received, exchanging for token")
	token, err := flow.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}
