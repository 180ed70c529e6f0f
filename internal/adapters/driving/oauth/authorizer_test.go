package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTokenEndpoint(t *testing.T, wantCode string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != wantCode || r.Form.Get("code_verifier") == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "ya29.new",
			"refresh_token": "1//refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// approve simulates the user granting access in the browser.
func approve(code string) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		redirect := q.Get("redirect_uri") + "?" + url.Values{"code": {code}, "state": {q.Get("state")}}.Encode()
		resp, err := http.Get(redirect) //nolint:noctx
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}
}

func TestBrowserAuthorizer_Authorize(t *testing.T) {
	tokenSrv := newTokenEndpoint(t, "the-code")
	var seenURL string
	var out bytes.Buffer

	a := NewBrowserAuthorizer(&out, WithBrowserOpener(func(u string) error {
		seenURL = u
		return approve("the-code")(u)
	}), WithTimeout(5*time.Second))

	cfg := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: tokenSrv.URL},
		Scopes:       []string{"scope-a"},
	}

	token, err := a.Authorize(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, "ya29.new", token.AccessToken)
	assert.Equal(t, "1//refresh", token.RefreshToken)
	assert.Contains(t, out.String(), seenURL)

	u, err := url.Parse(seenURL)
	require.NoError(t, err)
	assert.Equal(t, "offline", u.Query().Get("access_type"))
	assert.Equal(t, "S256", u.Query().Get("code_challenge_method"))
	assert.NotEmpty(t, u.Query().Get("code_challenge"))
	assert.Empty(t, cfg.RedirectURL, "caller config must not be modified")
}

func TestBrowserAuthorizer_ExchangeRejected(t *testing.T) {
	tokenSrv := newTokenEndpoint(t, "expected")
	a := NewBrowserAuthorizer(&bytes.Buffer{}, WithBrowserOpener(approve("wrong")), WithTimeout(5*time.Second))
	cfg := &oauth2.Config{ClientID: "c", Endpoint: oauth2.Endpoint{TokenURL: tokenSrv.URL}}

	_, err := a.Authorize(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange authorization code")
}

func TestBrowserAuthorizer_Timeout(t *testing.T) {
	a := NewBrowserAuthorizer(&bytes.Buffer{},
		WithBrowserOpener(func(string) error { return nil }),
		WithTimeout(20*time.Millisecond))

	_, err := a.Authorize(context.Background(), &oauth2.Config{ClientID: "c"})

	assert.ErrorIs(t, err, ErrCallbackTimeout)
}
