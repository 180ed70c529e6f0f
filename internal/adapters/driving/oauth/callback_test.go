//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func callback(t *testing.T, server *CallbackServer, params url.Values) *http.Response {
	t.Helper()
	resp, err := http.Get(server.RedirectURI() + "?" + params.Encode())
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestNewCallbackServer(t *testing.T) {
	server := NewCallbackServer(8080, "test-state-123")

	require.NotNil(t, server)
	assert.Equal(t, 8080, server.Port())
	assert.Equal(t, "test-state-123", server.expectedState)
	assert.Nil(t, server.server)
}

func TestCallbackServer_Start_RandomPort(t *testing.T) {
	server := startServer(t, "test-state")

	assert.NotZero(t, server.Port())
	assert.Contains(t, server.RedirectURI(), "http://127.0.0.1:")
	assert.Contains(t, server.RedirectURI(), "/callback")
}

func TestCallbackServer_Start_PortInUse(t *testing.T) {
	first := startServer(t, "state-1")

	second := NewCallbackServer(first.Port(), "state-2")
	err := second.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestCallbackServer_Stop_NotStarted(t *testing.T) {
	server := NewCallbackServer(0, "state")
	assert.NoError(t, server.Stop())
}

func TestCallbackServer_MultipleStopCalls(t *testing.T) {
	server := NewCallbackServer(0, "state")
	require.NoError(t, server.Start())

	assert.NoError(t, server.Stop())
	assert.NoError(t, server.Stop())
}

func TestCallbackServer_HandleCallback_Success(t *testing.T) {
	server := startServer(t, "good-state")

	resp := callback(t, server, url.Values{"code": {"auth-code"}, "state": {"good-state"}})
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Authorization successful")

	code, err := server.WaitForCode(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "auth-code", code)
}

func TestCallbackServer_HandleCallback_Failures(t *testing.T) {
	tests := []struct {
		name    string
		params  url.Values
		wantErr string
	}{
		{"state mismatch", url.Values{"code": {"c"}, "state": {"other"}}, "state mismatch"},
		{"state case sensitive", url.Values{"code": {"c"}, "state": {"GOOD-STATE"}}, "state mismatch"},
		{"missing code", url.Values{"state": {"good-state"}}, "no authorization code"},
		{"provider error", url.Values{"error": {"access_denied"}, "error_description": {"user said no"}}, "access_denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := startServer(t, "good-state")

			resp := callback(t, server, tt.params)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), "Authorization failed")

			_, err := server.WaitForCode(context.Background(), time.Second)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCallbackServer_HandleCallback_EscapesProviderText(t *testing.T) {
	server := startServer(t, "s")

	resp := callback(t, server, url.Values{"error": {"x"}, "error_description": {"<script>alert(1)</script>"}})
	body, _ := io.ReadAll(resp.Body)

	assert.NotContains(t, string(body), "<script>")
	assert.Contains(t, string(body), "&lt;script&gt;")
}

func TestCallbackServer_InvalidPathAndMethod(t *testing.T) {
	server := startServer(t, "s")
	base := "http://127.0.0.1:" + strconv.Itoa(server.Port())

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(server.RedirectURI(), "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCallbackServer_WaitForCode_Timeout(t *testing.T) {
	server := startServer(t, "s")

	_, err := server.WaitForCode(context.Background(), 20*time.Millisecond)

	assert.ErrorIs(t, err, ErrCallbackTimeout)
}

func TestCallbackServer_WaitForCode_Cancelled(t *testing.T) {
	server := startServer(t, "s")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := server.WaitForCode(ctx, time.Minute)

	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewState(t *testing.T) {
	a, err := NewState()
	require.NoError(t, err)
	b, err := NewState()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 32)
}
