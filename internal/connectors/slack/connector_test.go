package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// mockTokenProvider implements driven.TokenProvider for testing.
type mockTokenProvider struct {
	token string
	err   error
}

func (p *mockTokenProvider) GetToken(_ context.Context) (string, error) {
	return p.token, p.err
}

func (p *mockTokenProvider) Source() string {
	return "env:SLACK_BOT_TOKEN"
}

func (p *mockTokenProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodPAT
}

func (p *mockTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}

// fakeSlack serves the Web API methods used by the connector.
type fakeSlack struct {
	*httptest.Server
	requests atomic.Int32

	mu         sync.Mutex
	calls      map[string]int
	oldest     string
	userCalls  map[string]int
	listCursor string
}

func newFakeSlack(t *testing.T) *fakeSlack {
	t.Helper()
	f := &fakeSlack{calls: make(map[string]int), userCalls: make(map[string]int)}

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		_ = r.ParseForm()

		token := r.FormValue("token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}

		method := strings.TrimPrefix(r.URL.Path, "/")
		f.mu.Lock()
		f.calls[method]++
		f.mu.Unlock()

		if method == "conversations.history" && r.FormValue("channel") == "C429" {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if token != "xoxb-valid" {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "invalid_auth"})
			return
		}
		_ = json.NewEncoder(w).Encode(f.respond(method, r))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeSlack) respond(method string, r *http.Request) map[string]any {
	switch method {
	case "auth.test":
		return map[string]any{"ok": true, "user": "memorybot", "team": "Acme", "user_id": "U0", "team_id": "T0"}
	case "conversations.list":
		f.mu.Lock()
		cursor := f.listCursor
		f.mu.Unlock()
		return map[string]any{
			"ok":                true,
			"channels":          []map[string]any{{"id": "C1", "name": "general"}},
			"response_metadata": map[string]any{"next_cursor": cursor},
		}
	case "conversations.info":
		switch r.FormValue("channel") {
		case "C1":
			return map[string]any{"ok": true, "channel": map[string]any{"id": "C1", "name": "general"}}
		case "C429":
			return map[string]any{"ok": true, "channel": map[string]any{"id": "C429", "name": "busy"}}
		default:
			return map[string]any{"ok": false, "error": "channel_not_found"}
		}
	case "conversations.history":
		f.mu.Lock()
		f.oldest = r.FormValue("oldest")
		f.mu.Unlock()
		return map[string]any{"ok": true, "has_more": false, "messages": []map[string]any{
			{"type": "message", "user": "U1", "text": "Deploy is done", "ts": "1700000000.000100",
				"reactions": []map[string]any{{"name": "tada", "count": 2, "users": []string{"U1", "U2"}}}},
			{"type": "message", "subtype": "channel_join", "user": "U2", "text": "", "ts": "1700000001.000100"},
			{"type": "message", "subtype": "bot_message", "text": "", "ts": "1700000002.000100"},
			{"type": "message", "user": "U2", "text": "Release notes?", "ts": "1700000003.000100",
				"thread_ts": "1700000003.000100", "reply_count": 1},
		}}
	case "conversations.replies":
		return map[string]any{"ok": true, "has_more": false, "messages": []map[string]any{
			{"type": "message", "user": "U2", "text": "Release notes?", "ts": "1700000003.000100", "thread_ts": "1700000003.000100"},
			{"type": "message", "user": "U1", "text": "In the wiki", "ts": "1700000004.000100", "thread_ts": "1700000003.000100"},
		}}
	case "users.info":
		id := r.FormValue("user")
		f.mu.Lock()
		f.userCalls[id]++
		f.mu.Unlock()
		names := map[string]string{"U1": "Alice Smith", "U2": "Bob Jones"}
		return map[string]any{"ok": true, "user": map[string]any{"id": id, "name": strings.ToLower(id), "real_name": names[id]}}
	}
	return map[string]any{"ok": false, "error": "unknown_method"}
}

func (f *fakeSlack) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestConnector(f *fakeSlack, cfg *Config, token string) *Connector {
	return New(cfg, &mockTokenProvider{token: token},
		WithAPIURL(f.URL),
		WithRateLimiter(rate.NewLimiter(rate.Inf, 1)),
		WithClock(func() time.Time { return fixedNow }))
}

func TestNew(t *testing.T) {
	var _ driven.Connector = New(&Config{}, nil)
	assert.Equal(t, "slack", New(&Config{}, nil).Type())
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(&domain.SlackConfig{Enabled: true, BotTokenEnv: "SLACK_BOT_TOKEN"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSlackLimit, cfg.Limit)
	assert.Equal(t, domain.DefaultSlackDaysHistory, cfg.DaysHistory)
	assert.Empty(t, cfg.Channels)

	_, err = ParseConfig(nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConnector_Authenticate(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		f := newFakeSlack(t)
		c := newTestConnector(f, &Config{}, "xoxb-valid")

		account, err := c.Authenticate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "memorybot@Acme", account.Identifier)
		assert.Equal(t, 1, f.callCount("auth.test"))
		assert.Equal(t, int32(1), f.requests.Load())
	})

	t.Run("rejected token", func(t *testing.T) {
		f := newFakeSlack(t)
		c := newTestConnector(f, &Config{}, "xoxb-revoked")

		_, err := c.Authenticate(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
		var authErr *domain.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "slack", authErr.Connector)
		assert.Nil(t, c.Account())
	})

	t.Run("empty token makes no request", func(t *testing.T) {
		f := newFakeSlack(t)
		c := New(&Config{}, &mockTokenProvider{err: domain.ErrAuthRequired}, WithAPIURL(f.URL))

		_, err := c.Authenticate(context.Background())

		assert.ErrorIs(t, err, domain.ErrAuthRequired)
		assert.Zero(t, f.requests.Load())
	})

	t.Run("malformed tokens make no request", func(t *testing.T) {
		for _, token := range []string{"not-a-token", "xoxb-has space", "ghp_abc"} {
			f := newFakeSlack(t)
			c := newTestConnector(f, &Config{}, token)

			_, err := c.Authenticate(context.Background())

			assert.ErrorIs(t, err, domain.ErrAuthInvalid, token)
			assert.Zero(t, f.requests.Load(), token)
		}
	})

	t.Run("unreachable API", func(t *testing.T) {
		f := newFakeSlack(t)
		f.Close()
		c := newTestConnector(f, &Config{}, "xoxb-valid")

		_, err := c.Authenticate(context.Background())

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrAuthInvalid)
		assert.NotErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("closed connector", func(t *testing.T) {
		f := newFakeSlack(t)
		c := newTestConnector(f, &Config{}, "xoxb-valid")
		require.NoError(t, c.Close())

		_, err := c.Authenticate(context.Background())
		assert.ErrorIs(t, err, domain.ErrConnectorClosed)
	})
}

func TestConnector_Fetch(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		f := newFakeSlack(t)
		c := newTestConnector(f, &Config{}, "xoxb-valid")

		_, err := c.Fetch(context.Background())
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("messages and thread replies", func(t *testing.T) {
		f := newFakeSlack(t)
		c := newTestConnector(f, &Config{Channels: []string{"C1"}, Limit: 50, DaysHistory: 7}, "xoxb-valid")
		_, err := c.Authenticate(context.Background())
		require.NoError(t, err)

		docs, err := c.Fetch(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Zero(t, f.callCount("conversations.list"))

		var first MessageContent
		require.NoError(t, json.Unmarshal(docs[0].Content, &first))
		assert.Equal(t, "Alice Smith", first.Sender)
		assert.Equal(t, "general", first.Channel)
		assert.Equal(t, "Deploy is done", first.Text)
		assert.Equal(t, []Reaction{{Name: "tada", Count: 2}}, first.Reactions)
		assert.Nil(t, docs[0].ParentURI)

		var reply MessageContent
		require.NoError(t, json.Unmarshal(docs[2].Content, &reply))
		assert.Equal(t, "In the wiki", reply.Text)
		assert.Equal(t, "1700000003.000100", reply.ParentTS)
		require.NotNil(t, docs[2].ParentURI)
		assert.Equal(t, MessageURI("C1", "1700000003.000100"), *docs[2].ParentURI)

		for _, d := range docs {
			assert.Equal(t, domain.MIMESlackMessage, d.MIMEType)
			assert.Equal(t, domain.ConnectorSlack, d.Connector)
		}
	})

	t.Run("history window and user cache", func(t *testing.T) {
		f := newFakeSlack(t)
		c := newTestConnector(f, &Config{Channels: []string{"C1"}, Limit: 50, DaysHistory: 7}, "xoxb-valid")
		_, err := c.Authenticate(context.Background())
		require.NoError(t, err)

		_, err = c.Fetch(context.Background())
		require.NoError(t, err)

		f.mu.Lock()
		defer f.mu.Unlock()
		assert.Equal(t, "1709467200.000000", f.oldest)
		assert.Equal(t, 1, f.userCalls["U1"])
		assert.Equal(t, 1, f.userCalls["U2"])
	})

	t.Run("lists channels when none configured", func(t *testing.T) {
		f := newFakeSlack(t)
		c := newTestConnector(f, &Config{Limit: 10, DaysHistory: 1}, "xoxb-valid")
		_, err := c.Authenticate(context.Background())
		require.NoError(t, err)

		docs, err := c.Fetch(context.Background())

		require.NoError(t, err)
		assert.Len(t, docs, 3)
		assert.Equal(t, 1, f.callCount("conversations.list"))
	})

	t.Run("channel discovery reads a single page", func(t *testing.T) {
		f := newFakeSlack(t)
		f.listCursor = "again"
		c := newTestConnector(f, &Config{Limit: 10, DaysHistory: 1}, "xoxb-valid")
		_, err := c.Authenticate(context.Background())
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		docs, err := c.Fetch(ctx)

		require.NoError(t, err)
		assert.Len(t, docs, 3)
		assert.Equal(t, 1, f.callCount("conversations.list"))
	})

	t.Run("rate limit stops the fetch", func(t *testing.T) {
		f := newFakeSlack(t)
		c := newTestConnector(f, &Config{Channels: []string{"C429", "C1"}, Limit: 10, DaysHistory: 1}, "xoxb-valid")
		_, err := c.Authenticate(context.Background())
		require.NoError(t, err)

		docs, err := c.Fetch(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRateLimited)
		assert.True(t, IsRateLimited(err))
		assert.Empty(t, docs)
		assert.Equal(t, 1, f.callCount("conversations.history"))
	})

	t.Run("unreadable channel is skipped", func(t *testing.T) {
		f := newFakeSlack(t)
		c := newTestConnector(f, &Config{Channels: []string{"C404", "C1"}, Limit: 10, DaysHistory: 1}, "xoxb-valid")
		_, err := c.Authenticate(context.Background())
		require.NoError(t, err)

		docs, err := c.Fetch(context.Background())

		require.NoError(t, err)
		assert.Len(t, docs, 3)
	})
}

func TestShouldSkip(t *testing.T) {
	msg := func(subtype, text string) slack.Message {
		m := slack.Message{}
		m.SubType = subtype
		m.Text = text
		return m
	}
	assert.True(t, shouldSkip(msg("bot_message", "")))
	assert.True(t, shouldSkip(msg("channel_join", " ")))
	assert.False(t, shouldSkip(msg("bot_message", "build passed")))
	assert.False(t, shouldSkip(msg("", "")))
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(slack.SlackErrorResponse{Err: "invalid_auth"}))
	assert.True(t, IsAuthError(fmt.Errorf("auth.test: %w", slack.SlackErrorResponse{Err: "token_revoked"})))
	assert.False(t, IsAuthError(slack.SlackErrorResponse{Err: "channel_not_found"}))
	assert.False(t, IsAuthError(errors.New("proxy said invalid_auth")))
	assert.False(t, IsAuthError(nil))
}

func TestIsRateLimited(t *testing.T) {
	limited := fmt.Errorf("conversations.history: %w", &slack.RateLimitedError{RetryAfter: time.Second})
	assert.True(t, IsRateLimited(limited))
	assert.ErrorIs(t, wrapRateLimit(limited), domain.ErrRateLimited)

	other := errors.New("boom")
	assert.False(t, IsRateLimited(other))
	assert.Same(t, other, wrapRateLimit(other))
}
