package slack

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRate is one request per second, inside Slack's tier 3 limit.
	DefaultRate = 1

	// DefaultBurst lets short fetches run without waiting.
	DefaultBurst = 10

	// RepliesLimit caps the replies read per thread.
	RepliesLimit = 20

	// ChannelListLimit caps the channels discovered when none are configured.
	ChannelListLimit = 200
)

// channelTypes are the conversation types listed when no channels are configured.
var channelTypes = []string{"public_channel", "private_channel"}

// Client wraps the slack-go client with request pacing.
type Client struct {
	api     *slack.Client
	limiter *rate.Limiter
}

// NewClient creates a Slack Web API client for token.
// apiURL, when non-empty, replaces https://slack.com/api/.
func NewClient(token string, httpClient *http.Client, apiURL string, limiter *rate.Limiter) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	opts := []slack.Option{slack.OptionHTTPClient(httpClient)}
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}
	if limiter == nil {
		limiter = rate.NewLimiter(DefaultRate, DefaultBurst)
	}
	return &Client{api: slack.New(token, opts...), limiter: limiter}
}

// AuthTest verifies the token.
func (c *Client) AuthTest(ctx context.Context) (*slack.AuthTestResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return c.api.AuthTestContext(ctx)
}

// ListChannelIDs returns the IDs of the public and private channels the
// bot can see. Only the first page of conversations.list is read.
func (c *Client) ListChannelIDs(ctx context.Context) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	channels, _, err := c.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
		ExcludeArchived: true,
		Limit:           ChannelListLimit,
		Types:           channelTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("conversations.list: %w", err)
	}
	ids := make([]string, 0, len(channels))
	for _, ch := range channels {
		ids = append(ids, ch.ID)
	}
	return ids, nil
}

// ChannelName returns the name of a channel.
func (c *Client) ChannelName(ctx context.Context, channelID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	ch, err := c.api.GetConversationInfoContext(ctx, channelID, false)
	if err != nil {
		return "", fmt.Errorf("conversations.info: %w", err)
	}
	return ch.Name, nil
}

// History returns up to limit messages posted after oldest.
func (c *Client) History(ctx context.Context, channelID string, oldest time.Time, limit int) ([]slack.Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	params := &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	}
	if !oldest.IsZero() {
		params.Oldest = fmt.Sprintf("%d.000000", oldest.Unix())
	}
	resp, err := c.api.GetConversationHistoryContext(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("conversations.history: %w", err)
	}
	return resp.Messages, nil
}

// Replies returns the first page of a thread, parent first.
func (c *Client) Replies(ctx context.Context, channelID, threadTS string) ([]slack.Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	msgs, _, _, err := c.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: threadTS,
		Limit:     RepliesLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("conversations.replies: %w", err)
	}
	return msgs, nil
}

// UserRealName returns the real name of a user.
func (c *Client) UserRealName(ctx context.Context, userID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("users.info: %w", err)
	}
	if user.RealName != "" {
		return user.RealName, nil
	}
	return user.Name, nil
}
