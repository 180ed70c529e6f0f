// Package slack provides a connector for Slack workspaces.
//
// The connector authenticates with a bot token read from the environment
// and fetches recent channel messages, including thread replies.
//
// # Authentication
//
// A bot token (xoxb-...) is resolved through a driven.TokenProvider. Absent
// or malformed tokens are rejected before any request is made; anything else
// is verified with a single auth.test call.
//
// # Content
//
//   - Channel messages from conversations.history
//   - Thread replies from conversations.replies
//
// Each message becomes one RawDocument of MIME type
// application/vnd.slack.message+json.
//
// # Rate Limiting
//
// Requests are paced by a token bucket. The Slack tier limits are generous
// enough that the connector never retries.
package slack
