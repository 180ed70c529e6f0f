package slack

import (
	"errors"
	"fmt"
	"slices"

	"github.com/slack-go/slack"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// authErrorCodes are Slack API error codes meaning the token was rejected.
var authErrorCodes = []string{
	"invalid_auth",
	"not_authed",
	"token_revoked",
	"token_expired",
	"account_inactive",
}

// IsAuthError reports whether err is a Slack API error response rejecting the token.
func IsAuthError(err error) bool {
	var resp slack.SlackErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	return slices.Contains(authErrorCodes, resp.Err)
}

// IsRateLimited reports whether err is a Slack rate limit response.
func IsRateLimited(err error) bool {
	var rlErr *slack.RateLimitedError
	return errors.As(err, &rlErr)
}

// wrapRateLimit marks a Slack rate limit response with domain.ErrRateLimited.
// Other errors are returned unchanged.
func wrapRateLimit(err error) error {
	if IsRateLimited(err) {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return err
}
