// Package google provides shared infrastructure for Google API connectors.
//
// This package contains common utilities used by the drive connector:
//   - A token source that persists refreshed OAuth tokens
//   - Service factories for creating Google API clients
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	ts := google.NewPersistingTokenSource(cfg.TokenSource(ctx, tok), store, tok)
//	svc, err := google.NewDriveService(ctx, ts)
//
// # OAuth2 Scopes
//
// The drive connector defaults to https://www.googleapis.com/auth/drive.readonly
// (restricted). For user-created internal apps, restricted scopes don't
// require verification.
package google
