// Package github implements a connector for GitHub repositories.
//
// The connector reads the repositories listed in configuration. For each
// "owner/repo" it can produce a repository summary, the README and one page
// of issues and pull requests.
//
// # Architecture
//
// The connector follows the driven port pattern defined in [driven.Connector].
// It comprises the following components:
//
//   - Connector: authentication, fetch orchestration and lifecycle
//   - Client: GitHub API communication with rate limiting
//   - Config: the parsed connector configuration entry
//
// # Authentication
//
// A Personal Access Token is read from the environment variable named by
// token_env. Authenticate verifies it with a single GET /user. A missing or
// empty variable fails without any request being made.
//
// # Configuration
//
//   - repositories: list of "owner/repo" names
//   - content_types: any of repository, readme, issues, prs. Default: all
//   - max_items: issue page size. Default: 100
package github
