// Package github provides normalisers for GitHub-specific content types.
//
// This package contains normalisers for:
//   - Repositories (application/vnd.github.repository+json)
//   - READMEs (application/vnd.github.readme+json)
//   - Issues (application/vnd.github.issue+json)
//   - Pull Requests (application/vnd.github.pull+json)
//
// Every document is rendered with the same header naming the repository,
// title and URL, followed by the item's own content.
package github
