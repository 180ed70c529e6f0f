package domain

// RawDocument represents opaque bytes fetched by a connector.
// It is the connector's output before normalisation.
type RawDocument struct {
	// Connector names the connector that produced this document.
	Connector string

	// URI is the original location (API URL, web link, etc).
	URI string

	// MIMEType identifies the payload shape so a normaliser can be chosen.
	MIMEType string

	// Content is the raw bytes, usually the API object as JSON.
	Content []byte

	// ParentURI links to a parent for hierarchical sources.
	ParentURI *string

	// Metadata contains connector-specific key-value pairs.
	Metadata map[string]any
}

// MIME types produced by the connectors.
const (
	MIMESlackMessage     = "application/vnd.slack.message+json"
	MIMEGitHubRepository = "application/vnd.github.repository+json"
	MIMEGitHubReadme     = "application/vnd.github.readme+json"
	MIMEGitHubIssue      = "application/vnd.github.issue+json"
	MIMEGitHubPull       = "application/vnd.github.pull+json"
	MIMEDriveFile        = "application/vnd.google-drive.file+json"
)
