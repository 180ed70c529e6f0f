package domain

import "time"

// Document is the normalised record produced from a RawDocument.
// It is the shape written by "memorybox fetch".
type Document struct {
	// ID is stable per source item: slack_<ts>, drive_<fileId>, or the GitHub id.
	ID string `json:"id"`

	// Source is the connector name.
	Source string `json:"source"`

	// Kind distinguishes item types within a source (message, issue, readme...).
	Kind string `json:"type"`

	Title string `json:"title,omitempty"`

	// Content is the formatted text ready for downstream processing.
	Content string `json:"content"`

	Author   string `json:"author,omitempty"`
	Channel  string `json:"channel,omitempty"`
	URL      string `json:"url,omitempty"`
	ThreadID string `json:"thread_id,omitempty"`

	// ParentID links replies and readmes to their parent item.
	ParentID string `json:"parent_id,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`
}
