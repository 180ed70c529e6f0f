// Package slack provides the normaliser for Slack messages.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Slack message documents.
type Normaliser struct{}

// New creates a new Slack message normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMESlackMessage}
}

// SupportedConnectorTypes returns connector types for specialised handling.
func (n *Normaliser) SupportedConnectorTypes() []string {
	return []string{domain.ConnectorSlack}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 95
}

// MessageContent represents the JSON content of a message.
type MessageContent struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Channel   string `json:"channel"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"message"`
	ThreadTS  string `json:"thread_ts"`
	ParentTS  string `json:"parent_msg_id"`
}

// MessageID converts a Slack timestamp into a document ID.
func MessageID(ts string) string {
	return "slack_" + strings.ReplaceAll(ts, ".", "_")
}

// ParseTimestamp converts a Slack "seconds.micros" timestamp.
func ParseTimestamp(ts string) (time.Time, error) {
	secs, frac, _ := strings.Cut(ts, ".")
	s, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slack timestamp %q: %w", ts, err)
	}
	var micros int64
	if frac != "" {
		frac = (frac + "000000")[:6]
		if micros, err = strconv.ParseInt(frac, 10, 64); err != nil {
			return time.Time{}, fmt.Errorf("parse slack timestamp %q: %w", ts, err)
		}
	}
	return time.Unix(s, micros*int64(time.Microsecond)).UTC(), nil
}

// Normalise converts a message document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var content MessageContent
	if err := json.Unmarshal(raw.Content, &content); err != nil {
		return nil, fmt.Errorf("parse message content: %w", err)
	}
	if content.ID == "" {
		return nil, fmt.Errorf("message without timestamp: %w", domain.ErrInvalidInput)
	}

	sender := content.Sender
	if sender == "" {
		sender = "Unknown"
	}
	channel := content.Channel
	if channel == "" {
		channel = "Unknown"
	}

	metadata := maps.Clone(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["mime_type"] = raw.MIMEType

	doc := domain.Document{
		ID:      MessageID(content.ID),
		Source:  domain.ConnectorSlack,
		Kind:    "message",
		Title:   fmt.Sprintf("Message from %s in %s", sender, channel),
		Content: fmt.Sprintf("Sender: %s in %s\nMessage: %s", sender, channel, content.Text),
		Author:  sender,
		Channel: channel,
		URL:     raw.URI,
	}

	if created, err := ParseTimestamp(content.Timestamp); err == nil {
		doc.CreatedAt = created
		metadata["timestamp"] = created.Format(time.RFC3339Nano)
	}
	if content.ThreadTS != "" && content.ThreadTS != content.ID {
		doc.ThreadID = MessageID(content.ThreadTS)
	}
	if content.ParentTS != "" {
		doc.ParentID = MessageID(content.ParentTS)
	}
	doc.Metadata = metadata

	return &driven.NormaliseResult{Document: doc}, nil
}
