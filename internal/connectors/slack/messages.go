package slack

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// UnknownSender is used when a message has no resolvable author.
const UnknownSender = "Unknown"

// skippedSubtypes are message subtypes dropped when they carry no text.
var skippedSubtypes = map[string]bool{
	"bot_message":  true,
	"channel_join": true,
}

// MessageContent is the JSON structure for the message RawDocument content.
type MessageContent struct {
	ID        string     `json:"id"`
	ChannelID string     `json:"channel_id"`
	Channel   string     `json:"channel"`
	Sender    string     `json:"sender"`
	Timestamp string     `json:"timestamp"`
	Text      string     `json:"message"`
	ThreadTS  string     `json:"thread_ts,omitempty"`
	ParentTS  string     `json:"parent_msg_id,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

// Reaction is an emoji reaction on a message.
type Reaction struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// shouldSkip reports whether msg is a textless bot or join event.
func shouldSkip(msg slack.Message) bool {
	return skippedSubtypes[msg.SubType] && strings.TrimSpace(msg.Text) == ""
}

// isThreadParent reports whether msg starts a thread.
func isThreadParent(msg slack.Message) bool {
	return msg.ThreadTimestamp != "" && msg.ThreadTimestamp == msg.Timestamp
}

// MessageURI returns the archive link of a message.
func MessageURI(channelID, ts string) string {
	return fmt.Sprintf("https://slack.com/archives/%s/p%s", channelID, strings.ReplaceAll(ts, ".", ""))
}

// buildMessageDocument converts a message into a RawDocument.
// parentTS is set for thread replies.
func buildMessageDocument(channelID, channelName, sender string, msg slack.Message, parentTS string) (domain.RawDocument, error) {
	content := MessageContent{
		ID:        msg.Timestamp,
		ChannelID: channelID,
		Channel:   channelName,
		Sender:    sender,
		Timestamp: msg.Timestamp,
		Text:      msg.Text,
		ThreadTS:  msg.ThreadTimestamp,
		ParentTS:  parentTS,
	}
	for _, r := range msg.Reactions {
		content.Reactions = append(content.Reactions, Reaction{Name: r.Name, Count: r.Count})
	}

	data, err := json.Marshal(content)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("encode message: %w", err)
	}

	doc := domain.RawDocument{
		Connector: domain.ConnectorSlack,
		URI:       MessageURI(channelID, msg.Timestamp),
		MIMEType:  domain.MIMESlackMessage,
		Content:   data,
		Metadata: map[string]any{
			"channel_id": channelID,
			"channel":    channelName,
		},
	}
	if parentTS != "" {
		parent := MessageURI(channelID, parentTS)
		doc.ParentURI = &parent
	}
	return doc, nil
}
