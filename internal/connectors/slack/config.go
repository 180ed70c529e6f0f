package slack

import (
	"fmt"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// Config holds the parsed configuration for the Slack connector.
type Config struct {
	// Channels are channel IDs to read. Empty means every visible channel.
	Channels []string

	// Limit is the number of history messages read per channel.
	Limit int

	// DaysHistory bounds how far back history is read.
	DaysHistory int
}

// ParseConfig converts the configuration entry into a Config.
func ParseConfig(entry *domain.SlackConfig) (*Config, error) {
	if entry == nil {
		return nil, fmt.Errorf("slack: %w", domain.ErrNotFound)
	}
	return &Config{
		Channels:    append([]string(nil), entry.Channels...),
		Limit:       entry.LimitOrDefault(),
		DaysHistory: entry.DaysHistoryOrDefault(),
	}, nil
}
