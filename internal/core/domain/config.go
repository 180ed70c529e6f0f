package domain

import (
	"strings"
)

// Connector names as they appear under "connectors" in the config file.
const (
	ConnectorGoogleDrive = "google_drive"
	ConnectorSlack       = "slack"
	ConnectorGitHub      = "github"
)

// ConnectorNames lists every supported connector in configuration order.
var ConnectorNames = []string{ConnectorGoogleDrive, ConnectorSlack, ConnectorGitHub}

// GitHub content types selectable through content_types.
const (
	GitHubContentRepository = "repository"
	GitHubContentReadme     = "readme"
	GitHubContentIssues     = "issues"
	GitHubContentPRs        = "prs"
)

// Defaults applied to optional connector fields left at zero.
const (
	DefaultSlackLimit       = 100
	DefaultSlackDaysHistory = 7
	DefaultGitHubMaxItems   = 100
	DefaultDriveMaxResults  = 100
	DriveReadonlyScope      = "https://www.googleapis.com/auth/drive.readonly"
)

// Config is the shared configuration document read by every command.
// It is loaded once per command and never mutated by connectors.
type Config struct {
	Connectors ConnectorsConfig `json:"connectors" toml:"connectors" yaml:"connectors"`
	Embedding  *EmbeddingConfig `json:"embedding,omitempty" toml:"embedding,omitempty" yaml:"embedding,omitempty"`
	Database   *DatabaseConfig  `json:"database,omitempty" toml:"database,omitempty" yaml:"database,omitempty"`
}

// ConnectorsConfig holds one optional entry per connector.
// A nil entry behaves like a disabled connector.
type ConnectorsConfig struct {
	GoogleDrive *GoogleDriveConfig `json:"google_drive,omitempty" toml:"google_drive,omitempty" yaml:"google_drive,omitempty"`
	Slack       *SlackConfig       `json:"slack,omitempty" toml:"slack,omitempty" yaml:"slack,omitempty"`
	GitHub      *GitHubConfig      `json:"github,omitempty" toml:"github,omitempty" yaml:"github,omitempty"`
}

// GoogleDriveConfig configures the Google Drive connector.
type GoogleDriveConfig struct {
	Enabled bool `json:"enabled" toml:"enabled" yaml:"enabled"`
	// CredentialsFile is the OAuth client secrets file downloaded from Google Cloud.
	CredentialsFile string `json:"credentials_file" toml:"credentials_file" yaml:"credentials_file"`
	// TokenFile is where the authorised user token is persisted.
	TokenFile  string   `json:"token_file" toml:"token_file" yaml:"token_file"`
	Scopes     []string `json:"scopes" toml:"scopes" yaml:"scopes"`
	FolderName string   `json:"folder_name,omitempty" toml:"folder_name,omitempty" yaml:"folder_name,omitempty"`
	// FileTypes restricts listed files to these MIME types.
	FileTypes  []string `json:"file_types,omitempty" toml:"file_types,omitempty" yaml:"file_types,omitempty"`
	MaxResults int      `json:"max_results,omitempty" toml:"max_results,omitempty" yaml:"max_results,omitempty"`
}

// SlackConfig configures the Slack connector.
type SlackConfig struct {
	Enabled bool `json:"enabled" toml:"enabled" yaml:"enabled"`
	// BotTokenEnv names the environment variable holding the bot token.
	BotTokenEnv string `json:"bot_token_env" toml:"bot_token_env" yaml:"bot_token_env"`
	// Channels are channel IDs to read. Empty means every visible channel.
	Channels    []string `json:"channels,omitempty" toml:"channels,omitempty" yaml:"channels,omitempty"`
	Limit       int      `json:"limit,omitempty" toml:"limit,omitempty" yaml:"limit,omitempty"`
	DaysHistory int      `json:"days_history,omitempty" toml:"days_history,omitempty" yaml:"days_history,omitempty"`
}

// GitHubConfig configures the GitHub connector.
type GitHubConfig struct {
	Enabled bool `json:"enabled" toml:"enabled" yaml:"enabled"`
	// TokenEnv names the environment variable holding the personal access token.
	TokenEnv     string   `json:"token_env" toml:"token_env" yaml:"token_env"`
	Repositories []string `json:"repositories" toml:"repositories" yaml:"repositories"`
	ContentTypes []string `json:"content_types,omitempty" toml:"content_types,omitempty" yaml:"content_types,omitempty"`
	MaxItems     int      `json:"max_items,omitempty" toml:"max_items,omitempty" yaml:"max_items,omitempty"`
}

// EmbeddingConfig is carried through untouched; only the key env var is inspected.
type EmbeddingConfig struct {
	Model        string `json:"model" toml:"model" yaml:"model"`
	APIKeyEnv    string `json:"api_key_env" toml:"api_key_env" yaml:"api_key_env"`
	ChunkSize    int    `json:"chunk_size" toml:"chunk_size" yaml:"chunk_size"`
	ChunkOverlap int    `json:"chunk_overlap" toml:"chunk_overlap" yaml:"chunk_overlap"`
}

// DatabaseConfig is carried through untouched.
type DatabaseConfig struct {
	ChromaPath string `json:"chroma_path" toml:"chroma_path" yaml:"chroma_path"`
}

// DefaultConfig returns the configuration written by "config init".
// Every connector starts disabled.
func DefaultConfig() *Config {
	return &Config{
		Connectors: ConnectorsConfig{
			GoogleDrive: DefaultGoogleDriveConfig(),
			Slack:       DefaultSlackConfig(),
			GitHub:      DefaultGitHubConfig(),
		},
		Embedding: &EmbeddingConfig{
			Model:        "models/text-embedding-004",
			APIKeyEnv:    "GEMINI_API_KEY",
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Database: &DatabaseConfig{ChromaPath: "./chroma_db"},
	}
}

// DefaultGoogleDriveConfig returns a disabled Drive entry.
func DefaultGoogleDriveConfig() *GoogleDriveConfig {
	return &GoogleDriveConfig{
		CredentialsFile: "credentials.json",
		TokenFile:       "token.json",
		Scopes:          []string{DriveReadonlyScope},
	}
}

// DefaultSlackConfig returns a disabled Slack entry.
func DefaultSlackConfig() *SlackConfig {
	return &SlackConfig{BotTokenEnv: "SLACK_BOT_TOKEN"}
}

// DefaultGitHubConfig returns a disabled GitHub entry.
func DefaultGitHubConfig() *GitHubConfig {
	return &GitHubConfig{TokenEnv: "GITHUB_ACCESS_TOKEN", Repositories: []string{}}
}

// IsEnabled reports whether the named connector is present and enabled.
func (c *Config) IsEnabled(name string) bool {
	switch name {
	case ConnectorGoogleDrive:
		return c.Connectors.GoogleDrive != nil && c.Connectors.GoogleDrive.Enabled
	case ConnectorSlack:
		return c.Connectors.Slack != nil && c.Connectors.Slack.Enabled
	case ConnectorGitHub:
		return c.Connectors.GitHub != nil && c.Connectors.GitHub.Enabled
	default:
		return false
	}
}

// EnabledConnectors returns enabled connector names in configuration order.
func (c *Config) EnabledConnectors() []string {
	var names []string
	for _, name := range ConnectorNames {
		if c.IsEnabled(name) {
			names = append(names, name)
		}
	}
	return names
}

// SetEnabled toggles a connector, creating its entry from defaults when missing.
func (c *Config) SetEnabled(name string, enabled bool) error {
	switch name {
	case ConnectorGoogleDrive:
		if c.Connectors.GoogleDrive == nil {
			c.Connectors.GoogleDrive = DefaultGoogleDriveConfig()
		}
		c.Connectors.GoogleDrive.Enabled = enabled
	case ConnectorSlack:
		if c.Connectors.Slack == nil {
			c.Connectors.Slack = DefaultSlackConfig()
		}
		c.Connectors.Slack.Enabled = enabled
	case ConnectorGitHub:
		if c.Connectors.GitHub == nil {
			c.Connectors.GitHub = DefaultGitHubConfig()
		}
		c.Connectors.GitHub.Enabled = enabled
	default:
		return ErrUnsupportedType
	}
	return nil
}

// IsSupportedConnector reports whether name is a known connector.
func IsSupportedConnector(name string) bool {
	for _, n := range ConnectorNames {
		if n == name {
			return true
		}
	}
	return false
}

// LimitOrDefault returns the per-channel history limit.
func (s *SlackConfig) LimitOrDefault() int {
	if s.Limit > 0 {
		return s.Limit
	}
	return DefaultSlackLimit
}

// DaysHistoryOrDefault returns how many days of history to read.
func (s *SlackConfig) DaysHistoryOrDefault() int {
	if s.DaysHistory > 0 {
		return s.DaysHistory
	}
	return DefaultSlackDaysHistory
}

// MaxItemsOrDefault returns the issue page size.
func (g *GitHubConfig) MaxItemsOrDefault() int {
	if g.MaxItems > 0 {
		return g.MaxItems
	}
	return DefaultGitHubMaxItems
}

// WantsContent reports whether the given content type should be fetched.
// An empty list selects everything.
func (g *GitHubConfig) WantsContent(contentType string) bool {
	if len(g.ContentTypes) == 0 {
		return true
	}
	for _, ct := range g.ContentTypes {
		if strings.EqualFold(strings.TrimSpace(ct), contentType) {
			return true
		}
	}
	return false
}

// MaxResultsOrDefault returns the maximum number of files to list.
func (d *GoogleDriveConfig) MaxResultsOrDefault() int {
	if d.MaxResults > 0 {
		return d.MaxResults
	}
	return DefaultDriveMaxResults
}
