package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg.Connectors.GoogleDrive)
	require.NotNil(t, cfg.Connectors.Slack)
	require.NotNil(t, cfg.Connectors.GitHub)

	assert.Empty(t, cfg.EnabledConnectors())
	assert.Equal(t, "credentials.json", cfg.Connectors.GoogleDrive.CredentialsFile)
	assert.Equal(t, "token.json", cfg.Connectors.GoogleDrive.TokenFile)
	assert.Equal(t, []string{DriveReadonlyScope}, cfg.Connectors.GoogleDrive.Scopes)
	assert.Equal(t, "SLACK_BOT_TOKEN", cfg.Connectors.Slack.BotTokenEnv)
	assert.Equal(t, "GITHUB_ACCESS_TOKEN", cfg.Connectors.GitHub.TokenEnv)
	assert.Equal(t, "GEMINI_API_KEY", cfg.Embedding.APIKeyEnv)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_SetEnabled(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.SetEnabled(ConnectorGitHub, true))
	require.NoError(t, cfg.SetEnabled(ConnectorSlack, true))

	assert.Equal(t, []string{ConnectorSlack, ConnectorGitHub}, cfg.EnabledConnectors())
	assert.Equal(t, "GITHUB_ACCESS_TOKEN", cfg.Connectors.GitHub.TokenEnv)

	require.NoError(t, cfg.SetEnabled(ConnectorSlack, false))
	assert.False(t, cfg.IsEnabled(ConnectorSlack))

	err := cfg.SetEnabled("teams", true)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "disabled connectors are not validated",
			mutate: func(c *Config) { c.Connectors.Slack.BotTokenEnv = "" },
		},
		{
			name: "slack missing bot_token_env",
			mutate: func(c *Config) {
				c.Connectors.Slack.Enabled = true
				c.Connectors.Slack.BotTokenEnv = ""
			},
			field: "connectors.slack.bot_token_env",
		},
		{
			name: "github missing token_env",
			mutate: func(c *Config) {
				c.Connectors.GitHub.Enabled = true
				c.Connectors.GitHub.TokenEnv = " "
			},
			field: "connectors.github.token_env",
		},
		{
			name: "github bad repository",
			mutate: func(c *Config) {
				c.Connectors.GitHub.Enabled = true
				c.Connectors.GitHub.Repositories = []string{"octocat"}
			},
			field: "connectors.github.repositories",
		},
		{
			name: "github unknown content type",
			mutate: func(c *Config) {
				c.Connectors.GitHub.Enabled = true
				c.Connectors.GitHub.ContentTypes = []string{"wiki"}
			},
			field: "connectors.github.content_types",
		},
		{
			name: "drive missing credentials_file",
			mutate: func(c *Config) {
				c.Connectors.GoogleDrive.Enabled = true
				c.Connectors.GoogleDrive.CredentialsFile = ""
			},
			field: "connectors.google_drive.credentials_file",
		},
		{
			name: "drive without scopes",
			mutate: func(c *Config) {
				c.Connectors.GoogleDrive.Enabled = true
				c.Connectors.GoogleDrive.Scopes = nil
			},
			field: "connectors.google_drive.scopes",
		},
		{
			name: "slack negative limit",
			mutate: func(c *Config) {
				c.Connectors.Slack.Enabled = true
				c.Connectors.Slack.Limit = -1
			},
			field: "connectors.slack.limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigSchema)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestSplitRepository(t *testing.T) {
	owner, repo, ok := SplitRepository("octocat/hello-world")
	assert.True(t, ok)
	assert.Equal(t, "octocat", owner)
	assert.Equal(t, "hello-world", repo)

	for _, bad := range []string{"", "octocat", "/repo", "owner/", "a/b/c"} {
		_, _, ok := SplitRepository(bad)
		assert.False(t, ok, bad)
	}
}

func TestOptionalDefaults(t *testing.T) {
	s := &SlackConfig{}
	assert.Equal(t, DefaultSlackLimit, s.LimitOrDefault())
	assert.Equal(t, DefaultSlackDaysHistory, s.DaysHistoryOrDefault())
	s.Limit, s.DaysHistory = 5, 2
	assert.Equal(t, 5, s.LimitOrDefault())
	assert.Equal(t, 2, s.DaysHistoryOrDefault())

	g := &GitHubConfig{}
	assert.Equal(t, DefaultGitHubMaxItems, g.MaxItemsOrDefault())
	assert.True(t, g.WantsContent(GitHubContentIssues))
	g.ContentTypes = []string{"README"}
	assert.True(t, g.WantsContent(GitHubContentReadme))
	assert.False(t, g.WantsContent(GitHubContentPRs))

	d := &GoogleDriveConfig{}
	assert.Equal(t, DefaultDriveMaxResults, d.MaxResultsOrDefault())
}
