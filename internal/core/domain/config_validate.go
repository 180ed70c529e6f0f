package domain

import (
	"strings"
)

// Validate checks every enabled connector entry for required fields.
// Disabled entries are not validated so a half-filled section can sit in the
// file until it is switched on. The first problem found is returned as a
// ConfigError of kind ErrConfigSchema.
func (c *Config) Validate() error {
	if d := c.Connectors.GoogleDrive; d != nil && d.Enabled {
		if err := d.validate(); err != nil {
			return err
		}
	}
	if s := c.Connectors.Slack; s != nil && s.Enabled {
		if err := s.validate(); err != nil {
			return err
		}
	}
	if g := c.Connectors.GitHub; g != nil && g.Enabled {
		if err := g.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (d *GoogleDriveConfig) validate() error {
	const prefix = "connectors.google_drive."
	if strings.TrimSpace(d.CredentialsFile) == "" {
		return NewSchemaError(prefix+"credentials_file", "required when enabled")
	}
	if strings.TrimSpace(d.TokenFile) == "" {
		return NewSchemaError(prefix+"token_file", "required when enabled")
	}
	if len(d.Scopes) == 0 {
		return NewSchemaError(prefix+"scopes", "at least one scope is required")
	}
	if d.MaxResults < 0 {
		return NewSchemaError(prefix+"max_results", "must not be negative, got %d", d.MaxResults)
	}
	return nil
}

func (s *SlackConfig) validate() error {
	const prefix = "connectors.slack."
	if strings.TrimSpace(s.BotTokenEnv) == "" {
		return NewSchemaError(prefix+"bot_token_env", "required when enabled")
	}
	if s.Limit < 0 {
		return NewSchemaError(prefix+"limit", "must not be negative, got %d", s.Limit)
	}
	if s.DaysHistory < 0 {
		return NewSchemaError(prefix+"days_history", "must not be negative, got %d", s.DaysHistory)
	}
	return nil
}

func (g *GitHubConfig) validate() error {
	const prefix = "connectors.github."
	if strings.TrimSpace(g.TokenEnv) == "" {
		return NewSchemaError(prefix+"token_env", "required when enabled")
	}
	for _, repo := range g.Repositories {
		if _, _, ok := SplitRepository(repo); !ok {
			return NewSchemaError(prefix+"repositories", "%q is not in owner/repo form", repo)
		}
	}
	for _, ct := range g.ContentTypes {
		switch strings.ToLower(strings.TrimSpace(ct)) {
		case GitHubContentRepository, GitHubContentReadme, GitHubContentIssues, GitHubContentPRs:
		default:
			return NewSchemaError(prefix+"content_types", "unknown content type %q", ct)
		}
	}
	if g.MaxItems < 0 {
		return NewSchemaError(prefix+"max_items", "must not be negative, got %d", g.MaxItems)
	}
	return nil
}

// SplitRepository splits "owner/repo" into its parts.
func SplitRepository(fullName string) (owner, repo string, ok bool) {
	owner, repo, found := strings.Cut(strings.TrimSpace(fullName), "/")
	if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return owner, repo, true
}
