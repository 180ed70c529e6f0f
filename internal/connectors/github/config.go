package github

import (
	"fmt"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// Repo is an "owner/repo" pair from configuration.
type Repo struct {
	Owner string
	Name  string
}

// FullName returns "owner/repo".
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// Config holds the parsed configuration for the GitHub connector.
type Config struct {
	Repositories []Repo

	IncludeRepository bool
	IncludeReadme     bool
	IncludeIssues     bool
	IncludePRs        bool

	// MaxItems is the page size of the single issues request.
	MaxItems int
}

// MaxPerPage is the largest page size the GitHub API accepts.
const MaxPerPage = 100

// ParseConfig converts the configuration entry into a Config.
func ParseConfig(entry *domain.GitHubConfig) (*Config, error) {
	if entry == nil {
		return nil, fmt.Errorf("github: %w", domain.ErrNotFound)
	}

	cfg := &Config{
		IncludeRepository: entry.WantsContent(domain.GitHubContentRepository),
		IncludeReadme:     entry.WantsContent(domain.GitHubContentReadme),
		IncludeIssues:     entry.WantsContent(domain.GitHubContentIssues),
		IncludePRs:        entry.WantsContent(domain.GitHubContentPRs),
		MaxItems:          min(entry.MaxItemsOrDefault(), MaxPerPage),
	}

	for _, full := range entry.Repositories {
		owner, name, ok := domain.SplitRepository(full)
		if !ok {
			return nil, domain.NewSchemaError("connectors.github.repositories", "%q is not in owner/repo form", full)
		}
		cfg.Repositories = append(cfg.Repositories, Repo{Owner: owner, Name: name})
	}
	return cfg, nil
}
