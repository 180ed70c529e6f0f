package drive

import (
	"fmt"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// MaxPageSize is the largest page size requested from files.list.
const MaxPageSize = 100

// Config holds Google Drive connector configuration.
type Config struct {
	// Scopes are the OAuth scopes requested during authorisation.
	Scopes []string
	// FolderName limits listing to the first folder with this name (optional).
	FolderName string
	// MimeTypeFilter limits listing to specific MIME types (optional).
	MimeTypeFilter []string
	// MaxResults caps the number of files returned.
	MaxResults int
}

// ParseConfig converts the configuration entry into a Config.
func ParseConfig(entry *domain.GoogleDriveConfig) (*Config, error) {
	if entry == nil {
		return nil, fmt.Errorf("google_drive: %w", domain.ErrNotFound)
	}

	scopes := entry.Scopes
	if len(scopes) == 0 {
		scopes = []string{domain.DriveReadonlyScope}
	}

	return &Config{
		Scopes:         append([]string(nil), scopes...),
		FolderName:     entry.FolderName,
		MimeTypeFilter: append([]string(nil), entry.FileTypes...),
		MaxResults:     entry.MaxResultsOrDefault(),
	}, nil
}

// PageSize returns the files.list page size for the remaining file budget.
func (c *Config) PageSize(remaining int) int64 {
	return int64(max(1, min(remaining, MaxPageSize)))
}
