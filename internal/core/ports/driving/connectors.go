package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// ConnectorService runs connectors against the shared configuration.
type ConnectorService interface {
	// Authenticate authenticates the named connectors, or every enabled
	// connector when names is empty. Per-connector failures are reported in
	// the results; the returned error is reserved for configuration problems.
	Authenticate(ctx context.Context, names ...string) ([]AuthResult, error)

	// Fetch authenticates, fetches and normalises the requested connectors.
	Fetch(ctx context.Context, req FetchRequest) (*FetchReport, error)

	// Status reports each connector's enabled and credential state.
	// It performs no network I/O.
	Status(ctx context.Context) (*StatusReport, error)

	// ResetToken deletes a connector's persisted OAuth token so the next
	// Authenticate runs the authorisation flow again.
	ResetToken(ctx context.Context, name string) error
}

// AuthResult is the outcome of authenticating one connector.
type AuthResult struct {
	Connector     string
	Authenticated bool
	Account       *domain.Account
	Err           error
}

// FetchRequest selects connectors for a fetch run.
type FetchRequest struct {
	// Connectors limits the run. Empty means every enabled connector.
	Connectors []string
}

// FetchReport summarises a fetch run.
type FetchReport struct {
	RunID     string
	StartedAt time.Time
	Documents []domain.Document
	Results   []FetchResult
}

// FetchResult is the outcome of one connector within a fetch run.
type FetchResult struct {
	Connector     string
	Authenticated bool
	Documents     int
	Skipped       int
	Duration      time.Duration
	// RateLimited is set when the service throttled the fetch. Documents
	// then counts what was read before the limit was hit.
	RateLimited bool
	Err         error
}

// Failed reports whether any connector in the run failed.
func (r *FetchReport) Failed() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return true
		}
	}
	return false
}

// StatusReport is the offline view printed by "status".
type StatusReport struct {
	ConfigPath string
	Connectors []domain.ConnectorStatus
	// EmbeddingKeyEnv is the embedding API key variable, when configured.
	EmbeddingKeyEnv     string
	EmbeddingKeyPresent bool
}
