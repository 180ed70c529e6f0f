package driven

import (
	"context"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// DocumentSink receives the normalised documents of a fetch run.
type DocumentSink interface {
	Write(ctx context.Context, docs []domain.Document) error
	Close() error
}
