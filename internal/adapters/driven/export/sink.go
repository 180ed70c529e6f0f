// Package export writes normalised documents to a file or stream.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.DocumentSink = (*Sink)(nil)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("sink closed")

// Format selects the output encoding.
type Format string

const (
	// FormatJSON writes one indented JSON array when the sink is closed.
	FormatJSON Format = "json"
	// FormatJSONL writes one document per line as it arrives.
	FormatJSONL Format = "jsonl"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONL:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("output format %q: %w", s, domain.ErrInvalidInput)
	}
}

// Sink encodes documents to a writer.
type Sink struct {
	mu      sync.Mutex
	w       io.Writer
	closer  io.Closer
	format  Format
	pending []domain.Document
	closed  bool
}

// NewSink creates a sink writing to w. The caller keeps ownership of w.
func NewSink(w io.Writer, format Format) *Sink {
	return &Sink{w: w, format: format}
}

// OpenFile creates a sink writing to path, truncating it.
// An empty path or "-" writes to stdout.
func OpenFile(path string, format Format) (*Sink, error) {
	if path == "" || path == "-" {
		return NewSink(os.Stdout, format), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	s := NewSink(f, format)
	s.closer = f
	return s, nil
}

// Write queues docs, or encodes them immediately in JSONL mode.
func (s *Sink) Write(ctx context.Context, docs []domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.format != FormatJSONL {
		s.pending = append(s.pending, docs...)
		return nil
	}

	enc := json.NewEncoder(s.w)
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(&docs[i]); err != nil {
			return fmt.Errorf("encode document %s: %w", docs[i].ID, err)
		}
	}
	return nil
}

// Close flushes pending JSON output and closes an owned file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.format != FormatJSONL {
		docs := s.pending
		if docs == nil {
			docs = []domain.Document{}
		}
		enc := json.NewEncoder(s.w)
		enc.SetIndent("", "  ")
		if err = enc.Encode(docs); err != nil {
			err = fmt.Errorf("encode documents: %w", err)
		}
		s.pending = nil
	}

	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}
	return err
}
