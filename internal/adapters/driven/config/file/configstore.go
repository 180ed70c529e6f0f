package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// errEmptyDocument is the parse cause for a file holding only whitespace.
var errEmptyDocument = errors.New("empty document")

// DefaultPath is used when no --config flag or MEMORYBOX_CONFIG is given.
const DefaultPath = "config.json"

// Format identifies the encoding of a config file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from the file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ConfigStore is a file-based implementation of driven.ConfigStore.
// The document is JSON by default; .toml and .yaml files are also accepted.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
	format   Format
}

// NewConfigStore creates a config store for path.
// If path is empty, DefaultPath in the working directory is used.
func NewConfigStore(path string) *ConfigStore {
	if path == "" {
		path = DefaultPath
	}
	return &ConfigStore{filePath: path, format: FormatFromPath(path)}
}

// Load reads, decodes and validates the configuration file.
func (s *ConfigStore) Load() (*domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s: %w", s.filePath, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read config %s: %w", s.filePath, err)
	}

	cfg, err := s.decode(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = s.filePath
		}
		return nil, err
	}
	return cfg, nil
}

func (s *ConfigStore) decode(data []byte) (*domain.Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domain.NewParseError(s.filePath, errEmptyDocument)
	}

	var cfg domain.Config
	switch s.format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			var decErr *toml.DecodeError
			if errors.As(err, &decErr) {
				row, col := decErr.Position()
				return nil, domain.NewParseError(s.filePath, fmt.Errorf("line %d column %d: %w", row, col, err))
			}
			return nil, domain.NewParseError(s.filePath, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			var typeErr *yaml.TypeError
			if errors.As(err, &typeErr) {
				return nil, &domain.ConfigError{Path: s.filePath, Kind: domain.ErrConfigSchema, Err: err}
			}
			return nil, domain.NewParseError(s.filePath, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, s.jsonError(data, err)
		}
	}
	return &cfg, nil
}

// jsonError separates syntax problems from values of the wrong type.
func (s *ConfigStore) jsonError(data []byte, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line := 1 + bytes.Count(data[:min(int(syntaxErr.Offset), len(data))], []byte("\n"))
		return domain.NewParseError(s.filePath, fmt.Errorf("line %d: %w", line, err))
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &domain.ConfigError{
			Path:  s.filePath,
			Field: typeErr.Field,
			Kind:  domain.ErrConfigSchema,
			Err:   fmt.Errorf("expected %s, got %s", typeErr.Type, typeErr.Value),
		}
	}
	return domain.NewParseError(s.filePath, err)
}

// Save encodes cfg in the store's format and replaces the file atomically.
// The file is written with 0600 permissions.
func (s *ConfigStore) Save(cfg *domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.encode(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return writeFileAtomic(s.filePath, data, 0600)
}

func (s *ConfigStore) encode(cfg *domain.Config) ([]byte, error) {
	switch s.format {
	case FormatTOML:
		return toml.Marshal(cfg)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Exists reports whether the configuration file exists.
func (s *ConfigStore) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
