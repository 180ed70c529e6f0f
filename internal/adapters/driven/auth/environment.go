package auth

import (
	"os"

	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

var (
	_ driven.Environment = OSEnvironment{}
	_ driven.Environment = MapEnvironment{}
)

// OSEnvironment reads the process environment.
type OSEnvironment struct{}

// LookupEnv wraps os.LookupEnv.
func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironment is a fixed environment, used in tests and dry runs.
type MapEnvironment map[string]string

// LookupEnv returns the value stored under key.
func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
