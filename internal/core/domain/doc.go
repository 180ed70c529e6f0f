// Package domain defines the core business entities for memorybox.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Config: The shared connector configuration document
//   - RawDocument: Opaque bytes from a connector
//   - Document: A normalised record ready for export
//   - ConfigError, AuthError, RefreshError: The error taxonomy
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
