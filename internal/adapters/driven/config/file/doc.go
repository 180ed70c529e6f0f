// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: the shared configuration document (JSON, TOML or YAML)
//   - TokenStore: the persisted Google Drive user token
package file
