// Package connectors provides implementations of the Connector interface
// for the supported document sources. Each connector knows how to
// authenticate against and fetch from one external service:
//
//   - slack: channel messages and thread replies
//   - github: repositories, READMEs, issues and pull requests
//   - google/drive: Drive files with their text content
//
// Connectors are registered with the Factory at startup. The Factory builds
// only enabled connectors, each with its own token provider.
package connectors
