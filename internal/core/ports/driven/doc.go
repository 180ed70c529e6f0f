// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Connector: Authenticates and fetches from an external source
//   - ConnectorFactory: Creates connectors from configuration
//   - TokenProvider: Resolves a connector's credential
//   - TokenStore: Persists OAuth user tokens
//   - ConfigStore: Shared configuration document
//   - Normaliser / NormaliserRegistry: RawDocument to Document
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MetricsRecorder: Pipeline measurements
//   - DocumentSink: Export of normalised documents
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
