// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// ConnectorService runs the authenticate, fetch and normalise pipeline;
// ConfigService edits the shared configuration file.
package services
