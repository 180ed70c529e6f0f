package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists indicates the entity being created already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnsupportedType indicates an unknown connector or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Configuration Errors.

	// ErrConfigParse indicates the configuration file is not a valid document.
	ErrConfigParse = errors.New("config parse error")

	// ErrConfigSchema indicates the configuration document is missing a
	// required field or carries an invalid value.
	ErrConfigSchema = errors.New("config schema error")

	// Authentication Errors.

	// ErrAuthRequired indicates the connector requires credentials but none are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the credentials are malformed or were rejected by the service.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrTokenRefreshFailed indicates token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Connector Errors.

	// ErrConnectorDisabled indicates the connector is disabled in configuration.
	ErrConnectorDisabled = errors.New("connector disabled")

	// ErrNotAuthenticated indicates Fetch was called before a successful Authenticate.
	ErrNotAuthenticated = errors.New("connector not authenticated")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ConfigError reports a configuration file that could not be used.
// Kind is ErrConfigParse for undecodable documents and ErrConfigSchema for
// documents that decode but fail validation.
type ConfigError struct {
	Path  string
	Field string
	Kind  error
	Err   error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewParseError builds a ConfigError of kind ErrConfigParse.
func NewParseError(path string, err error) *ConfigError {
	return &ConfigError{Path: path, Kind: ErrConfigParse, Err: err}
}

// NewSchemaError builds a ConfigError of kind ErrConfigSchema for field.
func NewSchemaError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Kind: ErrConfigSchema, Err: fmt.Errorf(format, args...)}
}

// AuthError reports a connector that could not authenticate.
// Reason is ErrAuthRequired when credentials are absent and ErrAuthInvalid
// when they are malformed or rejected.
type AuthError struct {
	Connector string
	Reason    error
	Err       error
}

func (e *AuthError) Error() string {
	msg := e.Connector + ": " + e.Reason.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the reason sentinel and the underlying cause.
func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// NewAuthError builds an AuthError for the named connector.
func NewAuthError(connector string, reason, err error) *AuthError {
	return &AuthError{Connector: connector, Reason: reason, Err: err}
}

// RefreshError reports a persisted OAuth token whose refresh was rejected.
// The operator recovers by deleting TokenFile and authorising again.
type RefreshError struct {
	Connector string
	TokenFile string
	Err       error
}

func (e *RefreshError) Error() string {
	msg := e.Connector + ": " + ErrTokenRefreshFailed.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.TokenFile != "" {
		msg += fmt.Sprintf(" (delete %s and re-authorise)", e.TokenFile)
	}
	return msg
}

// Unwrap exposes ErrTokenRefreshFailed and the underlying cause.
func (e *RefreshError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTokenRefreshFailed}
	}
	return []error{ErrTokenRefreshFailed, e.Err}
}
