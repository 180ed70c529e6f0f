package domain

// Account identifies the principal a connector authenticated as.
type Account struct {
	// Identifier is a login, email or user@team string.
	Identifier string `json:"identifier"`
	// DisplayName is a human-readable name when the service provides one.
	DisplayName string `json:"display_name,omitempty"`
}

// ConnectorStatus is the offline view of a connector used by "status".
type ConnectorStatus struct {
	Name               string `json:"name"`
	Enabled            bool   `json:"enabled"`
	CredentialsPresent bool   `json:"credentials_present"`
	// CredentialSource is "env:NAME" or "file:PATH".
	CredentialSource string `json:"credential_source,omitempty"`
	Detail           string `json:"detail,omitempty"`
}
