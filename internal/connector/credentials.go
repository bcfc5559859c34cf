// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connector

// Mode selects how the gateway authenticates and which API it talks to.
type Mode string

const (
	// ModeHosted executes connector actions through the hosted API using an
	// organization-level client ID and secret.
	ModeHosted Mode = "hosted"

	// ModeLocal calls the notes service directly with a personal API key.
	ModeLocal Mode = "local"
)

// Credentials is the resolved authentication for one run. It is built once
// at startup and handed to New.
type Credentials struct {
	Mode Mode

	// Hosted mode.
	ClientID     string
	ClientSecret string
	CustomerName string

	// Local mode.
	APIKey string
}

// ResolveCredentials picks the connector mode from the raw values. Hosted
// mode wins when both a client ID and secret are present; local mode needs
// an API key. With neither, it returns ErrNoCredentials.
func ResolveCredentials(raw Credentials) (Credentials, error) {
	if raw.ClientID != "" && raw.ClientSecret != "" {
		return Credentials{
			Mode:         ModeHosted,
			ClientID:     raw.ClientID,
			ClientSecret: raw.ClientSecret,
			CustomerName: raw.CustomerName,
		}, nil
	}
	if raw.APIKey != "" {
		return Credentials{Mode: ModeLocal, APIKey: raw.APIKey}, nil
	}
	return Credentials{}, ErrNoCredentials
}
