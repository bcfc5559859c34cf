// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package exitcode defines the process exit statuses of the CLI.
package exitcode

import (
	"errors"

	"github.com/pdiddy/meeting-actions/internal/connector"
)

const (
	// Success covers runs that found no notes or no action items too.
	Success = 0

	// Failure is any runtime failure: network, pagination, validation.
	Failure = 1

	// ConfigError means credentials or configuration are missing or invalid.
	ConfigError = 2
)

// ErrConfig marks configuration errors detected by the CLI itself.
var ErrConfig = errors.New("configuration error")

// For maps an error returned by a command to an exit status.
func For(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, connector.ErrNoCredentials), errors.Is(err, ErrConfig):
		return ConfigError
	default:
		return Failure
	}
}
