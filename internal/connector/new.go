// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connector

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/meeting-actions/pkg/types"
)

// New returns the gateway for the resolved credentials' mode.
func New(creds Credentials, cfg types.ConnectorConfig, client *http.Client, logger *zap.Logger) (Gateway, error) {
	switch creds.Mode {
	case ModeHosted:
		return NewHostedGateway(creds, cfg, client, logger), nil
	case ModeLocal:
		return NewLocalGateway(creds.APIKey, cfg, client, logger), nil
	default:
		return nil, fmt.Errorf("unknown connector mode %q", creds.Mode)
	}
}
