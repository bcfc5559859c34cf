// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/meeting-actions/internal/httputil"
	"github.com/pdiddy/meeting-actions/pkg/types"
)

const (
	defaultTimeout           = 60 * time.Second
	defaultRequestsPerSecond = 5
	defaultUserAgent         = "meeting-actions/dev"

	// maxErrorBody bounds how much of an error response is kept for messages.
	maxErrorBody = 512
)

// transport is the HTTP plumbing shared by both gateway modes: rate
// limiting, 429 backoff, and JSON decoding.
type transport struct {
	client     *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	logger     *zap.Logger
}

func newTransport(client *http.Client, cfg types.ConnectorConfig, logger *zap.Logger) *transport {
	if client.Timeout == 0 {
		client.Timeout = cfg.Timeout
		if client.Timeout == 0 {
			client.Timeout = defaultTimeout
		}
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &transport{
		client:     client,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		userAgent:  ua,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

// do sends req and decodes a 200 response body into out. Any other status
// is returned as a *StatusError.
func (t *transport) do(ctx context.Context, req *http.Request, out any) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, t.client, req, t.maxRetries, t.logger)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}
