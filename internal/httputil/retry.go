// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the connector transports.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-supplied Retry-After value.
const maxRetryAfter = 2 * time.Minute

const defaultMaxRetries = 5

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests). The wait is the server's Retry-After (in seconds) when present,
// otherwise RetryBaseDelay doubled on every attempt.
//
// When maxRetries is 0 the default (5) is used. The request body, if any,
// must be re-readable through req.GetBody. If the context is cancelled
// during a wait the function returns ctx.Err(). After exhausting retries
// the last 429 response is returned so the caller can report it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, logger *zap.Logger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Info("rate limited, backing off",
			zap.String("url", req.URL.Redacted()),
			zap.Duration("wait", wait),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// backoff returns the wait before the next attempt.
func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		if d > maxRetryAfter {
			d = maxRetryAfter
		}
		return d
	}
	d := RetryBaseDelay << attempt
	if d <= 0 || d > maxRetryAfter || d>>attempt != RetryBaseDelay {
		d = maxRetryAfter
	}
	return d
}
