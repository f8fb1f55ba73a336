// Package netutil provides the HTTP client used to reach package mirrors.
// Retry policy lives here, on the transport side, so the identification core
// stays single-shot.
package netutil

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultAttempts is the number of times a GET is tried before giving up on
// transient failures.
const DefaultAttempts = 3

const backoffStart = 500 * time.Millisecond

// NewClient returns an http.Client configured for mirror traffic: TLS 1.2 at
// minimum and HTTP/2 where the server offers it. A zero timeout means no
// client-side deadline; cancellation then comes from the request context.
func NewClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		ForceAttemptHTTP2: true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// Get fetches url, retrying connection errors and 5xx responses up to
// attempts times with doubling backoff. Retries only happen before any body
// bytes have been handed to the caller; once Get returns a response, the
// caller owns its open body. Non-200 statuses outside the 5xx range fail
// immediately.
func Get(ctx context.Context, client *http.Client, url string, attempts int) (*http.Response, error) {
	if attempts < 1 {
		attempts = 1
	}
	delay := backoffStart

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("building request for %s: %w", url, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil
		case resp.StatusCode >= 500:
			drain(resp)
			lastErr = fmt.Errorf("GET %s: bad status: %s", url, resp.Status)
			continue
		default:
			drain(resp)
			return nil, fmt.Errorf("GET %s: bad status: %s", url, resp.Status)
		}
	}
	return nil, fmt.Errorf("GET %s failed after %d attempts: %w", url, attempts, lastErr)
}

// drain discards a little of the body before closing so the connection can be
// reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
