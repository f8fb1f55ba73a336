package remotepkg

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cmeister2/remote-package/internal/netutil"
)

// FromURL downloads just enough of the package at url to identify it and
// read its metadata. The response body is the byte source for Identify; it
// is closed before FromURL returns, so the returned package must not go back
// to the network, and by construction it never does.
//
// The whole call is synchronous and may block for the duration of the
// transfer. Callers on a cooperative scheduler should run it on its own
// goroutine. Transient connect errors and 5xx responses are retried inside
// the transport layer before any body bytes are consumed; Identify itself
// never retries.
func FromURL(ctx context.Context, url string, enabled ...Type) (RemotePackage, error) {
	client := netutil.NewClient(0)
	return fetch(ctx, client, url, enabled...)
}

// FromURLWithClient is FromURL with a caller-supplied HTTP client, for
// callers that need their own transport, proxy or timeout policy.
func FromURLWithClient(ctx context.Context, client *http.Client, url string, enabled ...Type) (RemotePackage, error) {
	return fetch(ctx, client, url, enabled...)
}

func fetch(ctx context.Context, client *http.Client, url string, enabled ...Type) (RemotePackage, error) {
	resp, err := netutil.Get(ctx, client, url, netutil.DefaultAttempts)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	return Identify(resp.Body, enabled...)
}
