// Package clients provides HTTP client adapters for downstream services.
package clients

import "errors"

// Infrastructure errors from the client layer. The ACL translates them into
// domain errors; nothing above the adapters should see them.
var (
	// ErrCircuitOpen means the call was rejected without reaching the upstream.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRequestFailed wraps a transport failure: DNS, connect, TLS or timeout.
	ErrRequestFailed = errors.New("request failed")
)
