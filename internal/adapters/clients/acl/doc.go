// Package acl is the anti-corruption layer between the service and the
// AnimeChan quote API.
//
// Upstream responses never leave this package in their wire shape. A quote
// becomes a [domain.QuotePayload] and every failure becomes one of the
// domain source errors:
//
//   - no response (transport failure, timeout, open circuit): [domain.ErrSourceUnavailable]
//   - HTTP 429: [domain.ErrRateLimited]
//   - any other non-2xx status: [domain.ErrSourceFailure] carrying the status
//
// [BaseAdapter] holds the request and classification plumbing so that an
// additional source can be added with only its own DTOs and paths.
package acl
