// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// The services here:
//   - IdentityResolver assigns anonymous owner identities
//   - QuoteService fetches quotes from the source and saves them
//   - Persister writes fetched quotes in the background
//   - HistoryService reads an owner's recent quotes
//
// HTTP specifics belong in the adapters, and queries belong in the store.
package app
