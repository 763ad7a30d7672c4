// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrConfiguration indicates the service cannot start with the given configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrStoreUnavailable indicates the quote store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSourceUnavailable indicates the quote source could not be reached at all.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrRateLimited indicates the quote source rejected the call with HTTP 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrSourceFailure indicates the quote source answered with a non-success status.
	ErrSourceFailure = errors.New("source error")

	// ErrMissingParameter indicates the caller omitted a required input.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrPersistFailure indicates a quote record could not be written.
	// It is reported alongside a successful fetch, never instead of it.
	ErrPersistFailure = errors.New("persist failure")
)

// ConfigurationError lists the problems found while validating configuration.
type ConfigurationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid configuration"
	}

	return "invalid configuration:\n  " + strings.Join(e.Problems, "\n  ")
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigurationError creates a configuration error from a list of problems.
func NewConfigurationError(problems ...string) error {
	return &ConfigurationError{Problems: problems}
}

// StoreUnavailableError wraps the cause of a failed store acquisition or operation.
type StoreUnavailableError struct {
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *StoreUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store unavailable during %s: %v", e.Operation, e.Err)
	}

	return fmt.Sprintf("store unavailable during %s", e.Operation)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *StoreUnavailableError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

// NewStoreUnavailableError creates a store unavailable error.
func NewStoreUnavailableError(operation string, err error) error {
	return &StoreUnavailableError{Operation: operation, Err: err}
}

// SourceUnavailableError indicates no response was received from the quote source.
type SourceUnavailableError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *SourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %q unavailable: %v", e.Source, e.Err)
	}

	return fmt.Sprintf("source %q unavailable", e.Source)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *SourceUnavailableError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}

// NewSourceUnavailableError creates a source unavailable error.
func NewSourceUnavailableError(source string, err error) error {
	return &SourceUnavailableError{Source: source, Err: err}
}

// RateLimitedError indicates the quote source asked the caller to slow down.
type RateLimitedError struct {
	Source string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("source %q rate limit exceeded", e.Source)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

// NewRateLimitedError creates a rate limited error.
func NewRateLimitedError(source string) error {
	return &RateLimitedError{Source: source}
}

// SourceError carries the non-success HTTP status returned by the quote source.
type SourceError struct {
	Source string
	Status int
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q returned HTTP %d", e.Source, e.Status)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *SourceError) Unwrap() error {
	return ErrSourceFailure
}

// NewSourceError creates a source error for the given status.
func NewSourceError(source string, status int) error {
	return &SourceError{Source: source, Status: status}
}

// MissingParameterError names the required input the caller left out.
type MissingParameterError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing %s parameter", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *MissingParameterError) Unwrap() error {
	return ErrMissingParameter
}

// NewMissingParameterError creates a missing parameter error.
func NewMissingParameterError(name string) error {
	return &MissingParameterError{Name: name}
}

// PersistError records a failed background write of a quote record.
type PersistError struct {
	OwnerID string
	Err     error
}

// Error implements the error interface.
func (e *PersistError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quote for owner %q was not saved: %v", e.OwnerID, e.Err)
	}

	return fmt.Sprintf("quote for owner %q was not saved", e.OwnerID)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *PersistError) Unwrap() []error {
	return []error{ErrPersistFailure, e.Err}
}

// NewPersistError creates a persist failure.
func NewPersistError(ownerID string, err error) error {
	return &PersistError{OwnerID: ownerID, Err: err}
}

// IsConfiguration checks if an error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsStoreUnavailable checks if an error is a store unavailable error.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsSourceUnavailable checks if an error is a source unavailable error.
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsRateLimited checks if an error is a rate limited error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsSourceFailure checks if an error is a non-success source response.
func IsSourceFailure(err error) bool {
	return errors.Is(err, ErrSourceFailure)
}

// IsMissingParameter checks if an error is a missing parameter error.
func IsMissingParameter(err error) bool {
	return errors.Is(err, ErrMissingParameter)
}

// IsPersistFailure checks if an error is a persist failure.
func IsPersistFailure(err error) bool {
	return errors.Is(err, ErrPersistFailure)
}
