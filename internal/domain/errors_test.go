package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrConfiguration,
		ErrStoreUnavailable,
		ErrSourceUnavailable,
		ErrRateLimited,
		ErrSourceFailure,
		ErrMissingParameter,
		ErrPersistFailure,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name        string
		problems    []string
		expectedMsg string
	}{
		{
			name:        "no problems",
			expectedMsg: "invalid configuration",
		},
		{
			name:        "single problem",
			problems:    []string{"store.uri is required"},
			expectedMsg: "invalid configuration:\n  store.uri is required",
		},
		{
			name:        "multiple problems",
			problems:    []string{"store.uri is required", "server.port must be at least 1"},
			expectedMsg: "invalid configuration:\n  store.uri is required\n  server.port must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigurationError(tt.problems...)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrConfiguration)
			assert.True(t, IsConfiguration(err))

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.problems, cfgErr.Problems)
		})
	}
}

func TestStoreUnavailableError(t *testing.T) {
	cause := errors.New("server selection timeout")

	err := NewStoreUnavailableError("connect", cause)

	assert.Equal(t, "store unavailable during connect: server selection timeout", err.Error())
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.ErrorIs(t, err, cause)
	assert.True(t, IsStoreUnavailable(err))

	var storeErr *StoreUnavailableError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "connect", storeErr.Operation)
}

func TestStoreUnavailableError_NilCause(t *testing.T) {
	err := NewStoreUnavailableError("insert", nil)

	assert.Equal(t, "store unavailable during insert", err.Error())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestSourceUnavailableError(t *testing.T) {
	tests := []struct {
		name        string
		cause       error
		expectedMsg string
	}{
		{
			name:        "with cause",
			cause:       errors.New("connection refused"),
			expectedMsg: `source "animechan" unavailable: connection refused`,
		},
		{
			name:        "without cause",
			expectedMsg: `source "animechan" unavailable`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSourceUnavailableError("animechan", tt.cause)

			assert.Equal(t, tt.expectedMsg, err.Error())
			assert.True(t, IsSourceUnavailable(err))
			assert.False(t, IsRateLimited(err))
			assert.False(t, IsSourceFailure(err))
		})
	}
}

func TestRateLimitedError(t *testing.T) {
	err := NewRateLimitedError("animechan")

	assert.Equal(t, `source "animechan" rate limit exceeded`, err.Error())
	require.ErrorIs(t, err, ErrRateLimited)
	assert.False(t, IsSourceFailure(err))
	assert.False(t, IsSourceUnavailable(err))
}

func TestSourceError(t *testing.T) {
	err := NewSourceError("animechan", 503)

	assert.Equal(t, `source "animechan" returned HTTP 503`, err.Error())
	require.ErrorIs(t, err, ErrSourceFailure)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, 503, srcErr.Status)
}

func TestMissingParameterError(t *testing.T) {
	err := NewMissingParameterError("owner")

	assert.Equal(t, "missing owner parameter", err.Error())
	require.ErrorIs(t, err, ErrMissingParameter)

	var missing *MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "owner", missing.Name)
}

func TestPersistError(t *testing.T) {
	cause := NewStoreUnavailableError("insert", errors.New("write concern"))

	err := NewPersistError("U1", cause)

	assert.True(t, IsPersistFailure(err))
	assert.True(t, IsStoreUnavailable(err), "cause chain should stay visible")
	assert.Contains(t, err.Error(), `owner "U1"`)
}

func TestIsHelpers_ThroughWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"configuration", NewConfigurationError("x"), IsConfiguration},
		{"store unavailable", NewStoreUnavailableError("find", nil), IsStoreUnavailable},
		{"source unavailable", NewSourceUnavailableError("s", nil), IsSourceUnavailable},
		{"rate limited", NewRateLimitedError("s"), IsRateLimited},
		{"source failure", NewSourceError("s", 500), IsSourceFailure},
		{"missing parameter", NewMissingParameterError("quoteData"), IsMissingParameter},
		{"persist failure", NewPersistError("o", nil), IsPersistFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("layer two: %w", fmt.Errorf("layer one: %w", tt.err))

			assert.True(t, tt.check(wrapped))
		})
	}
}

func TestIsHelpers_NilAndUnrelated(t *testing.T) {
	checks := []func(error) bool{
		IsConfiguration,
		IsStoreUnavailable,
		IsSourceUnavailable,
		IsRateLimited,
		IsSourceFailure,
		IsMissingParameter,
		IsPersistFailure,
	}

	for _, check := range checks {
		assert.False(t, check(nil))
		assert.False(t, check(errors.New("unrelated")))
	}
}
