package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Circuit Breaker Tests

func TestCircuitBreaker_ClosedAllowsRequests(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	for i := 0; i < 10; i++ {
		assert.NoError(t, cb.Allow())
		cb.Report(true)
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	for i := 0; i < 3; i++ {
		require.NoError(t, cb.Allow())
		cb.Report(false)
	}

	assert.ErrorIs(t, cb.Allow(), ErrBreakerOpen)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	cb.Report(false)
	cb.Report(false)
	cb.Report(true)
	cb.Report(false)
	cb.Report(false)

	assert.NoError(t, cb.Allow())
}

func TestCircuitBreaker_HalfOpenTrialRecovers(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)

	require.NoError(t, cb.Allow())
	cb.Report(false)
	assert.ErrorIs(t, cb.Allow(), ErrBreakerOpen)

	time.Sleep(20 * time.Millisecond)

	// One trial request passes, a second is rejected until it reports.
	assert.NoError(t, cb.Allow())
	assert.ErrorIs(t, cb.Allow(), ErrBreakerOpen)

	cb.Report(true)
	assert.NoError(t, cb.Allow())
}

func TestCircuitBreaker_FailedTrialReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)

	require.NoError(t, cb.Allow())
	cb.Report(false)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, cb.Allow())
	cb.Report(false)

	assert.ErrorIs(t, cb.Allow(), ErrBreakerOpen)
}

// Random Code Tests

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(4)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	assert.Regexp(t, "^[0-9A-F]+$", code)
}

func TestGenerateCode_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode(8)
		require.NoError(t, err)
		assert.False(t, seen[code])
		seen[code] = true
	}
}
