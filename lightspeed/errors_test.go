package lightspeed_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suitsync/pos-gateway/lightspeed"
)

func TestClassifyResponseStatusTable(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{401, lightspeed.CodeAuthFailed},
		{403, lightspeed.CodePermissionDenied},
		{404, lightspeed.CodeNotFound},
		{422, lightspeed.CodeValidation},
		{429, lightspeed.CodeRateLimited},
		{500, lightspeed.CodeServiceError},
		{502, lightspeed.CodeServiceError},
		{503, lightspeed.CodeServiceError},
		{504, lightspeed.CodeServiceError},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			classified := lightspeed.ClassifyResponse(tc.status, "", nil, "", "/2.0/customers")
			require.Equal(t, tc.wantCode, classified.Code)
			require.Equal(t, tc.status, classified.StatusCode)
			require.Equal(t, "/2.0/customers", classified.Endpoint)
			require.NotEmpty(t, classified.Message)
		})
	}
}

func TestClassifyResponseUnknownStatusIsAPIError(t *testing.T) {
	for _, status := range []int{400, 409, 418, 451} {
		classified := lightspeed.ClassifyResponse(status, "", nil, "", "/2.0/sales")
		require.Equal(t, lightspeed.CodeAPIError, classified.Code)
		require.Equal(t, status, classified.StatusCode, "original status must be preserved")
	}
}

func TestClassifyResponseKeepsUpstreamMessage(t *testing.T) {
	classified := lightspeed.ClassifyResponse(422, "first name is required", map[string]any{"field": "first_name"}, "", "/2.0/customers")
	require.Equal(t, "first name is required", classified.Message)
	require.Equal(t, map[string]any{"field": "first_name"}, classified.Details)
}

func TestClassifyResponseRetryAfter(t *testing.T) {
	t.Run("defaults to 60 when header absent", func(t *testing.T) {
		classified := lightspeed.ClassifyResponse(429, "", nil, "", "")
		require.Equal(t, "60", classified.RetryAfter)
	})

	t.Run("passes header value through verbatim", func(t *testing.T) {
		classified := lightspeed.ClassifyResponse(429, "", nil, "120", "")
		require.Equal(t, "120", classified.RetryAfter)
	})

	t.Run("only rate limiting carries retryAfter", func(t *testing.T) {
		classified := lightspeed.ClassifyResponse(503, "", nil, "120", "")
		require.Empty(t, classified.RetryAfter)
	})
}

func TestClassifyIsIdempotent(t *testing.T) {
	original := lightspeed.NewError("RATE_LIMITED", "slow down", 429)
	reclassified := lightspeed.Classify(original, "/2.0/customers")
	require.Same(t, original, reclassified)

	// Tagged errors survive wrapping too
	wrapped := fmt.Errorf("fetch customers: %w", original)
	require.Same(t, original, lightspeed.Classify(wrapped, "/2.0/customers"))
}

func TestClassifyNetworkFailure(t *testing.T) {
	classified := lightspeed.Classify(errors.New("dial tcp: connection refused"), "/2.0/user")
	require.Equal(t, lightspeed.CodeNetworkError, classified.Code)
	require.Equal(t, 500, classified.StatusCode)
	require.Equal(t, "/2.0/user", classified.Endpoint)
	require.Contains(t, classified.Details, "connection refused")
}

func TestNewErrorDefaultsStatus(t *testing.T) {
	err := lightspeed.NewError("API_ERROR", "boom", 0)
	require.Equal(t, 500, err.StatusCode)
	require.Equal(t, lightspeed.CodeAPIError, err.Code)
}

func TestOwned(t *testing.T) {
	require.True(t, lightspeed.Owned(lightspeed.CodeAuthFailed))
	require.False(t, lightspeed.Owned("AUTH_FAILED"))
	require.False(t, lightspeed.Owned("PRISMA_ERROR"))
}
