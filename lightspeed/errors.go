package lightspeed

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/suitsync/pos-gateway/internal/metrics"
)

// CodePrefix namespaces every error code owned by this package. Anything
// outside the namespace is a foreign error and must be passed through
// untouched by boundary code.
const CodePrefix = "LIGHTSPEED_"

const (
	CodeAuthFailed       = CodePrefix + "AUTH_FAILED"
	CodePermissionDenied = CodePrefix + "PERMISSION_DENIED"
	CodeNotFound         = CodePrefix + "RESOURCE_NOT_FOUND"
	CodeValidation       = CodePrefix + "VALIDATION_ERROR"
	CodeRateLimited      = CodePrefix + "RATE_LIMITED"
	CodeServiceError     = CodePrefix + "SERVICE_ERROR"
	CodeAPIError         = CodePrefix + "API_ERROR"
	CodeNetworkError     = CodePrefix + "NETWORK_ERROR"
)

// DefaultRetryAfter is used when a 429 response carries no Retry-After header.
const DefaultRetryAfter = "60"

// Error is a classified failure from the Lightspeed API. The header value of
// Retry-After is carried verbatim as a string, not parsed.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Details    any    `json:"details,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	RetryAfter string `json:"retryAfter,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.StatusCode)
}

// Owned reports whether an error code belongs to this package's namespace.
func Owned(code string) bool {
	return strings.HasPrefix(code, CodePrefix)
}

// NewError builds a tagged error. suffix is the bare tag ("AUTH_FAILED"),
// which gets namespaced. A statusCode of 0 defaults to 500.
func NewError(suffix, message string, statusCode int) *Error {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	return &Error{
		Code:       CodePrefix + suffix,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails attaches an opaque diagnostic payload.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// WithEndpoint attaches the API endpoint the failure came from.
func (e *Error) WithEndpoint(endpoint string) *Error {
	e.Endpoint = endpoint
	return e
}

// Classify normalizes a transport-level failure into the owned taxonomy.
// Already-tagged errors pass through unchanged, so wrapping a call twice is
// harmless. Anything else is a network failure: the HTTP round trip never
// produced a response we could map by status.
func Classify(err error, endpoint string) *Error {
	var lsErr *Error
	if errors.As(err, &lsErr) {
		return lsErr
	}

	// Token-endpoint rejections arrive as *oauth2.RetrieveError and carry a
	// real HTTP response, so they map by status like any other API failure.
	// A 400 here is invalid_grant, a dead refresh token; only a fresh OAuth
	// run can repair it, so it classifies as an authentication failure.
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		status := retrieveErr.Response.StatusCode
		if status == http.StatusBadRequest || status == http.StatusUnauthorized {
			classified := NewError("AUTH_FAILED", "Lightspeed rejected the stored credential", http.StatusUnauthorized).
				WithDetails(tokenEndpointDetails(retrieveErr)).
				WithEndpoint(endpoint)
			logClassified(classified)
			return classified
		}
		return ClassifyResponse(status, retrieveErr.ErrorDescription, tokenEndpointDetails(retrieveErr),
			retrieveErr.Response.Header.Get("Retry-After"), endpoint)
	}

	classified := &Error{
		Code:       CodeNetworkError,
		Message:    "Unable to reach Lightspeed",
		StatusCode: http.StatusInternalServerError,
		Details:    err.Error(),
		Endpoint:   endpoint,
	}
	logClassified(classified)
	return classified
}

// ClassifyResponse maps a non-2xx Lightspeed response onto the owned
// taxonomy. message and details come from the decoded response body and may
// be empty; retryAfter is the raw Retry-After header value.
func ClassifyResponse(statusCode int, message string, details any, retryAfter, endpoint string) *Error {
	classified := &Error{
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
		Endpoint:   endpoint,
	}

	switch statusCode {
	case http.StatusUnauthorized:
		classified.Code = CodeAuthFailed
		if classified.Message == "" {
			classified.Message = "Lightspeed authentication failed"
		}
	case http.StatusForbidden:
		classified.Code = CodePermissionDenied
		if classified.Message == "" {
			classified.Message = "Insufficient permissions for this Lightspeed resource"
		}
	case http.StatusNotFound:
		classified.Code = CodeNotFound
		if classified.Message == "" {
			classified.Message = "Lightspeed resource not found"
		}
	case http.StatusUnprocessableEntity:
		classified.Code = CodeValidation
		if classified.Message == "" {
			classified.Message = "Lightspeed rejected the request payload"
		}
	case http.StatusTooManyRequests:
		classified.Code = CodeRateLimited
		if classified.Message == "" {
			classified.Message = "Lightspeed rate limit exceeded"
		}
		classified.RetryAfter = retryAfter
		if classified.RetryAfter == "" {
			classified.RetryAfter = DefaultRetryAfter
		}
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		classified.Code = CodeServiceError
		if classified.Message == "" {
			classified.Message = "Lightspeed service error"
		}
	default:
		classified.Code = CodeAPIError
		if classified.Message == "" {
			classified.Message = "Unexpected Lightspeed API error"
		}
	}

	logClassified(classified)
	return classified
}

// tokenEndpointDetails extracts the most useful diagnostic from a token
// endpoint rejection: the RFC 6749 error code when present, the raw body
// otherwise.
func tokenEndpointDetails(err *oauth2.RetrieveError) string {
	if err.ErrorCode != "" {
		return err.ErrorCode
	}
	return string(err.Body)
}

func logClassified(e *Error) {
	metrics.APIErrors.WithLabelValues(strings.TrimPrefix(e.Code, CodePrefix)).Inc()
	log.Error().
		Str("code", e.Code).
		Str("endpoint", e.Endpoint).
		Int("status", e.StatusCode).
		Interface("details", e.Details).
		Msg(e.Message)
}
