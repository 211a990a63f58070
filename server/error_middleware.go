package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/suitsync/pos-gateway/lightspeed"
)

// apiHandler is a route handler that reports failures by returning an error
// instead of writing its own error responses. The API adapter owns the
// translation to the wire.
type apiHandler func(http.ResponseWriter, *http.Request) error

// API adapts an apiHandler into http.HandlerFunc, routing returned errors
// through WriteError. Errors outside the Lightspeed namespace fall through
// to the generic 500 writer; this boundary never converts foreign errors.
func (s *Server) API(h apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		if WriteError(w, err) {
			return
		}
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error in API handler")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// WriteError translates a classified Lightspeed error into the stable wire
// format the frontend depends on. For anything outside the owned namespace
// it returns false without touching the ResponseWriter, so the caller can
// hand the error to the next handler in the chain. Every owned tag maps to
// exactly one status/body shape; nothing falls through to a different
// branch.
func WriteError(w http.ResponseWriter, err error) bool {
	var lsErr *lightspeed.Error
	if !errors.As(err, &lsErr) {
		return false
	}

	log.Error().
		Str("code", lsErr.Code).
		Int("status", lsErr.StatusCode).
		Str("endpoint", lsErr.Endpoint).
		Msg(lsErr.Message)

	var status int
	var body map[string]any

	switch lsErr.Code {
	case lightspeed.CodeAuthFailed:
		status = http.StatusUnauthorized
		body = map[string]any{
			"error":      "Authentication failed",
			"message":    lsErr.Message,
			"code":       "AUTH_REQUIRED",
			"redirectTo": RouteAuthStart,
		}
	case lightspeed.CodePermissionDenied:
		status = http.StatusForbidden
		body = map[string]any{
			"error":   "Permission denied",
			"message": lsErr.Message,
			"code":    "PERMISSION_DENIED",
			"details": lsErr.Details,
		}
	case lightspeed.CodeNotFound:
		status = http.StatusNotFound
		body = map[string]any{
			"error":    "Resource not found",
			"message":  lsErr.Message,
			"code":     "RESOURCE_NOT_FOUND",
			"endpoint": lsErr.Endpoint,
		}
	case lightspeed.CodeRateLimited:
		status = http.StatusTooManyRequests
		body = map[string]any{
			"error":      "Rate limit exceeded",
			"message":    lsErr.Message,
			"code":       "RATE_LIMITED",
			"retryAfter": lsErr.RetryAfter,
		}
	case lightspeed.CodeValidation:
		status = http.StatusUnprocessableEntity
		body = map[string]any{
			"error":   "Validation failed",
			"message": lsErr.Message,
			"code":    "VALIDATION_ERROR",
			"details": lsErr.Details,
		}
	case lightspeed.CodeServiceError:
		status = http.StatusServiceUnavailable
		body = map[string]any{
			"error":   "Lightspeed service unavailable",
			"message": lsErr.Message,
			"code":    "SERVICE_UNAVAILABLE",
			"details": lsErr.Details,
		}
	default:
		// API_ERROR, NETWORK_ERROR, and any future owned tag
		status = lsErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		body = map[string]any{
			"error":   "Lightspeed API error",
			"message": lsErr.Message,
			"code":    "API_ERROR",
			"details": lsErr.Details,
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
	return true
}
