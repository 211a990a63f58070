package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/suitsync/pos-gateway/internal/sessiontoken"
	"github.com/suitsync/pos-gateway/sessions"
)

// sessionContextKey is unexported so only this package can inject the value;
// handlers read it through SessionFromContext. The session travels as an
// explicit context value rather than ambient request state.
type sessionContextKey struct{}

// SessionFromContext returns the authenticated session injected by
// RequireSession.
func SessionFromContext(ctx context.Context) (*sessions.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*sessions.Session)
	return session, ok
}

// RequireSession validates the signed session cookie and loads the user's
// active session. Requests without a live session get the same
// AUTH_REQUIRED body the error mapper produces, so the frontend restarts
// the OAuth flow either way.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				writeAuthRequired(w, "Missing session cookie")
				return
			}

			claims, err := sessiontoken.Parse(s.config.GetSessionSecret(), cookie.Value)
			if err != nil {
				writeAuthRequired(w, "Invalid session cookie")
				return
			}

			session := s.services.Sessions.GetActive(r.Context(), claims.UserID)
			if session == nil {
				writeAuthRequired(w, "Session expired")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, session)
			next(w, r.WithContext(ctx))
		}
	}
}

func writeAuthRequired(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":      "Authentication failed",
		"message":    message,
		"code":       "AUTH_REQUIRED",
		"redirectTo": RouteAuthStart,
	})
}
