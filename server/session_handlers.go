package server

import (
	"encoding/json"
	"net/http"

	"github.com/suitsync/pos-gateway/sessions"
)

// sessionProjection is the wire shape of a session. Tokens never leave the
// server; the frontend only needs identity and liveness.
type sessionProjection struct {
	ID               int64  `json:"id"`
	UserID           string `json:"user_id"`
	BrowserSessionID string `json:"browser_session_id"`
	UserName         string `json:"user_name,omitempty"`
	UserEmail        string `json:"user_email,omitempty"`
	UserPhotoURL     string `json:"user_photo_url,omitempty"`
	DomainPrefix     string `json:"domain_prefix,omitempty"`
	ExpiresAt        string `json:"expires_at"`
	LastActive       string `json:"last_active"`
}

func (s *Server) projectSession(r *http.Request, session *sessions.Session) sessionProjection {
	projection := sessionProjection{
		ID:               session.ID,
		UserID:           session.UserID,
		BrowserSessionID: session.BrowserSessionID,
		DomainPrefix:     session.DomainPrefix,
		ExpiresAt:        session.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		LastActive:       session.LastActive.Format("2006-01-02T15:04:05Z07:00"),
	}
	if user, err := s.services.Users.GetByID(r.Context(), session.UserID); err == nil {
		projection.UserName = user.Name
		projection.UserEmail = user.Email
		projection.UserPhotoURL = user.PhotoURL
	}
	return projection
}

// ActiveSessionHandler returns the most-recently-active unexpired session
// for a user, or 404 when none exists. Request validation (the missing
// user_id case) lives here, not in the session service.
func (s *Server) ActiveSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			writeJSONStatus(w, http.StatusBadRequest, map[string]any{"error": "user_id is required"})
			return
		}

		session := s.services.Sessions.GetActive(r.Context(), userID)
		if session == nil {
			writeJSONStatus(w, http.StatusNotFound, map[string]any{"error": "No active session"})
			return
		}
		writeJSONStatus(w, http.StatusOK, s.projectSession(r, session))
	}
}

// SessionsListHandler returns every unexpired session, most-recent-first.
// Shared-terminal deployments use this to render the user picker.
func (s *Server) SessionsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active := s.services.Sessions.ListActive(r.Context())
		projections := make([]sessionProjection, 0, len(active))
		for _, session := range active {
			projections = append(projections, s.projectSession(r, session))
		}
		writeJSONStatus(w, http.StatusOK, map[string]any{"sessions": projections})
	}
}

type userIDRequest struct {
	UserID string `json:"user_id"`
}

// SessionActivityHandler bumps last-active on every live session of a user.
func (s *Server) SessionActivityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userIDRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			writeJSONStatus(w, http.StatusBadRequest, map[string]any{"error": "user_id is required"})
			return
		}
		s.services.Sessions.UpdateActivity(r.Context(), req.UserID)
		writeJSONStatus(w, http.StatusOK, map[string]any{"success": true})
	}
}

// SessionDeactivateHandler force-expires every session of a user.
func (s *Server) SessionDeactivateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userIDRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			writeJSONStatus(w, http.StatusBadRequest, map[string]any{"error": "user_id is required"})
			return
		}
		s.services.Sessions.Deactivate(r.Context(), req.UserID)
		writeJSONStatus(w, http.StatusOK, map[string]any{"success": true})
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
