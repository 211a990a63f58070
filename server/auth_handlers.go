package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/suitsync/pos-gateway/internal/sessiontoken"
	"github.com/suitsync/pos-gateway/lightspeed"
	"github.com/suitsync/pos-gateway/server/authflowrepo"
	"github.com/suitsync/pos-gateway/sessions"
)

// AuthStartHandler redirects the browser into the Lightspeed OAuth
// authorization flow, recording the state parameter for the callback.
func (s *Server) AuthStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.New().String()
		err := s.authState.Upsert(state, &authflowrepo.AuthFlowState{
			ReturnURL: r.URL.Query().Get("return_to"),
			CreatedAt: time.Now(),
		})
		if err != nil {
			http.Error(w, "Failed to start authorization", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, s.services.OAuth.AuthCodeURL(state), http.StatusFound)
	}
}

// AuthCallbackHandler completes the OAuth flow: validates state, exchanges
// the code, persists the installation credential, establishes the user
// session, and sets the signed session cookie.
func (s *Server) AuthCallbackHandler() http.HandlerFunc {
	return s.API(func(w http.ResponseWriter, r *http.Request) error {
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")

		if errorParam != "" {
			http.Error(w, "Authorization failed: "+errorParam, http.StatusBadRequest)
			return nil
		}
		if code == "" || state == "" {
			http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
			return nil
		}

		authState, err := s.authState.Get(state)
		if err != nil || authState == nil {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return nil
		}
		// Clean up state after use
		if err := s.authState.Delete(state); err != nil {
			http.Error(w, "Invalid state parameter", http.StatusInternalServerError)
			return nil
		}

		// Exchange authorization code for tokens using the standard oauth2 library
		oauth2Token, err := s.services.OAuth.Exchange(r.Context(), code)
		if err != nil {
			return lightspeed.Classify(err, "/api/1.0/token")
		}

		// Installation credential, one row for the whole deployment. Kept
		// separate from the per-user session created below.
		if err := lightspeed.SaveToken(r.Context(), s.services.Tokens, oauth2Token); err != nil {
			return err
		}

		employee, err := s.services.Lightspeed.CurrentUser(r.Context())
		if err != nil {
			return err
		}

		session, err := s.services.Sessions.CreateOrUpdate(r.Context(), sessions.Identity{
			LightspeedEmployeeID: employee.ID,
			Email:                employee.Email,
			Name:                 employee.DisplayName,
			Role:                 employee.AccountType,
			PhotoURL:             employee.ImageSource,
			AccessToken:          oauth2Token.AccessToken,
			RefreshToken:         oauth2Token.RefreshToken,
			DomainPrefix:         s.config.GetLightspeedDomain(),
			ExpiresAt:            oauth2Token.Expiry,
		}, nil)
		if err != nil {
			return err
		}

		signed, err := sessiontoken.Sign(s.config.GetSessionSecret(), sessiontoken.Claims{
			UserID:           session.UserID,
			BrowserSessionID: session.BrowserSessionID,
		}, s.config.GetSessionExpiry())
		if err != nil {
			return err
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    signed,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   getScheme(r) == "https",
			Expires:  session.ExpiresAt,
		})

		log.Info().Str("userID", session.UserID).Msg("Lightspeed login complete")

		returnURL := authState.ReturnURL
		if returnURL == "" {
			returnURL = "/"
		}
		http.Redirect(w, r, returnURL, http.StatusFound)
		return nil
	})
}

// LogoutHandler expires the user's sessions and clears the cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if claims, err := sessiontoken.Parse(s.config.GetSessionSecret(), cookie.Value); err == nil {
				s.services.Sessions.Deactivate(r.Context(), claims.UserID)
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
