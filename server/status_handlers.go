package server

import (
	"net/http"

	"github.com/suitsync/pos-gateway/internal/config"
	"github.com/suitsync/pos-gateway/tokens"
)

func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSONStatus(w, http.StatusOK, map[string]any{"status": "ok"})
	}
}

// StatusHandler reports the installation mode, credential presence, and, in
// client mode, the bridge connectivity snapshot.
func (s *Server) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"app":  s.config.GetAppName(),
			"mode": string(s.config.GetDeploymentMode()),
		}

		if s.config.GetDeploymentMode() == config.ModeClient && s.services.Bridge != nil {
			body["bridge"] = s.services.Bridge.Info()
		} else {
			hasCredential := false
			if s.services.Tokens != nil {
				if _, err := s.services.Tokens.Get(r.Context(), tokens.ServiceName); err == nil {
					hasCredential = true
				}
			}
			body["lightspeed_connected"] = hasCredential
		}

		writeJSONStatus(w, http.StatusOK, body)
	}
}
