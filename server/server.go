package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/suitsync/pos-gateway/bridge"
	"github.com/suitsync/pos-gateway/internal/config"
	"github.com/suitsync/pos-gateway/lightspeed"
	"github.com/suitsync/pos-gateway/server/authflowrepo"
	"github.com/suitsync/pos-gateway/sessions"
	"github.com/suitsync/pos-gateway/tokens"
	"github.com/suitsync/pos-gateway/users"
)

// Services bundles the collaborators the HTTP layer dispatches into.
// Bridge is nil on a primary ("server") deployment.
type Services struct {
	Sessions   *sessions.Service
	Users      users.Repo
	Tokens     tokens.Repo
	Lightspeed *lightspeed.Client
	OAuth      *oauth2.Config
	Bridge     *bridge.Bridge
}

type Server struct {
	env       string // Environment (e.g., "DEV", "production")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	services  Services
	authState authflowrepo.Repo
}

func New(cfg config.Config, services Services, authStateRepo authflowrepo.Repo) (*Server, error) {
	if services.Sessions == nil {
		return nil, fmt.Errorf("[Server New] session service is required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		services:  services,
		authState: authStateRepo,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ansiReset
	} else {
		displayMethod = ansiGray + paddedMethod + ansiReset
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
