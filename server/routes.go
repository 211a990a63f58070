package server

import "github.com/prometheus/client_golang/prometheus/promhttp"

func (s *Server) initRoutes() {
	// OAuth flow against Lightspeed
	s.RegisterRouteFunc("GET "+RouteAuthStart, s.AuthStartHandler())
	s.RegisterRouteFunc("GET "+RouteAuthCallback, s.AuthCallbackHandler())
	s.RegisterRouteFunc("GET "+RouteAuthLogout, s.LogoutHandler())

	// Session API consumed by the SuitSync frontend
	s.RegisterRouteHandler("GET "+RouteAPISessionActive, ChainMiddleware(s.ActiveSessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPISessions, ChainMiddleware(s.SessionsListHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPISessionActivity, ChainMiddleware(s.SessionActivityHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPISessionDeactivate, ChainMiddleware(s.SessionDeactivateHandler(), s.APIMiddleware()...))

	// Lightspeed data passthroughs used by the sync jobs
	s.RegisterRouteHandler("GET "+RouteAPICustomers, ChainMiddleware(s.CustomersHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAPISales, ChainMiddleware(s.SalesHandler(), s.APIMiddleware(s.RequireSession())...))

	// Installation status and operability
	s.RegisterRouteHandler("GET "+RouteAPIStatus, ChainMiddleware(s.StatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}
