package server

const (
	RouteAuthStart    = "/auth/start"
	RouteAuthCallback = "/auth/callback"
	RouteAuthLogout   = "/auth/logout"

	RouteAPISessionActive     = "/api/sessions/active"
	RouteAPISessions          = "/api/sessions"
	RouteAPISessionActivity   = "/api/sessions/activity"
	RouteAPISessionDeactivate = "/api/sessions/deactivate"

	RouteAPICustomers = "/api/lightspeed/customers"
	RouteAPISales     = "/api/lightspeed/sales"

	RouteAPIStatus = "/api/status"
	RouteHealthz   = "/healthz"
	RouteMetrics   = "/metrics"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "suitsync_session"
