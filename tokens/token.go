package tokens

import "time"

// ServiceName identifies the one external service this gateway integrates.
const ServiceName = "lightspeed"

// ServiceToken is the installation-level OAuth credential, one row per
// external service name. It is shared by every user of the installation and
// is distinct from per-user sessions.
type ServiceToken struct {
	Service      string    `json:"service"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token has passed its expiry.
func (t *ServiceToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}
