package sessions

import (
	"fmt"
	"time"
)

// Session is one device/browser login for a local user. A user may hold any
// number of concurrent sessions (multi-device); liveness is decided purely
// by ExpiresAt. Rows pass through three states: active (ExpiresAt in the
// future), expired (natural timeout or explicit deactivation), and finally
// purged by the retention sweep. An expired session is never reactivated; a
// fresh row is created on the next login instead.
type Session struct {
	ID               int64     `json:"id"`
	UserID           string    `json:"user_id"`
	BrowserSessionID string    `json:"browser_session_id"`
	AccessToken      string    `json:"-"`
	RefreshToken     string    `json:"-"`
	DomainPrefix     string    `json:"domain_prefix,omitempty"`
	ExpiresAt        time.Time `json:"expires_at"`
	LastActive       time.Time `json:"last_active"`
}

// Active reports whether the session is still live at the given instant.
func (s *Session) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// NewBrowserSessionID derives a fresh device-session identifier from the
// external employee id and the current instant.
func NewBrowserSessionID(lightspeedEmployeeID string, now time.Time) string {
	return fmt.Sprintf("%s_%d", lightspeedEmployeeID, now.UnixMilli())
}
