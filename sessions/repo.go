package sessions

import (
	"context"
	"time"
)

// Repo defines storage for user sessions. Liveness filtering happens in the
// queries, never as a background sweep: expired rows stay in place until the
// retention delete.
type Repo interface {
	// Upsert writes a session atomically keyed by (UserID, BrowserSessionID).
	// Concurrent writes for the same key must not produce duplicate rows.
	// On return the session carries its storage ID.
	Upsert(ctx context.Context, session *Session) error

	// MostRecentActive returns the most-recently-active session for a user
	// with ExpiresAt after now, or errors.ErrSessionNotFound.
	MostRecentActive(ctx context.Context, userID string, now time.Time) (*Session, error)

	// ListActive returns every unexpired session across all users,
	// most-recently-active first.
	ListActive(ctx context.Context, now time.Time) ([]*Session, error)

	// TouchActive sets LastActive to now on every unexpired session owned by
	// the user.
	TouchActive(ctx context.Context, userID string, now time.Time) error

	// ExpireAll sets ExpiresAt to now on every session owned by the user.
	// Rows are retained for audit.
	ExpireAll(ctx context.Context, userID string, now time.Time) error

	// DeleteInactiveBefore hard-deletes sessions whose LastActive predates
	// cutoff and returns the number removed.
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
