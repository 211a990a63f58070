package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/suitsync/pos-gateway/internal/errors"
	"github.com/suitsync/pos-gateway/sessions"
)

var _ sessions.Repo = (*SessionRepo)(nil)

type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Upsert writes a session in a single statement. The unique constraint on
// (user_id, browser_session_id) makes concurrent logins for the same device
// collapse into one row instead of racing a read-then-write.
func (r *SessionRepo) Upsert(ctx context.Context, session *sessions.Session) error {
	if session.UserID == "" || session.BrowserSessionID == "" {
		return errors.ErrConstraintViolation
	}

	query := `
		INSERT INTO user_sessions
			(user_id, browser_session_id, access_token, refresh_token, domain_prefix, expires_at, last_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, browser_session_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			domain_prefix = excluded.domain_prefix,
			expires_at = excluded.expires_at,
			last_active = excluded.last_active
		RETURNING id
	`
	err := r.db.conn.QueryRowContext(ctx, query,
		session.UserID,
		session.BrowserSessionID,
		session.AccessToken,
		session.RefreshToken,
		session.DomainPrefix,
		formatTime(session.ExpiresAt),
		formatTime(session.LastActive),
	).Scan(&session.ID)
	return mapError(err)
}

const sessionColumns = `id, user_id, browser_session_id, access_token, refresh_token, domain_prefix, expires_at, last_active`

func (r *SessionRepo) MostRecentActive(ctx context.Context, userID string, now time.Time) (*sessions.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM user_sessions
		WHERE user_id = ? AND expires_at > ?
		ORDER BY last_active DESC
		LIMIT 1
	`
	row := r.db.conn.QueryRowContext(ctx, query, userID, formatTime(now))
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrSessionNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return session, nil
}

func (r *SessionRepo) ListActive(ctx context.Context, now time.Time) ([]*sessions.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM user_sessions
		WHERE expires_at > ?
		ORDER BY last_active DESC
	`
	rows, err := r.db.conn.QueryContext(ctx, query, formatTime(now))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	active := make([]*sessions.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, mapError(err)
		}
		active = append(active, session)
	}
	return active, mapError(rows.Err())
}

func (r *SessionRepo) TouchActive(ctx context.Context, userID string, now time.Time) error {
	query := `
		UPDATE user_sessions
		SET last_active = ?
		WHERE user_id = ? AND expires_at > ?
	`
	_, err := r.db.conn.ExecContext(ctx, query, formatTime(now), userID, formatTime(now))
	return mapError(err)
}

func (r *SessionRepo) ExpireAll(ctx context.Context, userID string, now time.Time) error {
	query := `
		UPDATE user_sessions
		SET expires_at = ?
		WHERE user_id = ?
	`
	_, err := r.db.conn.ExecContext(ctx, query, formatTime(now), userID)
	return mapError(err)
}

func (r *SessionRepo) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM user_sessions WHERE last_active < ?`, formatTime(cutoff))
	if err != nil {
		return 0, mapError(err)
	}
	removed, err := result.RowsAffected()
	return removed, mapError(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*sessions.Session, error) {
	session := &sessions.Session{}
	var expiresAt, lastActive string
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.BrowserSessionID,
		&session.AccessToken,
		&session.RefreshToken,
		&session.DomainPrefix,
		&expiresAt,
		&lastActive,
	)
	if err != nil {
		return nil, err
	}
	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	if session.LastActive, err = parseTime(lastActive); err != nil {
		return nil, err
	}
	return session, nil
}
