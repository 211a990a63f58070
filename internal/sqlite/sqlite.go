package sqlite

import (
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/suitsync/pos-gateway/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS service_tokens (
	service       TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL,
	expires_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	lightspeed_id  TEXT NOT NULL UNIQUE,
	email          TEXT NOT NULL DEFAULT '',
	name           TEXT NOT NULL DEFAULT '',
	role           TEXT NOT NULL DEFAULT '',
	photo_url      TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_sessions (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id            TEXT NOT NULL REFERENCES users(id),
	browser_session_id TEXT NOT NULL,
	access_token       TEXT NOT NULL DEFAULT '',
	refresh_token      TEXT NOT NULL DEFAULT '',
	domain_prefix      TEXT NOT NULL DEFAULT '',
	expires_at         TEXT NOT NULL,
	last_active        TEXT NOT NULL,
	UNIQUE (user_id, browser_session_id)
);

CREATE INDEX IF NOT EXISTS idx_user_sessions_last_active ON user_sessions(last_active);
`

// DB wraps the sql handle and ensures the schema exists on open.
type DB struct {
	conn *sql.DB
}

// Open opens (and if necessary creates) the gateway database at dsn.
// Use ":memory:" for tests.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "sqlite.Open %q", dsn)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY between concurrent requests
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "sqlite schema")
	}
	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// mapError translates driver failures into the gateway's sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return errors.ErrNotFound
	}
	if strings.Contains(err.Error(), "constraint") {
		return errors.ErrConstraintViolation
	}
	return err
}

// timeLayout is fixed width so lexicographic TEXT comparison matches
// chronological order. RFC3339Nano drops trailing zero fractions, which
// makes a whole-second value sort after fractional values in the same
// second.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
