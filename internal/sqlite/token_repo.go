package sqlite

import (
	"context"
	"database/sql"

	"github.com/suitsync/pos-gateway/internal/errors"
	"github.com/suitsync/pos-gateway/tokens"
)

var _ tokens.Repo = (*TokenRepo)(nil)

// TokenRepo persists the installation-level service token, one row per
// external service name.
type TokenRepo struct {
	db *DB
}

func NewTokenRepo(db *DB) *TokenRepo {
	return &TokenRepo{db: db}
}

func (r *TokenRepo) Upsert(ctx context.Context, token *tokens.ServiceToken) error {
	query := `
		INSERT INTO service_tokens (service, access_token, refresh_token, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(service) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at
	`
	_, err := r.db.conn.ExecContext(ctx, query,
		token.Service,
		token.AccessToken,
		token.RefreshToken,
		formatTime(token.ExpiresAt),
	)
	return mapError(err)
}

func (r *TokenRepo) Get(ctx context.Context, service string) (*tokens.ServiceToken, error) {
	query := `
		SELECT service, access_token, refresh_token, expires_at
		FROM service_tokens
		WHERE service = ?
	`
	token := &tokens.ServiceToken{}
	var expiresAt string
	err := r.db.conn.QueryRowContext(ctx, query, service).Scan(
		&token.Service,
		&token.AccessToken,
		&token.RefreshToken,
		&expiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrTokenNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	if token.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, errors.Wrapf(err, "service token expires_at")
	}
	return token, nil
}
