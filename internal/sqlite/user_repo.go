package sqlite

import (
	"context"
	"database/sql"

	"github.com/suitsync/pos-gateway/internal/errors"
	"github.com/suitsync/pos-gateway/users"
)

var _ users.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Upsert(ctx context.Context, user *users.User) error {
	query := `
		INSERT INTO users (id, lightspeed_id, email, name, role, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(lightspeed_id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			role = excluded.role,
			photo_url = excluded.photo_url
	`
	_, err := r.db.conn.ExecContext(ctx, query,
		user.ID,
		user.LightspeedEmployeeID,
		user.Email,
		user.Name,
		user.Role,
		user.PhotoURL,
		formatTime(user.CreatedAt),
	)
	return mapError(err)
}

func (r *UserRepo) GetByLightspeedID(ctx context.Context, lightspeedID string) (*users.User, error) {
	return r.getWhere(ctx, "lightspeed_id = ?", lightspeedID)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *UserRepo) getWhere(ctx context.Context, predicate string, arg any) (*users.User, error) {
	query := `
		SELECT id, lightspeed_id, email, name, role, photo_url, created_at
		FROM users
		WHERE ` + predicate
	user := &users.User{}
	var createdAt string
	err := r.db.conn.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.LightspeedEmployeeID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.PhotoURL,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, errors.Wrapf(err, "user created_at")
	}
	return user, nil
}
