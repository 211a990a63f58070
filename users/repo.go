package users

import "context"

type Repo interface {
	// Upsert creates or updates a user keyed by LightspeedEmployeeID.
	Upsert(ctx context.Context, user *User) error

	// GetByLightspeedID retrieves a user by external employee identifier,
	// or errors.ErrUserNotFound.
	GetByLightspeedID(ctx context.Context, lightspeedID string) (*User, error)

	// GetByID retrieves a user by local id, or errors.ErrUserNotFound.
	GetByID(ctx context.Context, id string) (*User, error)
}
