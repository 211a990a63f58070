package tokens

import "context"

// Repo defines storage for installation-level service tokens.
type Repo interface {
	// Upsert writes the token row for a service, replacing any prior values.
	// No history is kept.
	Upsert(ctx context.Context, token *ServiceToken) error

	// Get retrieves the token row for a service, or errors.ErrTokenNotFound.
	Get(ctx context.Context, service string) (*ServiceToken, error)
}
