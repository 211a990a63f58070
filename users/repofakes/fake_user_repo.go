package repofakes

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	interrors "github.com/suitsync/pos-gateway/internal/errors"
	"github.com/suitsync/pos-gateway/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	byID   map[string]*users.User
	byLsID map[string]string // lightspeed employee id -> local id
	lock   sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		byID:   make(map[string]*users.User),
		byLsID: make(map[string]string),
	}
}

func (r *FakeUserRepo) Upsert(_ context.Context, user *users.User) error {
	if user.ID == "" {
		return errors.New("user ID is required")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	copied := *user
	r.byID[user.ID] = &copied
	r.byLsID[user.LightspeedEmployeeID] = user.ID
	return nil
}

func (r *FakeUserRepo) GetByLightspeedID(_ context.Context, lightspeedID string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	id, ok := r.byLsID[lightspeedID]
	if !ok {
		return nil, interrors.ErrUserNotFound
	}
	copied := *r.byID[id]
	return &copied, nil
}

func (r *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, interrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}
