package repofakes

import (
	"context"
	"sync"

	"github.com/suitsync/pos-gateway/internal/errors"
	"github.com/suitsync/pos-gateway/tokens"
)

var _ tokens.Repo = (*FakeTokenRepo)(nil)

type FakeTokenRepo struct {
	byService map[string]*tokens.ServiceToken
	lock      sync.RWMutex
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		byService: make(map[string]*tokens.ServiceToken),
	}
}

func (r *FakeTokenRepo) Upsert(_ context.Context, token *tokens.ServiceToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	copied := *token
	r.byService[token.Service] = &copied
	return nil
}

func (r *FakeTokenRepo) Get(_ context.Context, service string) (*tokens.ServiceToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	token, ok := r.byService[service]
	if !ok {
		return nil, errors.ErrTokenNotFound
	}
	copied := *token
	return &copied, nil
}
