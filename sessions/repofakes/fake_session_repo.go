package repofakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	interrors "github.com/suitsync/pos-gateway/internal/errors"
	"github.com/suitsync/pos-gateway/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type sessionKey struct {
	userID           string
	browserSessionID string
}

type FakeSessionRepo struct {
	rows   map[sessionKey]*sessions.Session
	nextID int64
	lock   sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		rows:   make(map[sessionKey]*sessions.Session),
		nextID: 1,
	}
}

func (r *FakeSessionRepo) Upsert(_ context.Context, session *sessions.Session) error {
	if session.UserID == "" {
		return errors.New("userID is required")
	}
	if session.BrowserSessionID == "" {
		return errors.New("browserSessionID is required")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	key := sessionKey{session.UserID, session.BrowserSessionID}
	if existing, ok := r.rows[key]; ok {
		session.ID = existing.ID
	} else {
		session.ID = r.nextID
		r.nextID++
	}
	copied := *session
	r.rows[key] = &copied
	return nil
}

func (r *FakeSessionRepo) MostRecentActive(_ context.Context, userID string, now time.Time) (*sessions.Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var best *sessions.Session
	for key, row := range r.rows {
		if key.userID != userID || !row.Active(now) {
			continue
		}
		if best == nil || row.LastActive.After(best.LastActive) {
			best = row
		}
	}
	if best == nil {
		return nil, interrors.ErrSessionNotFound
	}
	copied := *best
	return &copied, nil
}

func (r *FakeSessionRepo) ListActive(_ context.Context, now time.Time) ([]*sessions.Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	active := make([]*sessions.Session, 0)
	for _, row := range r.rows {
		if row.Active(now) {
			copied := *row
			active = append(active, &copied)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].LastActive.After(active[j].LastActive)
	})
	return active, nil
}

func (r *FakeSessionRepo) TouchActive(_ context.Context, userID string, now time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for key, row := range r.rows {
		if key.userID == userID && row.Active(now) {
			row.LastActive = now
		}
	}
	return nil
}

func (r *FakeSessionRepo) ExpireAll(_ context.Context, userID string, now time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for key, row := range r.rows {
		if key.userID == userID {
			row.ExpiresAt = now
		}
	}
	return nil
}

func (r *FakeSessionRepo) DeleteInactiveBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var removed int64
	for key, row := range r.rows {
		if row.LastActive.Before(cutoff) {
			delete(r.rows, key)
			removed++
		}
	}
	return removed, nil
}
