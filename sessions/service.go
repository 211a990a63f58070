package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/suitsync/pos-gateway/internal/config"
	"github.com/suitsync/pos-gateway/internal/errors"
	"github.com/suitsync/pos-gateway/internal/metrics"
	"github.com/suitsync/pos-gateway/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Identity is an externally-verified Lightspeed login: who the employee is
// plus the fresh OAuth tokens issued for them. Produced by the OAuth
// callback, consumed here.
type Identity struct {
	LightspeedEmployeeID string
	Email                string
	Name                 string
	Role                 string
	PhotoURL             string

	AccessToken  string
	RefreshToken string
	DomainPrefix string
	ExpiresAt    time.Time
}

// DeviceInfo optionally pins the session to a known browser session.
type DeviceInfo struct {
	BrowserSessionID string
}

// Service owns the session lifecycle: creation on login, activity tracking,
// soft expiry, and the retention purge. It deliberately does not touch the
// installation-level service token; that credential has its own lifecycle in
// the tokens package.
type Service struct {
	repo     Repo
	userRepo users.Repo
	cfg      config.SessionConfig
}

func NewService(repo Repo, userRepo users.Repo, cfg config.SessionConfig) *Service {
	return &Service{repo: repo, userRepo: userRepo, cfg: cfg}
}

// CreateOrUpdate establishes a session for a verified login. The local user
// is found or created by Lightspeed employee id with profile fields
// refreshed on every call. If the user already has a live session for the
// resolved browser session id, that row is updated in place (stable id);
// otherwise a new row is created, so one user can hold several device
// sessions at once. Errors are returned, not swallowed: a silent failure
// here would desynchronize local and Lightspeed credential state.
func (s *Service) CreateOrUpdate(ctx context.Context, identity Identity, device *DeviceInfo) (*Session, error) {
	now := NowTimeFunc()

	user, err := s.findOrCreateUser(ctx, identity, now)
	if err != nil {
		return nil, errors.Wrapf(err, "sessions.CreateOrUpdate user %q", identity.LightspeedEmployeeID)
	}

	browserSessionID := ""
	if device != nil {
		browserSessionID = device.BrowserSessionID
	}
	if browserSessionID == "" {
		if current, err := s.repo.MostRecentActive(ctx, user.ID, now); err == nil {
			browserSessionID = current.BrowserSessionID
		}
	}
	if browserSessionID == "" {
		browserSessionID = NewBrowserSessionID(identity.LightspeedEmployeeID, now)
	}

	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(s.cfg.GetSessionExpiry())
	}

	session := &Session{
		UserID:           user.ID,
		BrowserSessionID: browserSessionID,
		AccessToken:      identity.AccessToken,
		RefreshToken:     identity.RefreshToken,
		DomainPrefix:     identity.DomainPrefix,
		ExpiresAt:        expiresAt,
		LastActive:       now,
	}
	if err := s.repo.Upsert(ctx, session); err != nil {
		return nil, errors.Wrapf(err, "sessions.CreateOrUpdate upsert for user %q", user.ID)
	}
	return session, nil
}

func (s *Service) findOrCreateUser(ctx context.Context, identity Identity, now time.Time) (*users.User, error) {
	user, err := s.userRepo.GetByLightspeedID(ctx, identity.LightspeedEmployeeID)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrUserNotFound):
		user = &users.User{
			ID:                   uuid.New().String(),
			LightspeedEmployeeID: identity.LightspeedEmployeeID,
			CreatedAt:            now,
		}
	default:
		return nil, err
	}

	// Profile fields track Lightspeed on every login
	user.Email = identity.Email
	user.Name = identity.Name
	user.Role = identity.Role
	user.PhotoURL = identity.PhotoURL

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetActive returns the user's most-recently-active unexpired session, or
// nil when none exists. Storage failures are logged and reported as "no
// session" so a flaky read cannot take down a login check.
func (s *Service) GetActive(ctx context.Context, userID string) *Session {
	session, err := s.repo.MostRecentActive(ctx, userID, NowTimeFunc())
	if err != nil {
		if !errors.Is(err, errors.ErrSessionNotFound) {
			log.Error().Err(err).Str("userID", userID).Msg("Failed to read active session")
		}
		return nil
	}
	return session
}

// ListActive returns every unexpired session, most-recent-first. Used to
// populate the user-selection list on shared terminals. Failures yield an
// empty list.
func (s *Service) ListActive(ctx context.Context) []*Session {
	active, err := s.repo.ListActive(ctx, NowTimeFunc())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active sessions")
		return []*Session{}
	}
	metrics.ActiveSessions.Set(float64(len(active)))
	return active
}

// UpdateActivity bumps LastActive on every unexpired session of the user.
func (s *Service) UpdateActivity(ctx context.Context, userID string) {
	if err := s.repo.TouchActive(ctx, userID, NowTimeFunc()); err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Failed to update session activity")
	}
}

// Deactivate force-expires every session of the user. Rows stay behind for
// audit until the retention purge removes them.
func (s *Service) Deactivate(ctx context.Context, userID string) {
	if err := s.repo.ExpireAll(ctx, userID, NowTimeFunc()); err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Failed to deactivate sessions")
	}
}

// CleanupExpired hard-deletes sessions idle longer than the configured
// retention window. Invoked only by the maintenance scheduler; nothing else
// in this package triggers the purge.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := NowTimeFunc().Add(-s.cfg.GetSessionRetention())
	removed, err := s.repo.DeleteInactiveBefore(ctx, cutoff)
	if err != nil {
		return 0, errors.Wrapf(err, "sessions.CleanupExpired")
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("Purged stale sessions")
	}
	return removed, nil
}
