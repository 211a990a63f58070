package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/suitsync/pos-gateway/internal/config"
	"github.com/suitsync/pos-gateway/sessions"
	sessionrepofakes "github.com/suitsync/pos-gateway/sessions/repofakes"
	userrepofakes "github.com/suitsync/pos-gateway/users/repofakes"
)

const (
	testEmployeeID = "emp-100"
	testEmail      = "riley@suitsync.example"
	testName       = "Riley Morgan"
)

// testFixture holds all test dependencies
type testFixture struct {
	sessionRepo *sessionrepofakes.FakeSessionRepo
	userRepo    *userrepofakes.FakeUserRepo
	service     *sessions.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	sr := sessionrepofakes.NewFakeSessionRepo()
	ur := userrepofakes.NewFakeUserRepo()

	return &testFixture{
		sessionRepo: sr,
		userRepo:    ur,
		service:     sessions.NewService(sr, ur, config.Session{}),
	}
}

func testIdentity(expiresAt time.Time) sessions.Identity {
	return sessions.Identity{
		LightspeedEmployeeID: testEmployeeID,
		Email:                testEmail,
		Name:                 testName,
		Role:                 "admin",
		AccessToken:          "access-1",
		RefreshToken:         "refresh-1",
		DomainPrefix:         "suitsync",
		ExpiresAt:            expiresAt,
	}
}

func TestCreateOrUpdateCreatesUserAndSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateOrUpdate(ctx, testIdentity(time.Now().Add(time.Hour)), nil)
	require.NoError(t, err)
	require.NotEmpty(t, session.UserID)
	require.Contains(t, session.BrowserSessionID, testEmployeeID+"_")

	user, err := f.userRepo.GetByLightspeedID(ctx, testEmployeeID)
	require.NoError(t, err)
	require.Equal(t, testEmail, user.Email)
	require.Equal(t, testName, user.Name)
}

func TestCreateOrUpdateReusesLiveSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	first, err := f.service.CreateOrUpdate(ctx, testIdentity(time.Now().Add(time.Hour)), nil)
	require.NoError(t, err)

	identity := testIdentity(time.Now().Add(2 * time.Hour))
	identity.AccessToken = "access-2"
	second, err := f.service.CreateOrUpdate(ctx, identity, nil)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID, "live session row must be updated in place")
	require.Equal(t, first.BrowserSessionID, second.BrowserSessionID)
	require.Equal(t, "access-2", second.AccessToken)
	require.Len(t, f.service.ListActive(ctx), 1)
}

func TestCreateOrUpdateSeparateDevices(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateOrUpdate(ctx, testIdentity(time.Now().Add(time.Hour)), &sessions.DeviceInfo{BrowserSessionID: "emp-100_tablet"})
	require.NoError(t, err)
	_, err = f.service.CreateOrUpdate(ctx, testIdentity(time.Now().Add(time.Hour)), &sessions.DeviceInfo{BrowserSessionID: "emp-100_register"})
	require.NoError(t, err)

	require.Len(t, f.service.ListActive(ctx), 2, "one user may hold concurrent device sessions")
}

func TestCreateOrUpdateAfterExpiryCreatesFreshSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	originalNow := sessions.NowTimeFunc
	defer func() { sessions.NowTimeFunc = originalNow }()

	past := time.Now().Add(-2 * time.Hour)
	sessions.NowTimeFunc = func() time.Time { return past }
	first, err := f.service.CreateOrUpdate(ctx, testIdentity(past.Add(time.Hour)), nil)
	require.NoError(t, err)

	sessions.NowTimeFunc = originalNow
	second, err := f.service.CreateOrUpdate(ctx, testIdentity(time.Now().Add(time.Hour)), nil)
	require.NoError(t, err)

	require.NotEqual(t, first.BrowserSessionID, second.BrowserSessionID, "expired sessions are never reactivated")
}

func TestGetActiveIgnoresExpiredRows(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateOrUpdate(ctx, testIdentity(time.Now().Add(-time.Minute)), nil)
	require.NoError(t, err)

	require.Nil(t, f.service.GetActive(ctx, session.UserID), "expired row must stay invisible even though it exists")
}

func TestDeactivateExpiresAllSessions(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateOrUpdate(ctx, testIdentity(time.Now().Add(time.Hour)), nil)
	require.NoError(t, err)
	require.NotNil(t, f.service.GetActive(ctx, session.UserID))

	f.service.Deactivate(ctx, session.UserID)

	require.Nil(t, f.service.GetActive(ctx, session.UserID))
	require.Empty(t, f.service.ListActive(ctx))
}

func TestUpdateActivityBumpsLastActive(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateOrUpdate(ctx, testIdentity(time.Now().Add(time.Hour)), nil)
	require.NoError(t, err)
	before := session.LastActive

	originalNow := sessions.NowTimeFunc
	defer func() { sessions.NowTimeFunc = originalNow }()
	sessions.NowTimeFunc = func() time.Time { return before.Add(10 * time.Minute) }

	f.service.UpdateActivity(ctx, session.UserID)
	current := f.service.GetActive(ctx, session.UserID)
	require.NotNil(t, current)
	require.True(t, current.LastActive.After(before))
}

func TestCleanupExpiredHonoursRetention(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	originalNow := sessions.NowTimeFunc
	defer func() { sessions.NowTimeFunc = originalNow }()

	stale := time.Now().Add(-40 * 24 * time.Hour)
	sessions.NowTimeFunc = func() time.Time { return stale }
	_, err := f.service.CreateOrUpdate(ctx, testIdentity(stale.Add(time.Hour)), &sessions.DeviceInfo{BrowserSessionID: "emp-100_old"})
	require.NoError(t, err)

	sessions.NowTimeFunc = originalNow
	_, err = f.service.CreateOrUpdate(ctx, testIdentity(time.Now().Add(time.Hour)), &sessions.DeviceInfo{BrowserSessionID: "emp-100_new"})
	require.NoError(t, err)

	removed, err := f.service.CleanupExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed, "only rows idle past retention are purged")
	require.Len(t, f.service.ListActive(ctx), 1)
}
