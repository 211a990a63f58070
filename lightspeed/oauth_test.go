package lightspeed_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/suitsync/pos-gateway/internal/config"
	"github.com/suitsync/pos-gateway/lightspeed"
	"github.com/suitsync/pos-gateway/tokens"
	"github.com/suitsync/pos-gateway/tokens/repofakes"
)

type tokenSourceFixture struct {
	repo          *repofakes.FakeTokenRepo
	source        oauth2.TokenSource
	tokenEndpoint http.HandlerFunc
}

// setupTokenSourceFixture points the OAuth token endpoint at a local
// stand-in so refresh behaviour can be driven per test.
func setupTokenSourceFixture(t *testing.T) *tokenSourceFixture {
	t.Helper()

	f := &tokenSourceFixture{repo: repofakes.NewFakeTokenRepo()}

	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.tokenEndpoint != nil {
			f.tokenEndpoint(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(endpoint.Close)

	cfg := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint:     oauth2.Endpoint{TokenURL: endpoint.URL},
	}
	f.source = lightspeed.NewStoreTokenSource(cfg, f.repo)
	return f
}

func (f *tokenSourceFixture) storeToken(t *testing.T, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, f.repo.Upsert(context.Background(), &tokens.ServiceToken{
		Service:      tokens.ServiceName,
		AccessToken:  "stale-access",
		RefreshToken: "stored-refresh",
		ExpiresAt:    expiresAt,
	}))
}

func TestTokenSourceServesValidStoredToken(t *testing.T) {
	f := setupTokenSourceFixture(t)
	f.storeToken(t, time.Now().Add(time.Hour))

	token, err := f.source.Token()
	require.NoError(t, err)
	require.Equal(t, "stale-access", token.AccessToken)
}

func TestTokenSourceNoCredentialOnFile(t *testing.T) {
	f := setupTokenSourceFixture(t)

	_, err := f.source.Token()
	var lsErr *lightspeed.Error
	require.ErrorAs(t, err, &lsErr)
	require.Equal(t, lightspeed.CodeAuthFailed, lsErr.Code)
	require.Equal(t, http.StatusUnauthorized, lsErr.StatusCode)
}

func TestTokenSourceRefreshPersistsRotatedCredential(t *testing.T) {
	f := setupTokenSourceFixture(t)
	f.storeToken(t, time.Now().Add(-time.Minute))
	f.tokenEndpoint = func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		require.Equal(t, "stored-refresh", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "fresh-access",
			"refresh_token": "fresh-refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}

	token, err := f.source.Token()
	require.NoError(t, err)
	require.Equal(t, "fresh-access", token.AccessToken)

	stored, err := f.repo.Get(context.Background(), tokens.ServiceName)
	require.NoError(t, err)
	require.Equal(t, "fresh-access", stored.AccessToken)
	require.Equal(t, "fresh-refresh", stored.RefreshToken)
}

// A revoked refresh token comes back from the token endpoint as a 400
// invalid_grant. That is an authentication failure the frontend repairs by
// restarting OAuth, not a network failure.
func TestTokenSourceRefreshRejectionClassifiesAsAuthFailed(t *testing.T) {
	f := setupTokenSourceFixture(t)
	f.storeToken(t, time.Now().Add(-time.Minute))
	f.tokenEndpoint = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "invalid_grant"})
	}

	_, err := f.source.Token()
	var lsErr *lightspeed.Error
	require.ErrorAs(t, err, &lsErr)
	require.Equal(t, lightspeed.CodeAuthFailed, lsErr.Code)
	require.Equal(t, http.StatusUnauthorized, lsErr.StatusCode)
	require.Equal(t, "invalid_grant", lsErr.Details)
}

// The same rejection seen through an API call must keep the classification,
// not get re-tagged by the client's own error handling.
func TestClientCallWithRejectedRefreshReportsAuthFailed(t *testing.T) {
	f := setupTokenSourceFixture(t)
	f.storeToken(t, time.Now().Add(-time.Minute))
	f.tokenEndpoint = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("API must not be reached without a credential")
	}))
	t.Cleanup(api.Close)

	client := lightspeed.NewClient(config.Lightspeed{}, api.Client(), f.source).WithBaseURL(api.URL)
	_, err := client.CurrentUser(context.Background())
	var lsErr *lightspeed.Error
	require.ErrorAs(t, err, &lsErr)
	require.Equal(t, lightspeed.CodeAuthFailed, lsErr.Code)
	require.Equal(t, http.StatusUnauthorized, lsErr.StatusCode)
}

// Token endpoint outages carry a response too and map by status instead of
// collapsing into the network bucket.
func TestTokenSourceRefreshOutageClassifiesAsServiceError(t *testing.T) {
	f := setupTokenSourceFixture(t)
	f.storeToken(t, time.Now().Add(-time.Minute))
	f.tokenEndpoint = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}

	_, err := f.source.Token()
	var lsErr *lightspeed.Error
	require.ErrorAs(t, err, &lsErr)
	require.Equal(t, lightspeed.CodeServiceError, lsErr.Code)
	require.Equal(t, http.StatusServiceUnavailable, lsErr.StatusCode)
}
