package lightspeed

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/suitsync/pos-gateway/internal/config"
	"github.com/suitsync/pos-gateway/tokens"
)

const (
	authorizeURL      = "https://secure.retail.lightspeed.app/connect"
	tokenEndpointPath = "/api/1.0/token"
)

// OAuthConfig builds the x/oauth2 configuration for the installation's
// Lightspeed application. The token endpoint lives on the tenant domain.
func OAuthConfig(cfg config.LightspeedConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GetLightspeedClientID(),
		ClientSecret: cfg.GetLightspeedClientSecret(),
		RedirectURL:  cfg.GetLightspeedRedirectURI(),
		Endpoint: oauth2.Endpoint{
			AuthURL:  authorizeURL,
			TokenURL: fmt.Sprintf("https://%s.retail.lightspeed.app%s", cfg.GetLightspeedDomain(), tokenEndpointPath),
		},
	}
}

// SaveToken upserts the installation credential row from an oauth2 token.
func SaveToken(ctx context.Context, repo tokens.Repo, token *oauth2.Token) error {
	return repo.Upsert(ctx, &tokens.ServiceToken{
		Service:      tokens.ServiceName,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	})
}

// storeTokenSource serves tokens from the service-token store, refreshing
// through the OAuth endpoint when expired and writing the refreshed
// credential back. Reading the row on every Token() call gives
// read-your-writes after the OAuth callback persists a fresh credential.
// Last writer wins on the single row; with one OAuth application per
// deployment that is the intended behavior.
type storeTokenSource struct {
	cfg  *oauth2.Config
	repo tokens.Repo

	mu sync.Mutex
}

// NewStoreTokenSource builds a token source over the persisted service
// token.
func NewStoreTokenSource(cfg *oauth2.Config, repo tokens.Repo) oauth2.TokenSource {
	return &storeTokenSource{cfg: cfg, repo: repo}
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	stored, err := s.repo.Get(ctx, tokens.ServiceName)
	if err != nil {
		return nil, NewError("AUTH_FAILED", "No Lightspeed credential on file", 401)
	}

	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		Expiry:       stored.ExpiresAt,
	}
	if token.Valid() {
		return token, nil
	}

	refreshed, err := s.cfg.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, Classify(err, tokenEndpointPath)
	}
	if err := SaveToken(ctx, s.repo, refreshed); err != nil {
		return nil, err
	}
	return refreshed, nil
}
