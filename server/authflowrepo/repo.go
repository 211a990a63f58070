package authflowrepo

import "time"

// AuthFlowState tracks one in-flight Lightspeed OAuth authorization, keyed
// by the opaque state parameter sent with the redirect.
type AuthFlowState struct {
	ReturnURL string
	CreatedAt time.Time
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	Get(state string) (*AuthFlowState, error)
	Delete(state string) error
}
