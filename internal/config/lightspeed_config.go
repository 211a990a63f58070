package config

// LightspeedConfig provides the OAuth application settings for the external
// Lightspeed Retail installation this gateway talks to.
type LightspeedConfig interface {
	GetLightspeedClientID() string
	GetLightspeedClientSecret() string
	GetLightspeedRedirectURI() string
	GetLightspeedDomain() string
}

type Lightspeed struct{}

var _ LightspeedConfig = Lightspeed{}

func (Lightspeed) GetLightspeedClientID() string {
	return GetEnv("LS_CLIENT_ID", "")
}

func (Lightspeed) GetLightspeedClientSecret() string {
	return GetEnv("LS_CLIENT_SECRET", "")
}

func (Lightspeed) GetLightspeedRedirectURI() string {
	return GetEnv("LS_REDIRECT_URI", EnvVars{}.GetBaseURL()+"/auth/callback")
}

// GetLightspeedDomain returns the tenant domain prefix of the Lightspeed
// account, e.g. "suitsync" for suitsync.retail.lightspeed.app.
func (Lightspeed) GetLightspeedDomain() string {
	return GetEnv("LS_DOMAIN", "")
}
