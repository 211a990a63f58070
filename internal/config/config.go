package config

type Config interface {
	EnvConfig
	CorsConfig
	LightspeedConfig
	SessionConfig
	BridgeConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetBaseURL() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Lightspeed
	Session
	Bridge
}

func New() Config {
	return mainConfig{}
}
