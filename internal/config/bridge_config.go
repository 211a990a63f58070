package config

import "time"

// DeploymentMode selects whether this installation holds its own Lightspeed
// credentials ("server") or relays through a primary installation ("client").
type DeploymentMode string

const (
	ModeServer DeploymentMode = "server"
	ModeClient DeploymentMode = "client"
)

type BridgeConfig interface {
	GetDeploymentMode() DeploymentMode
	GetRemoteServerURL() string
	GetBridgeCheckInterval() time.Duration
	GetBridgeProbeTimeout() time.Duration
}

type Bridge struct{}

var _ BridgeConfig = Bridge{}

func (Bridge) GetDeploymentMode() DeploymentMode {
	if GetEnv("DEPLOYMENT_MODE", "server") == "client" {
		return ModeClient
	}
	return ModeServer
}

func (Bridge) GetRemoteServerURL() string {
	return GetEnv("REMOTE_SERVER_URL", "")
}

func (Bridge) GetBridgeCheckInterval() time.Duration {
	return 30 * time.Second
}

func (Bridge) GetBridgeProbeTimeout() time.Duration {
	return 10 * time.Second
}
