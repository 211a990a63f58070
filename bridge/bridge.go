// Package bridge implements the relay used by secondary ("client")
// installations that hold no Lightspeed credentials of their own. It keeps a
// cached connectivity flag to the primary server and guards every relay call
// on it, so a known-down remote costs nothing per request.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/suitsync/pos-gateway/internal/config"
	"github.com/suitsync/pos-gateway/internal/metrics"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Bridge relays requests to the primary installation. The http.Client is
// injected so tests can point it at a fake server.
type Bridge struct {
	serverURL     string
	instanceID    string
	httpClient    *http.Client
	checkInterval time.Duration
	probeTimeout  time.Duration

	mu          sync.Mutex
	available   bool
	lastChecked time.Time
}

func New(cfg config.BridgeConfig, httpClient *http.Client) *Bridge {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Bridge{
		serverURL:     cfg.GetRemoteServerURL(),
		instanceID:    uuid.New().String(),
		httpClient:    httpClient,
		checkInterval: cfg.GetBridgeCheckInterval(),
		probeTimeout:  cfg.GetBridgeProbeTimeout(),
	}
}

// TestConnection probes the primary server's health endpoint and updates the
// cached connectivity flag.
func (b *Bridge) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, b.probeTimeout)
	defer cancel()

	up := false
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.serverURL+"/healthz", nil)
	if err == nil {
		resp, err := b.httpClient.Do(req)
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			up = resp.StatusCode == http.StatusOK
		}
	}

	b.mu.Lock()
	wasUp := b.available
	b.available = up
	b.lastChecked = NowTimeFunc()
	b.mu.Unlock()

	outcome := "down"
	if up {
		outcome = "up"
	}
	metrics.BridgeProbes.WithLabelValues(outcome).Inc()
	if wasUp != up {
		log.Info().Bool("available", up).Str("server", b.serverURL).Msg("Primary server connectivity changed")
	}
	return up
}

// IsServerAvailable returns the cached connectivity flag, refreshing it
// first when it is older than the check interval. Callers tolerate up to one
// interval of staleness.
func (b *Bridge) IsServerAvailable(ctx context.Context) bool {
	b.mu.Lock()
	fresh := NowTimeFunc().Sub(b.lastChecked) < b.checkInterval
	available := b.available
	b.mu.Unlock()

	if fresh {
		return available
	}
	return b.TestConnection(ctx)
}

// Fetch relays a GET to the primary server, decoding the JSON response into
// a generic map. Returns nil without a round-trip when the cached flag is
// down.
func (b *Bridge) Fetch(ctx context.Context, path string) (map[string]any, error) {
	if !b.IsServerAvailable(ctx) {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.serverURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("bridge fetch %s: %w", path, err)
	}
	return b.roundTrip(req, path)
}

// Post relays a JSON POST to the primary server. Returns (false, nil) when
// the cached flag is down.
func (b *Bridge) Post(ctx context.Context, path string, body any) (bool, error) {
	if !b.IsServerAvailable(ctx) {
		return false, nil
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("bridge post %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.serverURL+path, bytes.NewReader(encoded))
	if err != nil {
		return false, fmt.Errorf("bridge post %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if _, err := b.roundTrip(req, path); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Bridge) roundTrip(req *http.Request, path string) (map[string]any, error) {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("bridge request %s: server returned %d", path, resp.StatusCode)
	}

	decoded := map[string]any{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		return nil, fmt.Errorf("bridge response %s: %w", path, err)
	}
	return decoded, nil
}

// SyncRequest is the envelope sent to the primary's sync endpoint.
type SyncRequest struct {
	Resource          string `json:"resource"`
	LastSyncTimestamp string `json:"lastSyncTimestamp"`
}

// SyncResult is the primary's reply.
type SyncResult struct {
	Success           bool   `json:"success"`
	Data              []any  `json:"data"`
	LastSyncTimestamp string `json:"lastSyncTimestamp"`
	HasChanges        bool   `json:"hasChanges"`
}

// SyncData asks the primary for changes to a resource since lastSync.
// Returns nil when the primary is unreachable.
func (b *Bridge) SyncData(ctx context.Context, resource, lastSync string) (*SyncResult, error) {
	if !b.IsServerAvailable(ctx) {
		return nil, nil
	}

	encoded, err := json.Marshal(SyncRequest{Resource: resource, LastSyncTimestamp: lastSync})
	if err != nil {
		return nil, fmt.Errorf("bridge sync %s: %w", resource, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.serverURL+"/api/sync", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("bridge sync %s: %w", resource, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge sync %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("bridge sync %s: server returned %d", resource, resp.StatusCode)
	}

	result := &SyncResult{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("bridge sync %s: %w", resource, err)
	}
	return result, nil
}

// ClientInfo describes this installation for the status endpoint.
type ClientInfo struct {
	Type        string    `json:"type"`
	InstanceID  string    `json:"instance_id"`
	ServerURL   string    `json:"server_url"`
	Available   bool      `json:"server_available"`
	LastChecked time.Time `json:"last_checked"`
}

// Info returns the current connectivity snapshot without probing.
func (b *Bridge) Info() ClientInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ClientInfo{
		Type:        "client",
		InstanceID:  b.instanceID,
		ServerURL:   b.serverURL,
		Available:   b.available,
		LastChecked: b.lastChecked,
	}
}
