package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/suitsync/pos-gateway/internal/config"
)

func TestGetPortPrefixesColon(t *testing.T) {
	t.Setenv("PORT", "8080")
	require.Equal(t, ":8080", config.EnvVars{}.GetPort())
}

func TestGetPortKeepsExistingColon(t *testing.T) {
	t.Setenv("PORT", ":8080")
	require.Equal(t, ":8080", config.EnvVars{}.GetPort())
}

func TestGetPortDefault(t *testing.T) {
	t.Setenv("PORT", "")
	require.Equal(t, ":3001", config.EnvVars{}.GetPort())
}

func TestGetSessionRetentionDefaultsOnBadValue(t *testing.T) {
	t.Setenv("SESSION_RETENTION_DAYS", "not-a-number")
	require.Equal(t, 30*24*time.Hour, config.Session{}.GetSessionRetention())
}

func TestGetSessionRetentionFromEnv(t *testing.T) {
	t.Setenv("SESSION_RETENTION_DAYS", "7")
	require.Equal(t, 7*24*time.Hour, config.Session{}.GetSessionRetention())
}
