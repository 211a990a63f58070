package config

import (
	"strconv"
	"time"
)

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionExpiry() time.Duration
	GetSessionRetention() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "")
}

func (Session) GetSessionExpiry() time.Duration {
	return 24 * time.Hour
}

// GetSessionRetention returns how long an expired session row is kept before
// the cleanup sweep hard-deletes it.
func (Session) GetSessionRetention() time.Duration {
	days, err := strconv.Atoi(GetEnv("SESSION_RETENTION_DAYS", "30"))
	if err != nil || days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}
