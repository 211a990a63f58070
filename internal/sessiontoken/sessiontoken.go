package sessiontoken

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the minimal identity carried by the session cookie. The cookie
// only names which session row to load; tokens and profile live server-side.
type Claims struct {
	UserID           string
	BrowserSessionID string
}

// Sign creates an HS256 session token for a user/device pair.
func Sign(secret string, claims Claims, expiry time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("session secret is not configured")
	}
	now := NowTimeFunc()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": claims.UserID,
		"sid": claims.BrowserSessionID,
		"iat": now.Unix(),
		"exp": now.Add(expiry).Unix(),
		"jti": uuid.New().String(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates a session token and returns its claims.
func Parse(secret, tokenString string) (*Claims, error) {
	token, err := jwtlib.Parse(tokenString, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid session token claims")
	}
	userID, _ := mapClaims["sub"].(string)
	sessionID, _ := mapClaims["sid"].(string)
	if userID == "" || sessionID == "" {
		return nil, fmt.Errorf("session token missing identity claims")
	}
	return &Claims{UserID: userID, BrowserSessionID: sessionID}, nil
}
