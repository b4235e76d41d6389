package config

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

const (
	sessionSecretVar = "SESSION_SECRET"
	sessionMaxAgeVar = "SESSION_MAX_AGE"

	defaultSessionMaxAge = 30 * 24 * time.Hour
	minSecretLength      = 32
)

type Security struct{}

var _ SecurityConfig = Security{}

var (
	devSecretOnce sync.Once
	devSecret     []byte
)

// GetSessionSecret returns the HMAC key for session cookies. Outside DEV it must be
// configured; in DEV a random key is generated once per process.
func (Security) GetSessionSecret() ([]byte, error) {
	if secret := GetEnv(sessionSecretVar, ""); secret != "" {
		if len(secret) < minSecretLength {
			return nil, fmt.Errorf("%s must be at least %d characters", sessionSecretVar, minSecretLength)
		}
		return []byte(secret), nil
	}
	if environment() != "DEV" {
		return nil, fmt.Errorf("%s is required outside DEV", sessionSecretVar)
	}
	devSecretOnce.Do(func() {
		devSecret = make([]byte, minSecretLength)
		_, _ = rand.Read(devSecret)
	})
	return devSecret, nil
}

func (Security) GetMaxSessionAge() time.Duration {
	return GetDuration(sessionMaxAgeVar, defaultSessionMaxAge)
}

func (Security) GetSessionCookieName() string {
	return "session_token"
}

func (Security) GetLoginFlowTimeout() time.Duration {
	return 10 * time.Minute
}
