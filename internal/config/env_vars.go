package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar             = "PORT"
	appNameVar             = "APP_NAME"
	baseURLVar             = "BASE_URL"
	identityURLVar         = "IDENTITY_URL"
	identityTimeoutVar     = "IDENTITY_TIMEOUT"
	logLevelVar            = "LOG_LEVEL"
	logFileVar             = "LOG_FILE"
	envVar                 = "ENV"
	metricsEnabledVar      = "METRICS_ENABLED"
	defaultIdentityURL     = "http://localhost:8000"
	defaultIdentityTimeout = 10 * time.Second
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "User Management System")
}

// GetBaseURL returns the public URL of the front end (e.g., "https://ums.example.com")
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

// GetIdentityURL returns the base URL of the backend identity service
func (EnvVars) GetIdentityURL() string {
	return strings.TrimRight(GetEnv(identityURLVar, defaultIdentityURL), "/")
}

func (EnvVars) GetIdentityTimeout() time.Duration {
	return GetDuration(identityTimeoutVar, defaultIdentityTimeout)
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "")
}

func (EnvVars) GetLogFile() string {
	return GetEnv(logFileVar, "")
}

// GetMetricsEnabled reports whether /metrics is served. Off unless METRICS_ENABLED parses as true.
func (EnvVars) GetMetricsEnabled() bool {
	enabled, err := strconv.ParseBool(os.Getenv(metricsEnabledVar))
	return err == nil && enabled
}

func (EnvVars) GetEnv() string {
	return environment()
}

func environment() string {
	env := os.Getenv(envVar)
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses a Go duration from an env var, falling back to defaultValue
// when the variable is unset or unparseable
func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
