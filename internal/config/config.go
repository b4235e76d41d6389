package config

import (
	"time"

	"github.com/Sajjadhussain197/umsfront/gate"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	AccessConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetIdentityURL() string
	GetIdentityTimeout() time.Duration
	GetLogLevel() string
	GetLogFile() string
	GetMetricsEnabled() bool
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type SecurityConfig interface {
	GetSessionSecret() ([]byte, error)
	GetMaxSessionAge() time.Duration
	GetSessionCookieName() string
	GetLoginFlowTimeout() time.Duration
}

type AccessConfig interface {
	GetAccessRules() gate.Rules
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Access
}

func New() Config {
	return mainConfig{}
}
