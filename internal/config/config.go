package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	SessionConfig
	StorageConfig
	TokenConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
	GetLogLevel() string
	GetLogFormat() string
	GetTracingEnabled() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Session
	Storage
	Token
	Cors
}

var loadDotEnv sync.Once

// New returns the environment backed configuration. A .env file in the working
// directory is loaded on first use; variables already set in the process win.
func New() Config {
	loadDotEnv.Do(func() {
		_ = godotenv.Load(".env")
	})
	return mainConfig{}
}
