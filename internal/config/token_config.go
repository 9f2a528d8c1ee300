package config

import "time"

// TokenConfig is only read by the development backend.
type TokenConfig interface {
	GetJWTSecret() string
	GetRefreshTokenLength() int
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetAdminUsername() string
	GetAdminPassword() string
}

type Token struct{}

var _ TokenConfig = Token{}

func (Token) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "dev-secret-change-me")
}

func (Token) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func (Token) GetAccessTokenExpiry() time.Duration {
	return GetDuration("ACCESS_TOKEN_EXPIRY", 5*time.Minute)
}

func (Token) GetRefreshTokenExpiry() time.Duration {
	return GetDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour)
}

// GetAdminUsername is the superuser the development backend seeds on start.
func (Token) GetAdminUsername() string {
	return GetEnv("ADMIN_USERNAME", "admin")
}

// GetAdminPassword is empty unless set, in which case a password is generated
// and logged once.
func (Token) GetAdminPassword() string {
	return GetEnv("ADMIN_PASSWORD", "")
}
