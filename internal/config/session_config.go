package config

import "time"

type SessionConfig interface {
	GetInactivityTimeout() time.Duration
	GetExpiryNotice() bool
}

type Session struct{}

var _ SessionConfig = Session{}

// GetInactivityTimeout is how long an authenticated session may go without
// user input before it is logged out.
func (Session) GetInactivityTimeout() time.Duration {
	return GetDuration("INACTIVITY_TIMEOUT", 30*time.Minute)
}

// GetExpiryNotice enables the "session expired" notification on forced logout.
// Off by default: forced logout is silent.
func (Session) GetExpiryNotice() bool {
	return GetBool("SESSION_EXPIRY_NOTICE", false)
}
