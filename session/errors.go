package session

import "errors"

var (
	// ErrNotAuthenticated is returned by Token while the session is anonymous.
	ErrNotAuthenticated = errors.New("session: not authenticated")

	// ErrNoRefreshToken is returned by Refresh when storage holds no refresh
	// token. The session has been logged out.
	ErrNoRefreshToken = errors.New("session: no refresh token")

	// ErrRefreshFailed is returned by Refresh when the backend rejected the
	// refresh or could not be reached. The session has been logged out.
	ErrRefreshFailed = errors.New("session: refresh failed")
)

// User facing messages.
const (
	msgLoginSuccess   = "Successfully logged in!"
	msgLoginFailed    = "Login failed."
	msgSignupSuccess  = "Successfully signed up!"
	msgSignupFailed   = "Signup failed."
	msgUnknownError   = "An unknown error occurred."
	msgLoggedOut      = "Successfully logged out!"
	msgSessionExpired = "Your session has expired."
)

var errEmptyToken = errors.New("session: backend returned no access token")
