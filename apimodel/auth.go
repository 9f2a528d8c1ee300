// Package apimodel holds the JSON bodies exchanged with the dashboard backend.
package apimodel

// LoginRequest is the body of POST /api/token/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by POST /api/token/ on successful login.
type TokenResponse struct {
	// Access is the short-lived bearer credential.
	// Usage: Authorization: Bearer <access>
	Access string `json:"access"`

	// Refresh is exchanged at /api/token/refresh/ for a new access token.
	// It is sent as the bearer credential of that call, never as a body field.
	Refresh string `json:"refresh"`

	// IsSuperuser gates the administrative views.
	IsSuperuser bool `json:"is_superuser"`
}

// RefreshResponse is returned by POST /api/token/refresh/.
type RefreshResponse struct {
	Access string `json:"access"`
}

// RefreshRequest is accepted as an alternative to sending the refresh token as
// the bearer credential.
type RefreshRequest struct {
	Refresh string `json:"refresh,omitempty"`
}

// SignupRequest is the body of POST /api/signup/.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse is returned by POST /api/signup/ on success.
type SignupResponse struct {
	Message string `json:"message,omitempty"`
}

// ErrorResponse covers both error shapes the backend produces: token endpoints
// report "detail", signup reports "error".
type ErrorResponse struct {
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// MessageResponse is a generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
