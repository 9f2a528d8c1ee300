package session

import (
	"time"

	"golang.org/x/oauth2"
)

// State of the session lifecycle.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Views the Store redirects to.
const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

// Session is a snapshot of the authenticated identity. Username and AccessToken
// are always both set or both empty.
type Session struct {
	Username    string
	AccessToken string
	IsSuperuser bool
	// ExpiresAt comes from the access token's exp claim; zero when the token is
	// not a JWT or carries no expiry.
	ExpiresAt time.Time
}

func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

func (s Session) State() State {
	if s.IsAuthenticated() {
		return Authenticated
	}
	return Anonymous
}

// OAuth2Token returns the access token in the form the transport attaches.
func (s Session) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: s.AccessToken,
		TokenType:   "Bearer",
		Expiry:      s.ExpiresAt,
	}
}

// Messages are user facing results of Login and Signup, kept until cleared.
type Messages struct {
	Error   string
	Success string
}

// Redirector performs the actual view transition to path.
type Redirector func(path string)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }
