package session

import (
	"context"

	"github.com/jrsteele09/go-crypto-dash/apimodel"
	"github.com/jrsteele09/go-crypto-dash/transport"
)

// Login exchanges credentials for a token pair. The outcome is reported through
// Messages, never as an error: on failure the previous session is left untouched.
func (s *Store) Login(ctx context.Context, username, password string) {
	var resp apimodel.TokenResponse
	err := s.api.PostJSON(ctx, apimodel.RouteToken, apimodel.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err == nil && resp.Access == "" {
		err = errEmptyToken
	}
	if err != nil {
		s.metrics.Login("failure")
		s.logger.Info().Err(err).Str("user", username).Msg("login failed")
		s.setMessages(Messages{Error: failureMessage(err, msgLoginFailed, func(e apimodel.ErrorResponse) string { return e.Detail })})
		return
	}

	s.adopt(ctx, username, resp.Access, resp.Refresh, resp.IsSuperuser)
	s.setMessages(Messages{Success: msgLoginSuccess})
	s.metrics.Login("success")
	s.logger.Info().Str("user", username).Bool("superuser", resp.IsSuperuser).Msg("logged in")
	s.redirect(RouteHome)
}

// Signup registers a new account. It never logs the user in; on success the
// user is sent to the login view.
func (s *Store) Signup(ctx context.Context, username, email, password string) {
	var resp apimodel.SignupResponse
	err := s.api.PostJSON(ctx, apimodel.RouteSignup, apimodel.SignupRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		s.logger.Info().Err(err).Str("user", username).Msg("signup failed")
		s.setMessages(Messages{Error: failureMessage(err, msgSignupFailed, func(e apimodel.ErrorResponse) string { return e.Error })})
		return
	}

	msg := resp.Message
	if msg == "" {
		msg = msgSignupSuccess
	}
	s.setMessages(Messages{Success: msg})
	s.logger.Info().Str("user", username).Msg("signed up")
	s.redirect(RouteLogin)
}

// EndSession is the user's explicit logout: the backend is told first, best
// effort, and the local session is cleared whatever it answers.
func (s *Store) EndSession(ctx context.Context) {
	if snap := s.Snapshot(); snap.IsAuthenticated() {
		if err := s.api.PostJSON(ctx, apimodel.RouteLogout, nil, nil, transport.WithBearer(snap.AccessToken)); err != nil {
			s.logger.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
		}
	}
	s.Logout()
	s.notify(msgLoggedOut)
}

// failureMessage derives the user facing message for a failed credential call:
// the backend's own text when it sent one, fallback when its body is unreadable,
// and the generic message when no response arrived at all.
func failureMessage(err error, fallback string, pick func(apimodel.ErrorResponse) string) string {
	if err == errEmptyToken {
		return fallback
	}
	se, ok := transport.AsStatusError(err)
	if !ok {
		return msgUnknownError
	}
	var body apimodel.ErrorResponse
	if decodeErr := se.Decode(&body); decodeErr != nil {
		return fallback
	}
	if msg := pick(body); msg != "" {
		return msg
	}
	return fallback
}
