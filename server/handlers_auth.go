package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-crypto-dash/apimodel"
	"github.com/jrsteele09/go-crypto-dash/internal/errors"
	"github.com/jrsteele09/go-crypto-dash/users"
)

// TokenHandler exchanges username and password for an access/refresh pair.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if strings.TrimSpace(req.Username) == "" || req.Password == "" {
			writeDetail(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		user, err := s.repos.Users.GetByUsername(strings.TrimSpace(req.Username))
		if err != nil || !user.CheckPassword(req.Password) {
			s.logger.Info().Str("user", req.Username).Msg("rejected login")
			writeDetail(w, http.StatusBadRequest, "Invalid credentials")
			return
		}

		pair, err := s.tokens.IssuePair(user)
		if err != nil {
			s.logger.Error().Err(err).Str("user", user.Username).Msg("failed to issue tokens")
			writeDetail(w, http.StatusInternalServerError, "Could not issue tokens")
			return
		}
		if err := s.repos.Users.SetLastLogin(user.Username); err != nil {
			s.logger.Warn().Err(err).Str("user", user.Username).Msg("failed to record last login")
		}

		writeJSON(w, http.StatusOK, apimodel.TokenResponse{
			Access:      pair.Access,
			Refresh:     pair.Refresh,
			IsSuperuser: user.IsSuperuser,
		})
	}
}

// TokenRefreshHandler issues a new access token. The refresh token is read
// from the bearer credential, or from the "refresh" body field.
func (s *Server) TokenRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken, ok := bearerToken(r)
		if !ok {
			var req apimodel.RefreshRequest
			_ = decodeJSON(w, r, &req)
			refreshToken = strings.TrimSpace(req.Refresh)
		}
		if refreshToken == "" {
			writeDetail(w, http.StatusUnauthorized, detailNoCredentials)
			return
		}

		access, err := s.tokens.Refresh(refreshToken)
		if err != nil {
			if !errors.IsCredentialError(err) {
				s.logger.Error().Err(err).Msg("token refresh failed")
				writeDetail(w, http.StatusInternalServerError, "Could not refresh token")
				return
			}
			s.logger.Info().Err(err).Msg("rejected token refresh")
			writeDetail(w, http.StatusUnauthorized, detailRefreshInvalid)
			return
		}
		writeJSON(w, http.StatusOK, apimodel.RefreshResponse{Access: access})
	}
}

// SignupHandler registers a regular (non superuser) account.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.SignupRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)
		if req.Username == "" || req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Username, email and password are required")
			return
		}
		if !strings.Contains(req.Email, "@") {
			writeError(w, http.StatusBadRequest, "Enter a valid email address")
			return
		}
		if _, err := s.repos.Users.GetByUsername(req.Username); err == nil {
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		} else if !errors.Is(err, users.ErrNotFound) {
			s.logger.Error().Err(err).Msg("user lookup failed")
			writeError(w, http.StatusInternalServerError, "Signup failed")
			return
		}
		user, err := users.New(req.Username, req.Email, req.Password, false)
		if errors.Is(err, users.ErrWeakPassword) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err == nil {
			err = s.repos.Users.Upsert(user)
		}
		if err != nil {
			s.logger.Error().Err(err).Str("user", req.Username).Msg("failed to create user")
			writeError(w, http.StatusInternalServerError, "Signup failed")
			return
		}

		s.logger.Info().Str("user", user.Username).Msg("user signed up")
		writeJSON(w, http.StatusCreated, apimodel.SignupResponse{Message: "User created successfully"})
	}
}

// LogoutHandler revokes the caller's access token and refresh token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if err := s.tokens.Logout(claims); err != nil {
			s.logger.Error().Err(err).Str("user", claims.Username).Msg("logout failed")
			writeDetail(w, http.StatusInternalServerError, "Logout failed")
			return
		}
		writeJSON(w, http.StatusOK, apimodel.MessageResponse{Message: "Successfully logged out"})
	}
}

// AdminUsersHandler lists registered accounts. Superusers only.
func (s *Server) AdminUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Users.List(0, 0)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "Could not list users")
			return
		}
		if list == nil {
			list = []*users.User{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
