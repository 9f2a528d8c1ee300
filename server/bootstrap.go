package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/jrsteele09/go-crypto-dash/internal/errors"
	"github.com/jrsteele09/go-crypto-dash/users"
)

// InitialiseSystem makes sure the configured superuser exists. When no admin
// password is configured one is generated and returned on first creation
// (empty string if the user already existed).
func (s *Server) InitialiseSystem(_ context.Context) (generatedPassword string, err error) {
	username := s.config.GetAdminUsername()
	if _, err := s.repos.Users.GetByUsername(username); err == nil {
		s.logger.Debug().Str("user", username).Msg("bootstrap: superuser already exists")
		return "", nil
	} else if !errors.Is(err, users.ErrNotFound) {
		return "", fmt.Errorf("failed to look up superuser: %w", err)
	}

	password := s.config.GetAdminPassword()
	if password == "" {
		password = generatePassword()
		generatedPassword = password
	}

	admin, err := users.New(username, username+"@localhost", password, true)
	if err != nil {
		return "", fmt.Errorf("failed to create superuser: %w", err)
	}
	if err := s.repos.Users.Upsert(admin); err != nil {
		return "", fmt.Errorf("failed to store superuser: %w", err)
	}

	event := s.logger.Info().Str("user", username)
	if generatedPassword != "" {
		// Shown once; the backend keeps only the hash.
		event = event.Str("password", generatedPassword)
	}
	event.Msg("bootstrap: superuser created")
	return generatedPassword, nil
}

// generatePassword satisfies users.ValidatePasswordStrength.
func generatePassword() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return "Dash1" + base64.RawURLEncoding.EncodeToString(b)
}
