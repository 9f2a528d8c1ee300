package session

import (
	"context"
	"strconv"

	"github.com/jrsteele09/go-crypto-dash/internal/metrics"
	"github.com/jrsteele09/go-crypto-dash/storage"
)

// Logout clears the session from memory and storage and redirects to the login
// view. Safe to call when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	s.finishLogout(metrics.ReasonUser, false)
}

// forceLogout is a logout the user did not ask for.
func (s *Store) forceLogout(reason string) {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	s.finishLogout(reason, true)
}

func (s *Store) clearLocked() {
	s.session = Session{}
	s.epoch++
	s.disarmLocked()
}

// finishLogout does the storage and navigation side of a logout once the
// in-memory session has been cleared.
func (s *Store) finishLogout(reason string, forced bool) {
	ctx := context.Background()
	if err := s.repo.Delete(ctx, storage.KeyToken, storage.KeyUser, storage.KeyRefreshToken); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear stored session")
	}
	if err := s.repo.Set(ctx, storage.KeyIsSuperuser, strconv.FormatBool(false)); err != nil {
		s.logger.Error().Err(err).Msg("failed to reset superuser flag")
	}

	s.metrics.Logout(reason)
	s.logger.Info().Str("reason", reason).Bool("forced", forced).Msg("logged out")

	if forced && s.expiryNotice {
		s.notify(msgSessionExpired)
	}
	s.redirect(RouteLogin)
}
