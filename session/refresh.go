package session

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-crypto-dash/apimodel"
	"github.com/jrsteele09/go-crypto-dash/internal/metrics"
	"github.com/jrsteele09/go-crypto-dash/storage"
	"github.com/jrsteele09/go-crypto-dash/transport"
	"golang.org/x/oauth2"
)

const refreshKey = "refresh"

// Refresh exchanges the stored refresh token for a new access token.
//
// Concurrent callers share a single round trip and all receive its result. With
// no refresh token in storage the session is logged out without a network call;
// a rejected or failed refresh logs out too. Neither case sets a message.
func (s *Store) Refresh(ctx context.Context) (*oauth2.Token, error) {
	// One caller's cancellation must not force-logout everyone sharing the call.
	detached := context.WithoutCancel(ctx)
	v, err, joined := s.refreshGroup.Do(refreshKey, func() (any, error) {
		return s.refresh(detached)
	})
	if joined {
		s.logger.Debug().Msg("token refresh shared with concurrent callers")
	}
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.Token), nil
}

func (s *Store) refresh(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	epoch := s.epoch
	username := s.session.Username
	superuser := s.session.IsSuperuser
	s.mu.Unlock()

	refreshToken, ok, err := storage.Lookup(ctx, s.repo, storage.KeyRefreshToken)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read refresh token")
		s.metrics.Refresh("failure")
		s.forceLogout(metrics.ReasonRefreshFailed)
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if !ok {
		s.logger.Info().Msg("no refresh token stored, logging out")
		s.metrics.Refresh("no_token")
		s.forceLogout(metrics.ReasonNoRefreshToken)
		return nil, ErrNoRefreshToken
	}

	var resp apimodel.RefreshResponse
	err = s.api.PostJSON(ctx, apimodel.RouteTokenRefresh, struct{}{}, &resp, transport.WithBearer(refreshToken))
	if err == nil && resp.Access == "" {
		err = errEmptyToken
	}
	if err != nil {
		s.logger.Info().Err(err).Msg("token refresh rejected, logging out")
		s.metrics.Refresh("failure")
		s.forceLogout(metrics.ReasonRefreshFailed)
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	if username == "" {
		// Refreshing from an anonymous state: take the identity from storage so
		// username and token are adopted together.
		username, ok, err = storage.Lookup(ctx, s.repo, storage.KeyUser)
		if err != nil || !ok {
			s.metrics.Refresh("failure")
			s.forceLogout(metrics.ReasonRefreshFailed)
			return nil, fmt.Errorf("%w: no stored user for refreshed token", ErrRefreshFailed)
		}
		su, _, _ := storage.Lookup(ctx, s.repo, storage.KeyIsSuperuser)
		superuser = parseBool(su)
	}

	if s.currentEpoch() != epoch {
		return nil, s.discardRefresh()
	}

	if err := s.repo.Set(ctx, storage.KeyToken, resp.Access); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist refreshed token")
	}

	// The epoch is checked again in the section that adopts the token, so a
	// logout that ran during the write above is never undone.
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.rollbackToken(ctx, resp.Access)
		return nil, s.discardRefresh()
	}
	s.session = Session{
		Username:    username,
		AccessToken: resp.Access,
		IsSuperuser: superuser,
		ExpiresAt:   tokenExpiry(resp.Access),
	}
	if s.timer == nil {
		s.armLocked()
	}
	tok := s.session.OAuth2Token()
	s.mu.Unlock()

	s.metrics.Refresh("success")
	s.logger.Debug().Str("user", username).Msg("access token refreshed")
	return tok, nil
}

func (s *Store) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *Store) discardRefresh() error {
	s.logger.Info().Msg("session ended during refresh, discarding new token")
	s.metrics.Refresh("discarded")
	return fmt.Errorf("%w: session ended during refresh", ErrRefreshFailed)
}

// rollbackToken removes access from storage unless something newer, such as a
// login, has replaced it since.
func (s *Store) rollbackToken(ctx context.Context, access string) {
	stored, ok, err := storage.Lookup(ctx, s.repo, storage.KeyToken)
	if err != nil || !ok || stored != access {
		return
	}
	if err := s.repo.Delete(ctx, storage.KeyToken); err != nil {
		s.logger.Error().Err(err).Msg("failed to remove discarded token")
	}
}
