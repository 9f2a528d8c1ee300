package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-crypto-dash/session"
	"github.com/jrsteele09/go-crypto-dash/storage"
	"github.com/stretchr/testify/require"
)

func TestInactivityTimeout(t *testing.T) {
	t.Run("idle session is logged out", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)

		timers := f.clock.active()
		require.Len(t, timers, 1)
		timers[0].f()

		require.Equal(t, session.Anonymous, f.store.Snapshot().State())
		requireLoggedOutStorage(t, f)
		require.Equal(t, session.RouteLogin, f.rec.lastRedirect())
		require.Empty(t, f.rec.noticeList())
	})

	t.Run("activity restarts the window", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		first := f.clock.active()[0]

		f.store.Activity()
		require.True(t, first.stopped)
		active := f.clock.active()
		require.Len(t, active, 1)
		require.NotSame(t, first, active[0])

		// A callback from the superseded timer is ignored.
		first.f()
		require.Equal(t, session.Authenticated, f.store.Snapshot().State())

		active[0].f()
		require.Equal(t, session.Anonymous, f.store.Snapshot().State())
	})

	t.Run("activity while anonymous arms nothing", func(t *testing.T) {
		f := setupTestFixture(t)
		f.store.Activity()
		require.Empty(t, f.clock.all())
	})

	t.Run("logout disarms the timer", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		timer := f.clock.active()[0]

		f.store.Logout()
		require.True(t, timer.stopped)
		redirects := len(f.rec.redirectList())

		timer.f()
		require.Len(t, f.rec.redirectList(), redirects)
	})

	t.Run("custom window", func(t *testing.T) {
		f := setupTestFixture(t, session.WithInactivityTimeout(time.Minute))
		f.login(t)
		require.Equal(t, time.Minute, f.clock.active()[0].d)
	})

	t.Run("disabled window", func(t *testing.T) {
		f := setupTestFixture(t, session.WithInactivityTimeout(0))
		f.login(t)
		require.Empty(t, f.clock.all())
	})

	t.Run("expiry notice when enabled", func(t *testing.T) {
		f := setupTestFixture(t, session.WithExpiryNotice(true))
		f.login(t)
		f.clock.active()[0].f()
		require.Equal(t, []string{"Your session has expired."}, f.rec.noticeList())
	})

	t.Run("close stops the timer and keeps the session", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		timer := f.clock.active()[0]

		f.store.Close()
		require.True(t, timer.stopped)
		require.Equal(t, session.Authenticated, f.store.Snapshot().State())

		f.store.Activity()
		require.Empty(t, f.clock.active())
	})
}

func TestInactivityTimeoutRealClock(t *testing.T) {
	repo := storage.NewInMemoryRepo()
	store := session.New(repo, nil, nil, session.WithInactivityTimeout(20*time.Millisecond))
	t.Cleanup(store.Close)

	require.NoError(t, repo.Set(context.Background(), storage.KeyToken, "A"))
	require.NoError(t, repo.Set(context.Background(), storage.KeyUser, testUser))
	require.NoError(t, store.Hydrate(context.Background()))
	require.Equal(t, session.Authenticated, store.Snapshot().State())

	require.Eventually(t, func() bool {
		return store.Snapshot().State() == session.Anonymous
	}, time.Second, 5*time.Millisecond)

	_, err := repo.Get(context.Background(), storage.KeyToken)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGuard(t *testing.T) {
	anonymous := session.Session{}
	user := session.Session{Username: testUser, AccessToken: "A"}
	admin := session.Session{Username: "root", AccessToken: "A", IsSuperuser: true}

	tests := []struct {
		name          string
		snap          session.Session
		superuserOnly bool
		allowed       bool
		redirect      string
	}{
		{"anonymous on protected view", anonymous, false, false, session.RouteLogin},
		{"anonymous on admin view", anonymous, true, false, session.RouteLogin},
		{"user on protected view", user, false, true, ""},
		{"user on admin view", user, true, false, session.RouteHome},
		{"superuser on admin view", admin, true, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, redirect := session.Guard(tt.snap, tt.superuserOnly)
			require.Equal(t, tt.allowed, allowed)
			require.Equal(t, tt.redirect, redirect)
		})
	}
}
