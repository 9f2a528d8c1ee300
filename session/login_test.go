package session_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-crypto-dash/session"
	"github.com/jrsteele09/go-crypto-dash/storage"
	"github.com/stretchr/testify/require"
)

func TestHydrate(t *testing.T) {
	t.Run("empty storage stays anonymous", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.Hydrate(context.Background()))
		require.Equal(t, session.Anonymous, f.store.Snapshot().State())
		require.Empty(t, f.clock.all())
	})

	t.Run("token without user stays anonymous", func(t *testing.T) {
		f := setupTestFixture(t)
		f.seed(t, map[string]string{storage.KeyToken: "A"})
		require.NoError(t, f.store.Hydrate(context.Background()))
		require.Equal(t, session.Anonymous, f.store.Snapshot().State())
	})

	t.Run("stored credentials are adopted", func(t *testing.T) {
		f := setupTestFixture(t)
		f.seed(t, map[string]string{
			storage.KeyToken:        "A",
			storage.KeyRefreshToken: "R",
			storage.KeyUser:         testUser,
			storage.KeyIsSuperuser:  "true",
		})

		require.NoError(t, f.store.Hydrate(context.Background()))
		snap := f.store.Snapshot()
		require.Equal(t, session.Authenticated, snap.State())
		require.Equal(t, testUser, snap.Username)
		require.Equal(t, "A", snap.AccessToken)
		require.True(t, snap.IsSuperuser)
		require.Len(t, f.clock.active(), 1)

		// Idempotent.
		require.NoError(t, f.store.Hydrate(context.Background()))
		require.Equal(t, snap, f.store.Snapshot())
		require.Len(t, f.clock.active(), 1)
	})

	t.Run("hydrated session equals the one login produced", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		loggedIn := f.store.Snapshot()

		g := setupTestFixture(t)
		g.seed(t, f.repo.Snapshot())
		require.NoError(t, g.store.Hydrate(context.Background()))
		require.Equal(t, loggedIn, g.store.Snapshot())
	})
}

func TestLogin(t *testing.T) {
	t.Run("success persists the session and redirects home", func(t *testing.T) {
		f := setupTestFixture(t)
		f.store.Login(context.Background(), testUser, testPassword)

		snap := f.store.Snapshot()
		require.Equal(t, session.Authenticated, snap.State())
		require.Equal(t, testUser, snap.Username)
		require.Equal(t, "A", snap.AccessToken)
		require.True(t, snap.IsSuperuser)

		require.Equal(t, map[string]string{
			storage.KeyToken:        "A",
			storage.KeyRefreshToken: "R",
			storage.KeyUser:         testUser,
			storage.KeyIsSuperuser:  "true",
		}, f.repo.Snapshot())

		require.Equal(t, session.Messages{Success: "Successfully logged in!"}, f.store.Messages())
		require.Equal(t, session.RouteHome, f.rec.lastRedirect())
		require.Len(t, f.clock.active(), 1)
		require.Equal(t, session.DefaultInactivityTimeout, f.clock.active()[0].d)
	})

	t.Run("invalid credentials keep the session anonymous", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.configure(func(b *fakeBackend) {
			b.loginStatus = http.StatusBadRequest
			b.loginBody = `{"detail":"Invalid credentials"}`
		})

		f.store.Login(context.Background(), testUser, "wrong-pw")

		require.Equal(t, session.Anonymous, f.store.Snapshot().State())
		require.Equal(t, session.Messages{Error: "Invalid credentials"}, f.store.Messages())
		require.Empty(t, f.repo.Snapshot())
		require.Empty(t, f.rec.redirectList())
		require.Empty(t, f.clock.all())
	})

	t.Run("unreadable error body falls back to a generic message", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.configure(func(b *fakeBackend) {
			b.loginStatus = http.StatusInternalServerError
			b.loginBody = `<html>oops</html>`
		})

		f.store.Login(context.Background(), testUser, testPassword)
		require.Equal(t, "Login failed.", f.store.Messages().Error)
	})

	t.Run("error body without detail falls back to a generic message", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.configure(func(b *fakeBackend) {
			b.loginStatus = http.StatusBadRequest
			b.loginBody = `{}`
		})

		f.store.Login(context.Background(), testUser, testPassword)
		require.Equal(t, "Login failed.", f.store.Messages().Error)
	})

	t.Run("empty access token counts as failure", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.configure(func(b *fakeBackend) {
			b.loginBody = `{"refresh":"R"}`
		})

		f.store.Login(context.Background(), testUser, testPassword)
		require.Equal(t, session.Anonymous, f.store.Snapshot().State())
		require.Equal(t, "Login failed.", f.store.Messages().Error)
	})

	t.Run("unreachable backend reports an unknown error", func(t *testing.T) {
		f := setupTestFixture(t)
		f.server.Close()

		f.store.Login(context.Background(), testUser, testPassword)
		require.Equal(t, session.Anonymous, f.store.Snapshot().State())
		require.Equal(t, "An unknown error occurred.", f.store.Messages().Error)
	})

	t.Run("failure leaves an existing session untouched", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		before := f.store.Snapshot()

		f.backend.configure(func(b *fakeBackend) {
			b.loginStatus = http.StatusBadRequest
			b.loginBody = `{"detail":"Invalid credentials"}`
		})
		f.store.Login(context.Background(), "bob", "nope")

		require.Equal(t, before, f.store.Snapshot())
		require.Equal(t, session.Messages{Error: "Invalid credentials"}, f.store.Messages())
		stored, _ := f.stored(t, storage.KeyUser)
		require.Equal(t, testUser, stored)
	})

	t.Run("expiry is read from a JWT access token", func(t *testing.T) {
		f := setupTestFixture(t)
		exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
		access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": testUser,
			"exp": exp.Unix(),
		}).SignedString([]byte("unknown-to-the-client"))
		require.NoError(t, err)
		f.backend.configure(func(b *fakeBackend) {
			b.loginBody = `{"access":"` + access + `","refresh":"R","is_superuser":false}`
		})

		f.store.Login(context.Background(), testUser, testPassword)
		snap := f.store.Snapshot()
		require.True(t, exp.Equal(snap.ExpiresAt))
		require.False(t, snap.IsSuperuser)

		tok, err := f.store.Token()
		require.NoError(t, err)
		require.Equal(t, access, tok.AccessToken)
		require.True(t, exp.Equal(tok.Expiry))
	})
}

func TestSignup(t *testing.T) {
	t.Run("success redirects to login without logging in", func(t *testing.T) {
		f := setupTestFixture(t)
		f.store.Signup(context.Background(), testUser, "alice@example.com", testPassword)

		require.Equal(t, session.Anonymous, f.store.Snapshot().State())
		require.Empty(t, f.repo.Snapshot())
		require.Equal(t, session.Messages{Success: "Account created."}, f.store.Messages())
		require.Equal(t, session.RouteLogin, f.rec.lastRedirect())
	})

	t.Run("success without a message uses the default", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.configure(func(b *fakeBackend) {
			b.signupBody = `{}`
		})

		f.store.Signup(context.Background(), testUser, "alice@example.com", testPassword)
		require.Equal(t, "Successfully signed up!", f.store.Messages().Success)
	})

	t.Run("backend error text is shown", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.configure(func(b *fakeBackend) {
			b.signupStatus = http.StatusBadRequest
			b.signupBody = `{"error":"Username already exists"}`
		})

		f.store.Signup(context.Background(), testUser, "alice@example.com", testPassword)
		require.Equal(t, session.Messages{Error: "Username already exists"}, f.store.Messages())
		require.Empty(t, f.rec.redirectList())
	})

	t.Run("unreadable error body falls back", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.configure(func(b *fakeBackend) {
			b.signupStatus = http.StatusBadGateway
			b.signupBody = `bad gateway`
		})

		f.store.Signup(context.Background(), testUser, "alice@example.com", testPassword)
		require.Equal(t, "Signup failed.", f.store.Messages().Error)
	})

	t.Run("signup does not disturb an existing session", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		before := f.store.Snapshot()

		f.store.Signup(context.Background(), "bob", "bob@example.com", "pw")
		require.Equal(t, before, f.store.Snapshot())
	})
}

func TestMessages(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.configure(func(b *fakeBackend) {
		b.loginStatus = http.StatusBadRequest
		b.loginBody = `{"detail":"Invalid credentials"}`
	})
	f.store.Login(context.Background(), testUser, "wrong-pw")
	require.NotEmpty(t, f.store.Messages().Error)

	f.backend.configure(func(b *fakeBackend) {
		b.loginStatus = http.StatusOK
		b.loginBody = `{"access":"A","refresh":"R"}`
	})
	f.store.Login(context.Background(), testUser, testPassword)
	require.Equal(t, session.Messages{Success: "Successfully logged in!"}, f.store.Messages())

	f.store.ClearMessages()
	require.Equal(t, session.Messages{}, f.store.Messages())
}

func TestEndSession(t *testing.T) {
	t.Run("tells the backend then clears locally", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)

		f.store.EndSession(context.Background())

		require.Equal(t, []string{"Bearer A"}, f.backend.logoutHeaders())
		require.Equal(t, session.Anonymous, f.store.Snapshot().State())
		require.Equal(t, []string{"Successfully logged out!"}, f.rec.noticeList())
		require.Equal(t, session.RouteLogin, f.rec.lastRedirect())
	})

	t.Run("backend failure still clears locally", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		f.backend.configure(func(b *fakeBackend) {
			b.logoutStatus = http.StatusInternalServerError
		})

		f.store.EndSession(context.Background())
		require.Equal(t, session.Anonymous, f.store.Snapshot().State())
		_, ok := f.stored(t, storage.KeyToken)
		require.False(t, ok)
	})

	t.Run("anonymous session skips the backend", func(t *testing.T) {
		f := setupTestFixture(t)
		f.store.EndSession(context.Background())
		require.Empty(t, f.backend.logoutHeaders())
		require.Equal(t, session.RouteLogin, f.rec.lastRedirect())
	})
}
