package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-crypto-dash/apimodel"
	"github.com/jrsteele09/go-crypto-dash/session"
	"github.com/jrsteele09/go-crypto-dash/storage"
	"github.com/jrsteele09/go-crypto-dash/transport"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "alice"
	testPassword = "correct-horse"
)

// fakeBackend implements the four auth endpoints plus one protected data route.
type fakeBackend struct {
	mu sync.Mutex

	loginStatus int
	loginBody   string

	signupStatus int
	signupBody   string

	refreshStatus int
	refreshAccess string
	refreshGate   chan struct{}
	refreshSeen   chan struct{}
	refreshAuth   []string

	logoutStatus int
	logoutAuth   []string

	accepted  string
	dataCalls []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		loginStatus:   http.StatusOK,
		loginBody:     `{"access":"A","refresh":"R","is_superuser":true}`,
		signupStatus:  http.StatusCreated,
		signupBody:    `{"message":"Account created."}`,
		refreshStatus: http.StatusOK,
		refreshAccess: "B",
		logoutStatus:  http.StatusOK,
		accepted:      "B",
	}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case apimodel.RouteToken:
		var req apimodel.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		status, body := b.loginStatus, b.loginBody
		b.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))

	case apimodel.RouteSignup:
		b.mu.Lock()
		status, body := b.signupStatus, b.signupBody
		b.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))

	case apimodel.RouteTokenRefresh:
		b.mu.Lock()
		b.refreshAuth = append(b.refreshAuth, r.Header.Get("Authorization"))
		status, access, gate, seen := b.refreshStatus, b.refreshAccess, b.refreshGate, b.refreshSeen
		b.mu.Unlock()
		if seen != nil {
			seen <- struct{}{}
		}
		if gate != nil {
			<-gate
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(apimodel.RefreshResponse{Access: access})
		} else {
			_, _ = w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
		}

	case apimodel.RouteLogout:
		b.mu.Lock()
		b.logoutAuth = append(b.logoutAuth, r.Header.Get("Authorization"))
		status := b.logoutStatus
		b.mu.Unlock()
		w.WriteHeader(status)

	default:
		b.mu.Lock()
		b.dataCalls = append(b.dataCalls, r.Header.Get("Authorization"))
		accepted := b.accepted
		b.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+accepted {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}
}

// configure mutates the backend under its lock.
func (b *fakeBackend) configure(fn func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func (b *fakeBackend) logoutHeaders() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.logoutAuth...)
}

func (b *fakeBackend) refreshHeaders() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.refreshAuth...)
}

func (b *fakeBackend) dataHeaders() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.dataCalls...)
}

func (b *fakeBackend) refreshCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.refreshAuth)
}

// fakeClock hands out timers that only fire when told to.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) session.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// active returns the timers that have not been stopped.
func (c *fakeClock) active() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

func (c *fakeClock) all() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*fakeTimer(nil), c.timers...)
}

type recorder struct {
	mu        sync.Mutex
	redirects []string
	notices   []string
}

func (r *recorder) redirect(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects = append(r.redirects, path)
}

func (r *recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, message)
}

func (r *recorder) redirectList() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.redirects...)
}

func (r *recorder) noticeList() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

func (r *recorder) lastRedirect() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.redirects) == 0 {
		return ""
	}
	return r.redirects[len(r.redirects)-1]
}

// hookRepo lets a test act right after the store writes a key, or make reads fail.
type hookRepo struct {
	storage.Repo
	mu     sync.Mutex
	onSet  func(key, value string)
	getErr error
}

func (h *hookRepo) Get(ctx context.Context, key string) (string, error) {
	h.mu.Lock()
	err := h.getErr
	h.mu.Unlock()
	if err != nil {
		return "", err
	}
	return h.Repo.Get(ctx, key)
}

func (h *hookRepo) failGets(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.getErr = err
}

func (h *hookRepo) Set(ctx context.Context, key, value string) error {
	err := h.Repo.Set(ctx, key, value)
	h.mu.Lock()
	hook := h.onSet
	h.mu.Unlock()
	if hook != nil {
		hook(key, value)
	}
	return err
}

func (h *hookRepo) afterSet(hook func(key, value string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSet = hook
}

type testFixture struct {
	backend *fakeBackend
	server  *httptest.Server
	repo    *storage.InMemoryRepo
	hooks   *hookRepo
	clock   *fakeClock
	rec     *recorder
	store   *session.Store
	// api is the refreshing client a view would use.
	api *transport.Client
}

func setupTestFixture(t *testing.T, opts ...session.Option) *testFixture {
	t.Helper()

	f := &testFixture{
		backend: newFakeBackend(),
		repo:    storage.NewInMemoryRepo(),
		clock:   &fakeClock{},
		rec:     &recorder{},
	}
	f.hooks = &hookRepo{Repo: f.repo}
	f.server = httptest.NewServer(f.backend)
	t.Cleanup(f.server.Close)

	authClient := transport.NewClient(f.server.URL, transport.New(nil, nil), 0)
	opts = append([]session.Option{
		session.WithAfterFunc(f.clock.AfterFunc),
		session.WithNotifier(f.rec),
	}, opts...)
	f.store = session.New(f.hooks, authClient, f.rec.redirect, opts...)
	t.Cleanup(f.store.Close)

	f.api = transport.NewClient(f.server.URL, transport.New(f.store, f.store), 0)
	return f
}

// seed writes a stored session as a previous run would have left it.
func (f *testFixture) seed(t *testing.T, values map[string]string) {
	t.Helper()
	for k, v := range values {
		require.NoError(t, f.repo.Set(context.Background(), k, v))
	}
}

func (f *testFixture) stored(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, err := f.repo.Get(context.Background(), key)
	if err != nil {
		require.ErrorIs(t, err, storage.ErrNotFound)
		return "", false
	}
	return v, true
}

func (f *testFixture) login(t *testing.T) {
	t.Helper()
	f.store.Login(context.Background(), testUser, testPassword)
	require.True(t, f.store.Snapshot().IsAuthenticated())
}
