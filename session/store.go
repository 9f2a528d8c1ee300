package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jrsteele09/go-crypto-dash/internal/metrics"
	"github.com/jrsteele09/go-crypto-dash/storage"
	"github.com/jrsteele09/go-crypto-dash/transport"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// DefaultInactivityTimeout is how long an authenticated session may sit idle.
const DefaultInactivityTimeout = 30 * time.Minute

// Timer is the part of *time.Timer the inactivity timer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d; time.AfterFunc in production.
type AfterFunc func(d time.Duration, f func()) Timer

var (
	_ oauth2.TokenSource  = (*Store)(nil)
	_ transport.Refresher = (*Store)(nil)
)

// Store owns the session state. All methods are safe for concurrent use.
type Store struct {
	repo     storage.Repo
	api      *transport.Client
	redirect Redirector
	notifier Notifier
	logger   zerolog.Logger
	metrics  *metrics.Metrics

	inactivity   time.Duration
	expiryNotice bool
	afterFunc    AfterFunc

	refreshGroup singleflight.Group

	mu       sync.Mutex
	session  Session
	messages Messages
	// epoch changes on every logout so a refresh that raced one is discarded.
	epoch    uint64
	timer    Timer
	timerGen uint64
	closed   bool
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithInactivityTimeout sets the idle window; zero or negative disables the timer.
func WithInactivityTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.inactivity = d
	}
}

// WithExpiryNotice makes forced logouts notify the user that the session expired.
func WithExpiryNotice(enabled bool) Option {
	return func(s *Store) {
		s.expiryNotice = enabled
	}
}

// WithAfterFunc replaces the timer scheduler (primarily for testing).
func WithAfterFunc(f AfterFunc) Option {
	return func(s *Store) {
		s.afterFunc = f
	}
}

// New creates an anonymous Store. api must not be wrapped in a refreshing
// Transport: a rejected login is a credential error, not a stale token.
func New(repo storage.Repo, api *transport.Client, redirect Redirector, opts ...Option) *Store {
	s := &Store{
		repo:       repo,
		api:        api,
		redirect:   redirect,
		logger:     zerolog.Nop(),
		inactivity: DefaultInactivityTimeout,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.redirect == nil {
		s.redirect = func(string) {}
	}
	return s
}

// Hydrate adopts credentials left in storage by a previous run. It makes no
// network call and may be called repeatedly.
func (s *Store) Hydrate(ctx context.Context) error {
	token, hasToken, err := storage.Lookup(ctx, s.repo, storage.KeyToken)
	if err != nil {
		return err
	}
	user, hasUser, err := storage.Lookup(ctx, s.repo, storage.KeyUser)
	if err != nil {
		return err
	}
	if !hasToken || !hasUser {
		s.logger.Debug().Msg("no stored session to hydrate")
		return nil
	}
	superuser, _, err := storage.Lookup(ctx, s.repo, storage.KeyIsSuperuser)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{
		Username:    user,
		AccessToken: token,
		IsSuperuser: parseBool(superuser),
		ExpiresAt:   tokenExpiry(token),
	}
	s.armLocked()
	s.logger.Info().Str("user", user).Msg("session hydrated from storage")
	return nil
}

// Snapshot returns the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Token implements oauth2.TokenSource.
func (s *Store) Token() (*oauth2.Token, error) {
	snap := s.Snapshot()
	if !snap.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return snap.OAuth2Token(), nil
}

// Messages returns the pending user facing messages.
func (s *Store) Messages() Messages {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages
}

// ClearMessages drops pending messages once the UI has shown them.
func (s *Store) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = Messages{}
}

// Close disarms the inactivity timer. The session itself is left as is.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.disarmLocked()
}

// adopt makes username/access the current session and persists it. refresh is
// only written when not empty.
func (s *Store) adopt(ctx context.Context, username, access, refresh string, superuser bool) {
	writes := []struct{ key, value string }{
		{storage.KeyToken, access},
		{storage.KeyUser, username},
		{storage.KeyIsSuperuser, strconv.FormatBool(superuser)},
	}
	if refresh != "" {
		writes = append(writes, struct{ key, value string }{storage.KeyRefreshToken, refresh})
	}
	for _, w := range writes {
		if err := s.repo.Set(ctx, w.key, w.value); err != nil {
			s.logger.Error().Err(err).Str("key", w.key).Msg("failed to persist session key")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{
		Username:    username,
		AccessToken: access,
		IsSuperuser: superuser,
		ExpiresAt:   tokenExpiry(access),
	}
	s.armLocked()
}

func (s *Store) setMessages(m Messages) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = m
}

func (s *Store) notify(message string) {
	if s.notifier != nil {
		s.notifier.Notify(message)
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
