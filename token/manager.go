package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-crypto-dash/internal/errors"
	"github.com/jrsteele09/go-crypto-dash/token/refresh"
	"github.com/jrsteele09/go-crypto-dash/users"
	"github.com/pkg/errors"
)

// Claims are the validated contents of an access token.
type Claims struct {
	UserID      string
	Username    string
	IsSuperuser bool
	ID          string // jti
	ExpiresAt   time.Time
}

// Pair is what a successful login hands to the client.
type Pair struct {
	Access  string
	Refresh string
}

type Manager struct {
	signer            Signer
	refresh           *refresh.Manager
	userRepo          users.UserRepo
	revokedCache      RevokedTokenCache
	accessTokenExpiry time.Duration
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithRevokedTokenCache(cache RevokedTokenCache) ManagerOption {
	return func(m *Manager) {
		m.revokedCache = cache
	}
}

func New(signer Signer, refreshManager *refresh.Manager, userRepo users.UserRepo, options ...ManagerOption) *Manager {
	m := &Manager{
		signer:       signer,
		refresh:      refreshManager,
		userRepo:     userRepo,
		revokedCache: NewInMemoryRevokedTokenCache(),
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = 5 * time.Minute
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// CreateAccessToken signs a short lived access token for user.
func (m *Manager) CreateAccessToken(user *users.User) (string, error) {
	now := m.nowFunc()
	return m.signer.Sign(accessClaims{
		Username:    user.Username,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenExpiry)),
			ID:        uuid.NewString(),
		},
	})
}

// IssuePair creates an access token and a fresh refresh token for user.
func (m *Manager) IssuePair(user *users.User) (Pair, error) {
	access, err := m.CreateAccessToken(user)
	if err != nil {
		return Pair{}, errors.Wrap(err, "Manager.IssuePair CreateAccessToken")
	}
	refreshToken, err := m.refresh.Create(user.ID)
	if err != nil {
		return Pair{}, errors.Wrap(err, "Manager.IssuePair Create")
	}
	return Pair{Access: access, Refresh: refreshToken}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh token
// itself is not rotated.
func (m *Manager) Refresh(refreshToken string) (string, error) {
	rt, err := m.refresh.Validate(refreshToken)
	if err != nil {
		return "", err
	}
	user, err := m.userRepo.GetByID(rt.UserID)
	if err != nil {
		return "", errors.Wrap(apperrors.ErrInvalidRefreshToken, "user not found for refresh token")
	}
	access, err := m.CreateAccessToken(user)
	if err != nil {
		return "", errors.Wrap(err, "failed to create access token")
	}
	return access, nil
}

// Validate verifies rawToken's signature, expiry and revocation state.
func (m *Manager) Validate(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.ErrInvalidToken
	}

	var claims accessClaims
	_, err := jwt.ParseWithClaims(rawToken, &claims, m.signer.Keyfunc,
		jwt.WithValidMethods([]string{m.signer.Method().Alg()}),
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "%v", err)
	}

	if claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.ID != "" && m.revokedCache.IsRevoked(claims.ID) {
		return nil, apperrors.ErrTokenRevoked
	}

	return &Claims{
		UserID:      claims.Subject,
		Username:    claims.Username,
		IsSuperuser: claims.IsSuperuser,
		ID:          claims.ID,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the access token described by claims and drops the user's
// refresh token, ending every session of that user.
func (m *Manager) Logout(claims *Claims) error {
	if claims.ID == "" {
		return errors.New("token missing jti claim")
	}
	if err := m.revokedCache.Add(claims.ID, claims.ExpiresAt); err != nil {
		return errors.Wrap(err, "Manager.Logout Add")
	}
	return m.refresh.DeleteForUser(claims.UserID)
}

// CleanupRevokedTokens forgets revocations of tokens that have expired anyway
// and reports how many were dropped.
func (m *Manager) CleanupRevokedTokens() int {
	return m.revokedCache.Cleanup(m.nowFunc())
}
