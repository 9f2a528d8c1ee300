package refresh

import (
	"time"
)

// StoredRefreshToken is the backend's record of an issued refresh token. Only
// Token ever leaves the backend.
type StoredRefreshToken struct {
	Token  string
	UserID string
	Iat    time.Time
}

// ExpiresAt is the moment the token stops being accepted under ttl.
func (rt StoredRefreshToken) ExpiresAt(ttl time.Duration) time.Time {
	return rt.Iat.Add(ttl)
}

// Repo stores refresh tokens. Upsert replaces whatever token the user held
// before, so a user never has more than one. Lookups of unknown tokens or users
// return errors.ErrNotFound.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	GetByUserID(userID string) (*StoredRefreshToken, error)
}
