package refreshrepofake

import (
	"sync"

	"github.com/jrsteele09/go-crypto-dash/internal/errors"
	"github.com/jrsteele09/go-crypto-dash/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

// FakeRefreshTokenRepo keeps one record per user and an index from token to user.
type FakeRefreshTokenRepo struct {
	byUser map[string]refresh.StoredRefreshToken
	owners map[string]string
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		byUser: make(map[string]refresh.StoredRefreshToken),
		owners: make(map[string]string),
	}
}

func (tr *FakeRefreshTokenRepo) Upsert(refreshToken *refresh.StoredRefreshToken) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if previous, ok := tr.byUser[refreshToken.UserID]; ok {
		delete(tr.owners, previous.Token)
	}
	tr.byUser[refreshToken.UserID] = *refreshToken
	tr.owners[refreshToken.Token] = refreshToken.UserID
	return nil
}

func (tr *FakeRefreshTokenRepo) Delete(token string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	userID, ok := tr.owners[token]
	if !ok {
		return errors.ErrNotFound
	}
	delete(tr.owners, token)
	delete(tr.byUser, userID)
	return nil
}

func (tr *FakeRefreshTokenRepo) Get(token string) (*refresh.StoredRefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	userID, ok := tr.owners[token]
	if !ok {
		return nil, errors.ErrNotFound
	}
	rt := tr.byUser[userID]
	return &rt, nil
}

func (tr *FakeRefreshTokenRepo) GetByUserID(userID string) (*refresh.StoredRefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	rt, ok := tr.byUser[userID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &rt, nil
}

// Len reports how many refresh tokens are stored.
func (tr *FakeRefreshTokenRepo) Len() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return len(tr.owners)
}
