package fakeuserrepo

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-crypto-dash/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

// FakeUserRepo stores users by value. Every read returns a copy, so callers can
// use a user after the lock is released while SetLastLogin updates the record.
type FakeUserRepo struct {
	users       map[string]users.User
	usernameIDs map[string]string // username to user id
	lock        sync.RWMutex
	nowFunc     func() time.Time
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:       make(map[string]users.User),
		usernameIDs: make(map[string]string),
		nowFunc:     time.Now,
	}
}

func (ur *FakeUserRepo) Upsert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if previous, ok := ur.users[user.ID]; ok && previous.Username != user.Username {
		delete(ur.usernameIDs, previous.Username)
	}
	ur.users[user.ID] = *user
	ur.usernameIDs[user.Username] = user.ID
	return nil
}

func (ur *FakeUserRepo) Delete(username string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	userID, ok := ur.usernameIDs[username]
	if !ok {
		return users.ErrNotFound
	}
	delete(ur.usernameIDs, username)
	delete(ur.users, userID)
	return nil
}

func (ur *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.usernameIDs[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	u := ur.users[id]
	return &u, nil
}

func (ur *FakeUserRepo) GetByID(id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

// List pages through users ordered by username. A limit of 0 means no limit.
func (ur *FakeUserRepo) List(offset, limit int) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		u := v
		userList = append(userList, &u)
	}
	sort.Slice(userList, func(i, j int) bool {
		return userList[i].Username < userList[j].Username
	})

	if offset >= len(userList) {
		return nil, nil
	}
	end := len(userList)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return userList[offset:end], nil
}

func (ur *FakeUserRepo) SetLastLogin(username string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.usernameIDs[username]
	if !ok {
		return users.ErrNotFound
	}
	u := ur.users[id]
	u.LastLogin = ur.nowFunc().UTC()
	ur.users[id] = u
	return nil
}
