package users

import "github.com/jrsteele09/go-crypto-dash/internal/errors"

// ErrNotFound is returned by a UserRepo lookup that matches no user.
var ErrNotFound = errors.ErrUserNotFound

type UserRepo interface {
	Upsert(user *User) error
	Delete(username string) error
	GetByUsername(username string) (*User, error)
	GetByID(ID string) (*User, error)
	List(offset, limit int) ([]*User, error)
	SetLastLogin(username string) error
}
