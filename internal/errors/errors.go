// Package errors holds the sentinels shared by the token, user and server
// packages of the development backend.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrWatchlistNotFound = fmt.Errorf("watchlist %w", ErrNotFound)
)

// Credential errors. Each one means the caller presented a token that will
// never be accepted, as opposed to the backend failing to check it.
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

var credentialErrors = []error{
	ErrInvalidToken,
	ErrTokenExpired,
	ErrTokenRevoked,
	ErrInvalidRefreshToken,
	ErrRefreshTokenExpired,
}

// IsCredentialError reports whether err is one of the credential errors.
func IsCredentialError(err error) bool {
	for _, target := range credentialErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Wrapf annotates err, keeping it matchable with Is. A nil err stays nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
