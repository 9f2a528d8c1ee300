// Package storage is the durable key/value store the session layer mirrors its
// state into, standing in for browser local storage. Values are plain strings.
package storage

import (
	"context"
	"errors"
)

// Keys written by the session layer.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyIsSuperuser  = "isSuperuser"
)

// SessionKeys lists every key the session layer owns.
var SessionKeys = []string{KeyToken, KeyRefreshToken, KeyUser, KeyIsSuperuser}

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Repo is last-write-wins: concurrent writers are not coordinated.
type Repo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// Lookup returns the value of key, treating ErrNotFound as an empty value.
func Lookup(ctx context.Context, r Repo, key string) (string, bool, error) {
	v, err := r.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, v != "", nil
}
