// Package redisstore keeps session keys in Redis so several hosts can share one
// dashboard login.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/jrsteele09/go-crypto-dash/storage"
	redislib "github.com/redis/go-redis/v9"
)

var _ storage.Repo = (*Store)(nil)

type Store struct {
	client *redislib.Client
	prefix string
}

// New wraps an existing client. Keys are namespaced with prefix.
func New(client *redislib.Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

// Dial parses url, pings the server and returns a Store owning the client.
func Dial(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := redislib.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redislib.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return New(client, prefix), nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redislib.Nil) {
		return "", storage.ErrNotFound
	}
	return v, err
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.client.Del(ctx, full...).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(k string) string {
	return s.prefix + k
}
