package main

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-crypto-dash/internal/config"
	"github.com/jrsteele09/go-crypto-dash/storage"
	"github.com/jrsteele09/go-crypto-dash/storage/boltstore"
	"github.com/jrsteele09/go-crypto-dash/storage/redisstore"
)

// openRepo builds the session storage for backend. The returned func releases it.
func openRepo(ctx context.Context, backend config.StorageBackend, cfg config.StorageConfig) (storage.Repo, func() error, error) {
	switch backend {
	case config.StorageMemory:
		return storage.NewInMemoryRepo(), func() error { return nil }, nil
	case config.StorageBolt:
		store, err := boltstore.Open(cfg.GetStoragePath(), "")
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StorageRedis:
		store, err := redisstore.Dial(ctx, cfg.GetRedisURL(), cfg.GetRedisPrefix())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
