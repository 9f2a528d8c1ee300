package config

type StorageBackend string

const (
	StorageMemory StorageBackend = "memory"
	StorageBolt   StorageBackend = "bolt"
	StorageRedis  StorageBackend = "redis"
)

type StorageConfig interface {
	GetStorageBackend() StorageBackend
	GetStoragePath() string
	GetRedisURL() string
	GetRedisPrefix() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetStorageBackend() StorageBackend {
	switch b := StorageBackend(GetEnv("STORAGE_BACKEND", string(StorageBolt))); b {
	case StorageMemory, StorageBolt, StorageRedis:
		return b
	default:
		return StorageBolt
	}
}

func (Storage) GetStoragePath() string {
	return GetEnv("STORAGE_PATH", "./data/session.db")
}

func (Storage) GetRedisURL() string {
	return GetEnv("REDIS_URL", "redis://localhost:6379/0")
}

func (Storage) GetRedisPrefix() string {
	return GetEnv("REDIS_PREFIX", "cryptodash:")
}
