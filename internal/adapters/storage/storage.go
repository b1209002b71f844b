package storage

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/trebuchet-org/launchpad/internal/adapters/fs"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// NewStorage selects the Storage backend configured in [storage]
func NewStorage(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.Storage, error) {
	sc := config.StorageConfig{Backend: config.StorageBackendFile}
	if cfg.Project != nil {
		sc = cfg.Project.Storage
	}

	log.Debug("using storage backend", "component", "Storage", "backend", sc.Backend)

	switch sc.Backend {
	case config.StorageBackendFile, "":
		return fs.NewKVStoreAdapter(cfg), nil
	case config.StorageBackendMemory:
		return NewMemoryStore(), nil
	case config.StorageBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: sc.RedisAddr})
		opts := []RedisOption{}
		if sc.RedisPrefix != "" {
			opts = append(opts, WithPrefix(sc.RedisPrefix))
		}
		return NewRedisStore(client, opts...), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
}
