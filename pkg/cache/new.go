package cache

import (
	"context"
	"fmt"

	"github.com/retailreboot/retailreboot/pkg/config"
)

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// redisKeyPrefix namespaces keys in a shared Redis database.
const redisKeyPrefix = config.AppName + ":"

// New opens the backend named by cfg.Backend.
func New(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return NewNullCache(), nil
	case config.BackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			d, err := config.CacheDir()
			if err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
			dir = d
		}
		return NewFileCache(dir)
	case config.BackendRedis:
		return NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   redisKeyPrefix,
		})
	case config.BackendMongo:
		return NewMongoCache(ctx, MongoOptions{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrBackend, cfg.Backend)
	}
}

// Clear empties c when the backend supports it.
func Clear(ctx context.Context, c Cache) (int, error) {
	b, ok := c.(Clearer)
	if !ok {
		return 0, fmt.Errorf("%w: %T cannot be cleared", ErrBackend, c)
	}
	return b.Clear(ctx)
}
