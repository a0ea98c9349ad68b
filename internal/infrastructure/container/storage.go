package container

import (
	"context"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/monitoring"
	gormstore "github.com/fridgeraider/fridgeraider/internal/infrastructure/persistence/gorm"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/persistence/memory"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/persistence/postgres"
	redisstore "github.com/fridgeraider/fridgeraider/internal/infrastructure/persistence/redis"
	s3store "github.com/fridgeraider/fridgeraider/internal/infrastructure/persistence/s3"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/persistence/sqlite"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// StorageModule provides the document store selected by storage.driver
var StorageModule = fx.Provide(
	newRedisConnector,
	NewDocumentStore,
)

// CacheModule provides the cache selected by cache.driver
var CacheModule = fx.Provide(
	NewCacheRepository,
)

// RedisConnector dials Redis on first use so that the store and the cache
// share one client, and nothing connects when neither uses Redis.
type RedisConnector struct {
	cfg config.RedisConfig
	log *zap.Logger

	once   sync.Once
	client goredis.UniversalClient
	err    error
}

func newRedisConnector(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *RedisConnector {
	rc := &RedisConnector{cfg: cfg.Redis, log: log}
	lc.Append(fx.StopHook(rc.Close))
	return rc
}

// Client returns the shared client
func (rc *RedisConnector) Client(ctx context.Context) (goredis.UniversalClient, error) {
	rc.once.Do(func() {
		rc.client, rc.err = redisstore.NewClient(ctx, rc.cfg, rc.log)
	})
	return rc.client, rc.err
}

// Close closes the client if one was opened
func (rc *RedisConnector) Close() error {
	if rc.client == nil {
		return nil
	}
	return rc.client.Close()
}

// NewDocumentStore opens the configured document store
func NewDocumentStore(lc fx.Lifecycle, cfg *config.Config, rc *RedisConnector, log *zap.Logger) (outbound.DocumentStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	store, err := openDocumentStore(ctx, cfg, rc, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	log.Info("Document store ready", zap.String("driver", cfg.Storage.Driver))
	lc.Append(fx.StopHook(store.Close))
	return store, nil
}

func openDocumentStore(ctx context.Context, cfg *config.Config, rc *RedisConnector, log *zap.Logger) (outbound.DocumentStore, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return memory.NewDocumentStore(), nil
	case "sqlite":
		db, err := sqlite.SetupDatabase(cfg.Storage.Path, gormstore.LogLevel(cfg.Database.LogLevel))
		if err != nil {
			return nil, err
		}
		return gormstore.NewDocumentStore(db, log), nil
	case "postgres":
		db, err := postgres.Open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return gormstore.NewDocumentStore(db, log), nil
	case "redis":
		client, err := rc.Client(ctx)
		if err != nil {
			return nil, err
		}
		return redisstore.NewDocumentStore(client, cfg.Redis.KeyPrefix, log), nil
	case "s3":
		store, err := s3store.New(cfg.S3, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewCacheRepository opens the configured cache and counts its hits
func NewCacheRepository(
	lc fx.Lifecycle,
	cfg *config.Config,
	rc *RedisConnector,
	metrics *monitoring.MetricsCollector,
	log *zap.Logger,
) (outbound.CacheRepository, error) {
	var cache outbound.CacheRepository

	switch cfg.Cache.Driver {
	case "memory":
		mem := memory.NewCacheRepository(cfg.Cache.SweepInterval)
		lc.Append(fx.StopHook(mem.Close))
		cache = mem
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		client, err := rc.Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis cache: %w", err)
		}
		cache = redisstore.NewCacheRepository(client, cfg.Redis.KeyPrefix, log)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}

	log.Info("Cache ready", zap.String("driver", cfg.Cache.Driver))
	return monitoring.NewMeteredCache(cache, metrics), nil
}
