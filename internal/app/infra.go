package app

import (
	"context"
	"log/slog"

	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/internal/repo"
	"github.com/Alijeyrad/founders_backend/pkg/authorize"
	"github.com/Alijeyrad/founders_backend/pkg/database"
	"github.com/Alijeyrad/founders_backend/pkg/email"
	"github.com/Alijeyrad/founders_backend/pkg/events"
	"github.com/Alijeyrad/founders_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/founders_backend/pkg/redis"
	"github.com/Alijeyrad/founders_backend/pkg/session"
	"github.com/Alijeyrad/founders_backend/pkg/storage"
	"github.com/Alijeyrad/founders_backend/pkg/util/password"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideEntClient),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideFiberStorage),
	fx.Provide(ProvideSessionManager),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideBlobStore),
	fx.Provide(ProvideEventBus),
	fx.Provide(ProvidePasswordHasher),
	fx.Provide(ProvideOTel),
)

func ProvideEntClient(lc fx.Lifecycle, cfg *config.Config) (*repo.Client, error) {
	drv, err := database.NewEntDriver(cfg.Database)
	if err != nil {
		return nil, err
	}
	client := repo.NewClient(drv)

	dbName := cfg.Database.DBName
	if dbName == "" {
		dbName = cfg.Database.Driver
	}
	if err := observability.RegisterDBStats(client.DB(), dbName); err != nil {
		slog.Warn("db pool metrics unavailable", "err", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Database.Migrations.AutoMigrate {
				return nil
			}
			slog.Info("running schema migration")
			return client.Migrate(ctx)
		},
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return client.Close()
		},
	})
	return client, nil
}

// ProvideRedis connects to Redis. An empty redis.addr disables it and
// sessions fall back to process memory.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		slog.Warn("redis disabled; sessions are kept in memory")
		return nil, nil
	}

	rdb, err := redispkg.NewRedisFromCentral(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

// ProvideFiberStorage shares the Redis pool with the session manager and
// the rate limiter.
func ProvideFiberStorage(rdb *redis.Client) *fiberredis.Storage {
	if rdb == nil {
		return nil
	}
	return redispkg.NewStorage(rdb)
}

func ProvideSessionManager(store *fiberredis.Storage, cfg *config.Config) *session.Manager {
	var backend session.Storage = session.NewMemoryStorage()
	if store != nil {
		backend = store
	}
	return session.NewManager(backend, session.FromCentralConfig(cfg.Session))
}

func ProvideAuthorization(cfg *config.Config) (authorize.IAuthorization, error) {
	return authorize.New(context.Background(), authorize.FromCentralConfig(cfg.Authorization))
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg.Email)
}

func ProvideBlobStore(cfg *config.Config) (storage.Store, error) {
	return storage.New(cfg.Storage, cfg.S3)
}

func ProvideEventBus(lc fx.Lifecycle, cfg *config.Config) (events.Bus, error) {
	bus, err := events.New(cfg.Events)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing event bus")
			return bus.Close()
		},
	})
	return bus, nil
}

func ProvidePasswordHasher(cfg *config.Config) *password.Hasher {
	return password.NewHasher(password.FromCentralConfig(cfg.Password))
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
