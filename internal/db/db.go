package db

import (
	"context"
	"fmt"
	"time"

	"aurora-commerce/internal/config"
	"aurora-commerce/internal/kvstore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Connect opens a pgx connection pool and verifies connectivity with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// ConnectRedis opens a go-redis client and verifies connectivity with a ping.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// OpenStore builds the durable store selected by cfg.StoreBackend, namespaced by
// cfg.StoreKeyPrefix. The returned close func releases the backend connection.
func OpenStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (kvstore.Store, func(), error) {
	var (
		store   kvstore.Store
		closeFn = func() {}
	)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		store = kvstore.NewMemory()
		logger.Warn("memory store selected, catalog, cart and orders are lost when the process exits")
	case config.BackendPostgres:
		pool, err := Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store = kvstore.NewPostgres(pool, logger)
		closeFn = pool.Close
	case config.BackendRedis:
		client, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		store = kvstore.NewRedis(client)
		closeFn = func() { _ = client.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.StoreKeyPrefix != "" {
		store = kvstore.Prefixed(store, cfg.StoreKeyPrefix)
	}
	logger.WithFields(logrus.Fields{
		"backend": cfg.StoreBackend,
		"prefix":  cfg.StoreKeyPrefix,
	}).Info("store opened")
	return store, closeFn, nil
}
