package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"aurora-commerce/internal/config"
	"aurora-commerce/internal/db"
	"aurora-commerce/internal/logging"
	"aurora-commerce/internal/migrate"
	"github.com/sirupsen/logrus"
)

func main() {
	down := flag.Bool("down", false, "Roll back every migration, dropping stored state")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		logging.New("info", "json").WithError(err).Fatal("load config")
	}
	base := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, base, *down); err != nil {
		base.WithField("component", "migrate").WithError(err).Error("migrate failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, base *logrus.Logger, down bool) error {
	logger := base.WithField("component", "migrate")

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	if down {
		if err := migrate.Rollback(ctx, pool); err != nil {
			return fmt.Errorf("roll back migrations: %w", err)
		}
		logger.Info("migrations rolled back")
		return nil
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migrations applied")
	return nil
}
