package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"aurora-commerce/internal/config"
	"aurora-commerce/internal/db"
	"aurora-commerce/internal/logging"
	catalogrepo "aurora-commerce/internal/repository/catalog"
	"aurora-commerce/internal/seed"
	"github.com/sirupsen/logrus"
)

func main() {
	force := flag.Bool("force", false, "Overwrite an existing catalog with the default one")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		logging.New("info", "json").WithError(err).Fatal("load config")
	}
	base := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, base, *force); err != nil {
		base.WithField("component", "seed").WithError(err).Error("seed failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, base *logrus.Logger, force bool) error {
	logger := base.WithField("component", "seed")

	store, closeStore, err := db.OpenStore(ctx, cfg, base)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	written, err := seed.Apply(ctx, catalogrepo.NewKV(store, base), force)
	if err != nil {
		return fmt.Errorf("seed apply: %w", err)
	}
	if written {
		logger.Info("default catalog written")
	} else {
		logger.Info("catalog already present, nothing to do (use -force to reset)")
	}
	return nil
}
