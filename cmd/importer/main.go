package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"aurora-commerce/internal/config"
	"aurora-commerce/internal/db"
	"aurora-commerce/internal/importer"
	"aurora-commerce/internal/logging"
	catalogrepo "aurora-commerce/internal/repository/catalog"
	catalogsvc "aurora-commerce/internal/service/catalog"
	"github.com/sirupsen/logrus"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to products CSV (id,title,price,img,desc,stock)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logging.New("info", "json").WithError(err).Fatal("load config")
	}
	base := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, base, filePath); err != nil {
		base.WithField("component", "importer").WithError(err).Error("import failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, base *logrus.Logger, filePath string) error {
	logger := base.WithField("component", "importer")

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	store, closeStore, err := db.OpenStore(ctx, cfg, base)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	imp := importer.NewCSVImporter(f, catalogsvc.New(catalogrepo.NewKV(store, base), base))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		return fmt.Errorf("imported %d rows before failing: %w", count, err)
	}

	logger.WithFields(logrus.Fields{
		"imported": count,
		"elapsed":  time.Since(start).Truncate(time.Millisecond).String(),
	}).Info("import finished")
	return nil
}
