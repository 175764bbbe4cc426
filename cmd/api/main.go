package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"aurora-commerce/internal/config"
	"aurora-commerce/internal/db"
	"aurora-commerce/internal/httpserver"
	"aurora-commerce/internal/logging"
	"aurora-commerce/internal/repository"
	cartrepo "aurora-commerce/internal/repository/cart"
	catalogrepo "aurora-commerce/internal/repository/catalog"
	orderrepo "aurora-commerce/internal/repository/order"
	cartsvc "aurora-commerce/internal/service/cart"
	catalogsvc "aurora-commerce/internal/service/catalog"
	checkoutsvc "aurora-commerce/internal/service/checkout"
	ordersvc "aurora-commerce/internal/service/order"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logging.New("info", "json").WithError(err).Fatal("load config")
	}
	base := logging.New(cfg.LogLevel, cfg.LogFormat)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(context.Background(), cfg, base, stopCh); err != nil {
		base.WithField("component", "api").WithError(err).Error("api exited")
		os.Exit(1)
	}
}

// run serves until stop fires or the server fails. The store is released on every path.
func run(ctx context.Context, cfg config.Config, base *logrus.Logger, stop <-chan os.Signal) error {
	logger := base.WithField("component", "api")

	store, closeStore, err := db.OpenStore(ctx, cfg, base)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	catalogRepo := catalogrepo.NewKV(store, base)
	catalogService := catalogsvc.New(catalogRepo, base)
	cartService := cartsvc.New(cartrepo.NewKV(store), catalogRepo, base)
	orderService := ordersvc.New(orderrepo.NewKV(store, base), base)
	checkoutService := checkoutsvc.New(repository.NewUnitOfWork(store, base), base)

	srv, err := httpserver.New(cfg.HTTPAddr, base, httpserver.Deps{
		Store:       store,
		CatalogSvc:  catalogService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
	}, httpserver.Options{
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		AdminKeyHash:     cfg.AdminKeyHash,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case sig := <-stop:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		runErr = fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("graceful shutdown: %w", err))
	}
	logger.Info("server stopped")
	return runErr
}
