// Command server is the process entrypoint: it wires the RPC Client Pool,
// Price Oracle, Trading Service, Trade Journal, Bot Scheduler, and
// Notification Bus, runs startup reconciliation, then serves the Request
// Boundary's HTTP command surface. Construction order follows the
// teacher's own cmd/main.go idiom (load config, dial clients, build
// services, run) generalized from one chain to four.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/flowdex/tradecore/internal/api"
	"github.com/flowdex/tradecore/internal/config"
	"github.com/flowdex/tradecore/internal/journal"
	"github.com/flowdex/tradecore/internal/notify"
	"github.com/flowdex/tradecore/internal/oracle"
	"github.com/flowdex/tradecore/internal/rpcpool"
	"github.com/flowdex/tradecore/internal/scheduler"
	"github.com/flowdex/tradecore/internal/trading"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}

func run(logger *zap.SugaredLogger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, dialErrs := rpcpool.New(cfg)
	defer pool.Close()
	for network, err := range dialErrs {
		logger.Warnw("network unavailable at startup", "network", network, "error", err)
	}

	priceSource := oracle.NewHTTPSource(envOr("PRICE_SOURCE_BASE_URL", "https://api.coingecko.com/api/v3"))
	priceOracle := oracle.New(priceSource)

	store, err := journal.New(cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	tradingSvc, err := trading.NewService(pool, priceOracle, logger)
	if err != nil {
		return fmt.Errorf("build trading service: %w", err)
	}

	hub := notify.NewHub(logger)
	defer hub.Close()

	sched := scheduler.New(tradingSvc, store, hub, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := sched.Reconcile(ctx); err != nil {
		logger.Errorw("startup reconciliation failed", "error", err)
	}
	cancel()

	server := api.New(store, sched, tradingSvc, hub, logger)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logger.Infow("shutting down", "signal", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newLogger() *zap.SugaredLogger {
	var l *zap.Logger
	if envOr("APP_ENV", "development") == "production" {
		l, _ = zap.NewProduction()
	} else {
		l, _ = zap.NewDevelopment()
	}
	return l.Sugar()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
