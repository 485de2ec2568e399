package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tradedeck/tradedeck/params"
	"github.com/tradedeck/tradedeck/pkg/api"
	"github.com/tradedeck/tradedeck/pkg/catalog"
	"github.com/tradedeck/tradedeck/pkg/orders"
	"github.com/tradedeck/tradedeck/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	// Setup logging (optionally teed to a file via LOG_FILE)
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.LogFile != "" {
		logger, err = util.NewLoggerWithFile(cfg.LogFile)
	} else {
		logger, err = util.NewLogger()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// The catalog is the source of truth for tradable symbols; without it
	// the validator and the tick feed cannot run, so failure is fatal.
	cat, err := catalog.Load(cfg.Storage.SymbolsFile)
	if err != nil {
		sugar.Fatalw("catalog_load_failed", "file", cfg.Storage.SymbolsFile, "err", err)
	}
	sugar.Infow("catalog_loaded", "file", cfg.Storage.SymbolsFile, "symbols", cat.Count())

	store, err := orders.NewStore(cfg.Storage.OrdersDir)
	if err != nil {
		sugar.Fatalw("order_store_init_failed", "dir", cfg.Storage.OrdersDir, "err", err)
	}

	server := api.NewServer(cat, store, cfg, sugar)
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		sugar.Infow("api_server_starting",
			"addr", cfg.HTTP.Addr,
			"orders_dir", cfg.Storage.OrdersDir,
			"tick_interval_ms", cfg.Feed.TickInterval.Milliseconds())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("shutdown_failed", "err", err)
	}
}
