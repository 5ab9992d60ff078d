package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/efreitasn/stockledger/internal/config"
	"github.com/efreitasn/stockledger/internal/engine"
	"github.com/efreitasn/stockledger/internal/handler"
	"github.com/efreitasn/stockledger/internal/persist"
	"github.com/efreitasn/stockledger/internal/service"
	"github.com/efreitasn/stockledger/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Instantiate stores.
	accounts := store.NewAccountDirectory()
	catalog := store.NewStockCatalog()
	txlog := store.NewTransactionLog()
	watchlist := store.NewWatchlistStore()

	// Optional file persistence: load snapshot at bootstrap, flush at stop.
	var snapshots persist.Store
	if cfg.DataDir != "" {
		fileStore, err := persist.NewFileStore(cfg.DataDir)
		if err != nil {
			logger.Error("failed to open data dir", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := persist.Bootstrap(fileStore, accounts, catalog, watchlist); err != nil {
			logger.Error("failed to load snapshot", slog.String("error", err.Error()))
			os.Exit(1)
		}
		snapshots = fileStore
		logger.Info("snapshot loaded",
			slog.Int("accounts", accounts.Len()),
			slog.Int("instruments", catalog.Len()),
		)
	}

	// Engine and services.
	eng := engine.NewTradingEngine(accounts, catalog, txlog)
	playerSvc := service.NewPlayerService(accounts, catalog, watchlist, cfg.DefaultInitialCash)
	stockSvc := service.NewStockService(catalog)
	historySvc := service.NewHistoryService(accounts, txlog, cfg.HistoryLimit)
	watchlistSvc := service.NewWatchlistService(watchlist, accounts, catalog)

	// Router.
	router := handler.NewRouter(playerSvc, stockSvc, historySvc, watchlistSvc, eng, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, then flush the snapshot.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	if snapshots != nil {
		if err := persist.Flush(snapshots, accounts, catalog, watchlist); err != nil {
			logger.Error("snapshot flush failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("snapshot flushed")
	}

	logger.Info("server stopped")
}
