// Command vaultd runs the collateralized-debt accounting engine as a
// standalone HTTP daemon: flag-resolved config path, slog logging, graceful
// shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"os/signal"

	"cdpvault/config"
	"cdpvault/observability/logging"
	"cdpvault/observability/metrics"
	"cdpvault/services/vaultd/ledger"
	vaultmw "cdpvault/services/vaultd/middleware"
	"cdpvault/services/vaultd/server"
	"cdpvault/vault"
	"cdpvault/vault/store"
)

func main() {
	configFile := flag.String("config", "./vaultd.toml", "Path to the vaultd configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logger := logging.Setup("vaultd", cfg.LogPath, cfg.LogLevel)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("create data dir", slog.String("error", err.Error()))
		os.Exit(1)
	}

	snapshotStore := store.New(cfg.SnapshotFile)
	tokens := ledger.NewMemoryLedger(vault.Address{})
	engine := vault.NewEngine(vault.Adapters{
		Tokens:      tokens,
		Clock:       ledger.NewSystemClock(400*time.Millisecond, 432_000),
		Constraints: vault.DefaultConstraintChecker(),
	})

	state, found, err := snapshotStore.Load()
	if err != nil {
		logger.Error("load snapshot", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if found {
		engine.LoadState(state)
		logger.Info("restored snapshot", slog.String("path", cfg.SnapshotFile))
	} else {
		logger.Info("no snapshot found, waiting for /v1/admin/initialize")
	}

	met := metrics.New()
	limiter := vaultmw.NewRateLimiter(cfg.Limits.AdminRatePerSecond, cfg.Limits.AdminBurst)

	srv := server.New(server.Config{
		Engine:      engine,
		Instruction: ledger.TopLevelInstruction{},
		Store:       snapshotStore,
		Metrics:     met,
		Logger:      logger,
		RateLimiter: limiter,
		OnInitialize: func(supportedLSTMint vault.Address) {
			tokens.SetLSTMint(supportedLSTMint)
		},
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		logger.Error("listen", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go func() {
		logger.Info("listening", slog.String("addr", listener.Addr().String()))
		if serveErr := httpServer.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("serve", slog.String("error", serveErr.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	if state := engine.State(); state != nil {
		if err := snapshotStore.Save(state); err != nil {
			logger.Error("final snapshot save", slog.String("error", err.Error()))
		}
	}
}
