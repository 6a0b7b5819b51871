/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the ShiftLock server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (file, environment, flags)
  2. Initialize logger and SQLite store
  3. Activate rules (rules file, else stored rules, else defaults)
  4. Configure HTTP router and start the reconciliation scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML configuration file (optional)
  -addr    Listen address, overrides the configuration
  -db      SQLite database path, overrides the configuration
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  ./server -config=/etc/shiftlock.yaml
  ./server -db=":memory:" -addr=":3000"
  SHIFTLOCK_LOG_FORMAT=json ./server

SEE ALSO:
  - config/config.go: Settings and environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/shiftlock/api"
	"github.com/warp/shiftlock/config"
	"github.com/warp/shiftlock/factory"
	"github.com/warp/shiftlock/logging"
	"github.com/warp/shiftlock/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML configuration file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	handler := api.NewHandler(store, logger)
	if cfg.RulesFile != "" {
		rs, err := handler.Rules.ParseFile(cfg.RulesFile)
		if err != nil {
			return err
		}
		handler.SetRuleset(rs)
		logger.Info("rules loaded from file", "path", cfg.RulesFile, "ruleset", rs.ID)
	} else if err := handler.LoadRuleset(context.Background()); err != nil {
		logger.Warn("stored rules ignored, using defaults", "error", err)
		handler.SetRuleset(factory.DefaultRuleset())
	}

	scheduler := api.NewReconciliationScheduler(store, handler)
	scheduler.Enabled = cfg.Scheduler.Enabled
	if cfg.Scheduler.Interval > 0 {
		scheduler.CheckInterval = cfg.Scheduler.Interval
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(handler, cfg.Server.CORSOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Server.Addr, "db", cfg.Database.Path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
