package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/afroash/pool-monitor/internal/config"
	"github.com/afroash/pool-monitor/internal/server"
	"github.com/afroash/pool-monitor/internal/storage"
)

const version = "v0.1.0"

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to config file")
	flag.Parse()

	// .env is optional; system environment wins either way
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}

	cfg, err := config.LoadAppConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", version).
		Int("port", cfg.Server.Port).
		Str("sensor_id", cfg.Storage.SensorID).
		Msg("Starting pool monitor server")

	var store server.ReadingStore
	var sqliteStore *storage.SQLiteStore
	var retentionCleaner *storage.RetentionCleaner

	if cfg.Storage.DBPath != "" {
		dataDir := filepath.Dir(cfg.Storage.DBPath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		sqliteStore, err = storage.NewSQLiteStore(cfg.Storage.DBPath, logger)
		if err != nil {
			log.Fatalf("Failed to create SQLite store: %v", err)
		}
		store = sqliteStore

		if cfg.Storage.RetentionDays > 0 {
			retentionCleaner = storage.NewRetentionCleaner(sqliteStore, storage.RetentionCleanerConfig{
				RetentionDays: cfg.Storage.RetentionDays,
				CleanupPeriod: cfg.Storage.CleanupPeriod,
			}, logger)
		}
	} else {
		logger.Warn().Msg("No db_path configured, readings will not survive restarts")
		store = server.NewMemoryStore()
	}

	apiHandler := server.NewAPIHandler(store, cfg.Storage.SensorID, logger)
	router := server.NewRouter(apiHandler, cfg.Server.APIKey, version, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
	}

	if retentionCleaner != nil {
		retentionCleaner.Stop()
		logger.Info().Msg("RetentionCleaner stopped")
	}
	if sqliteStore != nil {
		sqliteStore.Close()
		logger.Info().Msg("SQLiteStore closed")
	}

	logger.Info().Msg("Server stopped")
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	if cfg.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}
