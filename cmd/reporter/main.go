package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/afroash/pool-monitor/internal/config"
	"github.com/afroash/pool-monitor/internal/device"
)

const version = "v0.1.0"

func main() {
	configPath := flag.String("config", "configs/reporter.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", version).
		Str("sensor_id", cfg.Sensor.ID).
		Str("source", cfg.Sensor.SourcePath).
		Msg("Starting pool temperature reporter")

	source := &device.FileSource{Path: cfg.Sensor.SourcePath}
	reporter := device.NewReporter(source, device.ReporterConfig{
		URL:            cfg.Server.WriteURL,
		APIKey:         cfg.Server.APIKey,
		SensorID:       cfg.Sensor.ID,
		ReadInterval:   cfg.Sensor.ReadInterval,
		SubmitTimeout:  cfg.Server.SubmitTimeout,
		RetryInterval:  cfg.Server.RetryInterval,
		MaxRetryDelay:  cfg.Server.MaxRetryDelay,
		BufferCapacity: cfg.Buffer.Size,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporter.Run(ctx)
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
