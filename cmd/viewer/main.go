package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/afroash/pool-monitor/internal/client"
	"github.com/afroash/pool-monitor/internal/config"
	"github.com/afroash/pool-monitor/internal/view"
)

const frameInterval = 50 * time.Millisecond

func main() {
	configPath := flag.String("config", "configs/viewer.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}

	cfg, err := config.LoadViewerConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.Logging)

	reconciler := view.NewReconciler(cfg.AnimationDuration, view.Thresholds{
		Cold:    cfg.Thresholds.Cold,
		Perfect: cfg.Thresholds.Perfect,
	})

	fetcher := client.NewHTTPFetcher(cfg.ReadURL, cfg.FetchTimeout)
	poller := client.NewPoller(fetcher, client.PollerConfig{
		Interval: cfg.PollInterval,
		Focused:  focused,
		OnResult: reconciler.ApplyResult,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go poller.Run(ctx)

	render(ctx, reconciler)
	fmt.Println()
	logger.Info().Msg("Viewer stopped")
}

// render drives the animation frames and repaints the status line
func render(ctx context.Context, reconciler *view.Reconciler) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			state := reconciler.Frame(now)
			fmt.Printf("\r%05.2f° %s  measured %s · checked %s   ",
				state.DisplayedValue,
				state.Feel.Emoji(),
				ago(state.LastObservedAt),
				ago(state.LastFetchedAt),
			)
		}
	}
}

// ago formats a timestamp as a rough "N ago" distance
func ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// focused reports whether the viewer owns the terminal foreground.
// A backgrounded viewer keeps its timer running but skips poll work.
func focused() bool {
	pgrp, err := unix.IoctlGetInt(int(os.Stdout.Fd()), unix.TIOCGPGRP)
	if err != nil {
		// Not a terminal; treat the surface as always active
		return true
	}
	return pgrp == unix.Getpgrp()
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
	if cfg.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}
