package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrianliechti/imagine/config"
	"github.com/adrianliechti/imagine/pkg/otel"
	"github.com/adrianliechti/imagine/server"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	configFlag := flag.String("config", "", "config file")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// a missing .env file is not an error
	_ = godotenv.Load()

	path := *configFlag

	if path == "" {
		path = os.Getenv("CONFIG")
	}

	if err := run(ctx, path); err != nil {
		fmt.Fprintln(os.Stderr, err)

		stop()
		os.Exit(1)
	}
}

// run returns instead of exiting so telemetry is flushed on every path.
func run(ctx context.Context, path string) error {
	shutdown, err := otel.Setup(ctx, "imagine", version)

	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}

	defer shutdown(context.Background())

	cfg, err := config.Parse(path)

	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	s, err := server.New(cfg)

	if err != nil {
		slog.Error("failed to create server", "error", err)
		return err
	}

	if err := s.ListenAndServe(ctx); err != nil {
		slog.Error("server stopped", "error", err)
		return err
	}

	return nil
}
