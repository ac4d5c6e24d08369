package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Arliiii/WeatherMCP/config"
	"github.com/Arliiii/WeatherMCP/controller"
	"github.com/Arliiii/WeatherMCP/logging"
	"github.com/Arliiii/WeatherMCP/provider"
	"github.com/Arliiii/WeatherMCP/server"
	"github.com/Arliiii/WeatherMCP/telemetry"
)

const (
	appName = "weather-mcp"
	// Default version is "dev" if not set with -ldflags "-X main.version=..."
	version = "dev"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, appName, version)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}

	slog.Info("shutting down")
}

func run(ctx context.Context, cfg config.Config) error {
	shutdownTracing, err := telemetry.Init(ctx, appName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("tracing shutdown failed", "err", err)
		}
	}()

	prov, err := provider.New(cfg)
	if err != nil {
		return err
	}

	srv := server.New(controller.New(prov))

	transport := server.DetermineTransport(os.Args[1:])
	slog.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"transport", string(transport),
	)

	if transport == server.TransportStdio {
		return srv.RunStdio(ctx)
	}
	return srv.RunHTTP(ctx, cfg.Port)
}
