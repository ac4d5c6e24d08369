package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// APIKey is the OpenWeatherMap credential. Required.
	APIKey string
	// BaseURL is the upstream API root, overridable for tests.
	BaseURL string

	// Port for the streamable HTTP transport.
	Port int

	// OTLPEndpoint enables trace export when non-empty.
	OTLPEndpoint string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	apiKey := strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY"))
	if apiKey == "" {
		return Config{}, fmt.Errorf("OpenWeatherMap API key not found: set OPENWEATHER_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("OPENWEATHER_BASE_URL"))
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	portStr := strings.TrimSpace(os.Getenv("PORT"))
	if portStr == "" {
		portStr = "8000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", portStr)
	}

	return Config{
		AppEnv:       appEnv,
		LogLevel:     level,
		APIKey:       apiKey,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		Port:         port,
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
