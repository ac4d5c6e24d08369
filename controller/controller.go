package controller

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Arliiii/WeatherMCP/provider"
)

const tracerName = "weather-controller"

// Notifier receives progress and error notifications for a lookup.
// A nil Notifier is a no-op, not an error.
type Notifier interface {
	Info(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Controller orchestrates a lookup: delegate to the provider, then
// branch to the formatter or the error text. Every method returns an
// ordinary string, never an error: the dispatch layer renders all tool
// outcomes as displayable text.
type Controller struct {
	provider *provider.Provider
}

func New(p *provider.Provider) *Controller {
	return &Controller{provider: p}
}

// WeatherByCity returns formatted current weather for a city, or an
// error string.
func (c *Controller) WeatherByCity(ctx context.Context, city, countryCode, units, lang string, n Notifier) string {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "get_weather_by_city")
	defer span.End()

	notifyInfo(ctx, n, fmt.Sprintf("Fetching weather for city: %s", city))
	res := c.provider.CurrentByCity(ctx, city, countryCode, units, lang)
	return c.render(ctx, res, units, n)
}

// WeatherByCoordinates returns formatted current weather for a lat/lon
// pair, or an error string.
func (c *Controller) WeatherByCoordinates(ctx context.Context, lat, lon float64, units, lang string, n Notifier) string {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "get_weather_by_coordinates")
	defer span.End()

	notifyInfo(ctx, n, fmt.Sprintf("Fetching weather for coordinates: %s, %s", formatFloat(lat), formatFloat(lon)))
	res := c.provider.CurrentByCoordinates(ctx, lat, lon, units, lang)
	return c.render(ctx, res, units, n)
}

// WeatherByZip returns formatted current weather for a zip/postal
// code, or an error string.
func (c *Controller) WeatherByZip(ctx context.Context, zipCode, countryCode, units, lang string, n Notifier) string {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "get_weather_by_zip")
	defer span.End()

	if countryCode == "" {
		countryCode = provider.DefaultZipCountry
	}
	notifyInfo(ctx, n, fmt.Sprintf("Fetching weather for zip code: %s, %s", zipCode, countryCode))
	res := c.provider.CurrentByZip(ctx, zipCode, countryCode, units, lang)
	return c.render(ctx, res, units, n)
}

func (c *Controller) render(ctx context.Context, res provider.Result, units string, n Notifier) string {
	if res.OK() {
		return FormatWeather(res.Weather, units)
	}
	message := fmt.Sprintf("Error fetching weather data: %s", res.Err.Message)
	trace.SpanFromContext(ctx).SetStatus(codes.Error, res.Err.Message)
	slog.Error("weather lookup failed", "cod", string(res.Err.Cod), "message", res.Err.Message)
	if n != nil {
		n.Error(ctx, message)
	}
	return message
}

func notifyInfo(ctx context.Context, n Notifier, message string) {
	if n != nil {
		n.Info(ctx, message)
	}
}
