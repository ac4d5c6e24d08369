package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Arliiii/WeatherMCP/config"
	"github.com/Arliiii/WeatherMCP/models"
)

const (
	weatherPath    = "/weather"
	requestTimeout = 30 * time.Second
	userAgent      = "OpenWeatherMapMCPServer/1.0"

	// DefaultZipCountry is applied when a zip lookup omits the country.
	DefaultZipCountry = "us"
)

const tracerName = "weather-provider"

// Result is the tagged outcome of one lookup: exactly one of Weather
// and Err is set, never both.
type Result struct {
	Weather *models.CurrentWeatherResponse
	Err     *models.WeatherError
}

// OK reports whether the lookup produced weather data.
func (r Result) OK() bool {
	return r.Weather != nil
}

// Provider issues current-weather lookups against the OpenWeatherMap
// API. Safe for concurrent use; the credential and base URL are fixed
// at construction.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New fails when the credential is empty. That is a startup invariant,
// not a per-call error.
func New(cfg config.Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OpenWeatherMap API key not found: set OPENWEATHER_API_KEY")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("OpenWeatherMap base URL is empty")
	}
	return &Provider{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// CurrentByCoordinates looks up current weather for a lat/lon pair.
// Range checking of the coordinates happens at the tool boundary.
func (p *Provider) CurrentByCoordinates(ctx context.Context, lat, lon float64, units, lang string) Result {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return p.current(ctx, "current_by_coordinates", params, units, lang)
}

// CurrentByCity looks up current weather by city name. A non-empty
// countryCode narrows the search as "{city},{countryCode}".
func (p *Provider) CurrentByCity(ctx context.Context, city, countryCode, units, lang string) Result {
	location := city
	if countryCode != "" {
		location = fmt.Sprintf("%s,%s", city, countryCode)
	}
	params := url.Values{}
	params.Set("q", location)
	return p.current(ctx, "current_by_city", params, units, lang)
}

// CurrentByZip looks up current weather by zip/postal code. An empty
// countryCode defaults to "us"; the upstream parameter is always
// "{zip},{countryCode}".
func (p *Provider) CurrentByZip(ctx context.Context, zipCode, countryCode, units, lang string) Result {
	if countryCode == "" {
		countryCode = DefaultZipCountry
	}
	params := url.Values{}
	params.Set("zip", fmt.Sprintf("%s,%s", zipCode, countryCode))
	return p.current(ctx, "current_by_zip", params, units, lang)
}

// current is the shared request path: attach credential and
// passthrough parameters, GET once, classify the outcome.
func (p *Provider) current(ctx context.Context, op string, params url.Values, units, lang string) Result {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	params.Set("appid", p.apiKey)
	params.Set("units", units)
	params.Set("lang", lang)

	apiURL := p.baseURL + weatherPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create request")
		return syntheticError(fmt.Sprintf("Unexpected error: %s", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return syntheticError(fmt.Sprintf("Request error: %s", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		var weatherErr models.WeatherError
		if err := json.NewDecoder(resp.Body).Decode(&weatherErr); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to decode error response")
			return syntheticError(fmt.Sprintf("Unexpected error: %s", err))
		}
		span.SetStatus(codes.Error, weatherErr.Message)
		return Result{Err: &weatherErr}
	}

	var weather models.CurrentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&weather); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode response")
		return syntheticError(fmt.Sprintf("Unexpected error: %s", err))
	}
	if err := weather.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid response schema")
		return syntheticError(fmt.Sprintf("Unexpected error: %s", err))
	}

	return Result{Weather: &weather}
}

func syntheticError(message string) Result {
	return Result{Err: &models.WeatherError{
		Cod:     models.ErrorCode("500"),
		Message: message,
	}}
}
