package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Arliiii/WeatherMCP/controller"
)

const (
	serverName    = "OpenWeatherMap MCP Server"
	serverVersion = "1.0.0"

	aboutURI = "weather://about"
)

const (
	defaultUnits = "metric"
	defaultLang  = "en"
)

// Server exposes the weather controller as MCP tools plus the static
// about resource.
type Server struct {
	controller *controller.Controller
	mcp        *mcp.Server
}

type WeatherByCityInput struct {
	City        string `json:"city" jsonschema:"City name (e.g. 'London')"`
	CountryCode string `json:"country_code,omitempty" jsonschema:"Country code (e.g. 'uk' for United Kingdom)"`
	Units       string `json:"units,omitempty" jsonschema:"Units of measurement: 'metric' (°C), 'imperial' (°F), or 'standard' (K)"`
	Lang        string `json:"lang,omitempty" jsonschema:"Language for weather descriptions (e.g. 'en', 'es', 'fr')"`
}

type WeatherByCoordinatesInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"Latitude coordinate, -90 to 90"`
	Longitude float64 `json:"longitude" jsonschema:"Longitude coordinate, -180 to 180"`
	Units     string  `json:"units,omitempty" jsonschema:"Units of measurement: 'metric' (°C), 'imperial' (°F), or 'standard' (K)"`
	Lang      string  `json:"lang,omitempty" jsonschema:"Language for weather descriptions (e.g. 'en', 'es', 'fr')"`
}

type WeatherByZipInput struct {
	ZipCode     string `json:"zip_code" jsonschema:"Zip/postal code (e.g. '94040')"`
	CountryCode string `json:"country_code,omitempty" jsonschema:"Country code (e.g. 'us' for United States)"`
	Units       string `json:"units,omitempty" jsonschema:"Units of measurement: 'metric' (°C), 'imperial' (°F), or 'standard' (K)"`
	Lang        string `json:"lang,omitempty" jsonschema:"Language for weather descriptions (e.g. 'en', 'es', 'fr')"`
}

// New registers the three lookup tools and the about resource.
func New(ctrl *controller.Controller) *Server {
	s := &Server{
		controller: ctrl,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: serverVersion,
		}, nil),
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_weather_by_city",
		Description: "Get current weather information for a city, optionally filtered by country code.",
	}, s.getWeatherByCity)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_weather_by_coordinates",
		Description: "Get current weather information for geographic coordinates.",
	}, s.getWeatherByCoordinates)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_weather_by_zip",
		Description: "Get current weather information for a zip/postal code and country code.",
	}, s.getWeatherByZip)

	s.mcp.AddResource(&mcp.Resource{
		URI:         aboutURI,
		Name:        "about",
		Description: "Information about the OpenWeatherMap MCP server.",
		MIMEType:    "application/json",
	}, s.readAbout)

	return s
}

func (s *Server) getWeatherByCity(ctx context.Context, req *mcp.CallToolRequest, in WeatherByCityInput) (*mcp.CallToolResult, any, error) {
	if in.City == "" {
		return nil, nil, fmt.Errorf("city must not be empty")
	}
	units, lang := applyDefaults(in.Units, in.Lang)
	text := s.controller.WeatherByCity(ctx, in.City, in.CountryCode, units, lang, notifierFor(req))
	return textResult(text), nil, nil
}

func (s *Server) getWeatherByCoordinates(ctx context.Context, req *mcp.CallToolRequest, in WeatherByCoordinatesInput) (*mcp.CallToolResult, any, error) {
	if in.Latitude < -90 || in.Latitude > 90 {
		return nil, nil, fmt.Errorf("latitude %v out of range [-90, 90]", in.Latitude)
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return nil, nil, fmt.Errorf("longitude %v out of range [-180, 180]", in.Longitude)
	}
	units, lang := applyDefaults(in.Units, in.Lang)
	text := s.controller.WeatherByCoordinates(ctx, in.Latitude, in.Longitude, units, lang, notifierFor(req))
	return textResult(text), nil, nil
}

func (s *Server) getWeatherByZip(ctx context.Context, req *mcp.CallToolRequest, in WeatherByZipInput) (*mcp.CallToolResult, any, error) {
	if in.ZipCode == "" {
		return nil, nil, fmt.Errorf("zip_code must not be empty")
	}
	units, lang := applyDefaults(in.Units, in.Lang)
	text := s.controller.WeatherByZip(ctx, in.ZipCode, in.CountryCode, units, lang, notifierFor(req))
	return textResult(text), nil, nil
}

type aboutInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

func (s *Server) readAbout(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(aboutInfo{
		Name:        serverName,
		Version:     serverVersion,
		Description: "A server that provides tools to interact with the OpenWeatherMap API.",
		Capabilities: []string{
			"Current weather by city name",
			"Current weather by geographic coordinates",
			"Current weather by zip/postal code",
		},
	})
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      aboutURI,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}

func applyDefaults(units, lang string) (string, string) {
	if units == "" {
		units = defaultUnits
	}
	if lang == "" {
		lang = defaultLang
	}
	return units, lang
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// sessionNotifier forwards controller notifications to the connected
// MCP session as logging messages.
type sessionNotifier struct {
	session *mcp.ServerSession
}

func notifierFor(req *mcp.CallToolRequest) controller.Notifier {
	if req == nil || req.Session == nil {
		return nil
	}
	return sessionNotifier{session: req.Session}
}

func (n sessionNotifier) Info(ctx context.Context, message string) {
	n.log(ctx, "info", message)
}

func (n sessionNotifier) Error(ctx context.Context, message string) {
	n.log(ctx, "error", message)
}

func (n sessionNotifier) log(ctx context.Context, level mcp.LoggingLevel, message string) {
	err := n.session.Log(ctx, &mcp.LoggingMessageParams{
		Level: level,
		Data:  message,
	})
	if err != nil {
		slog.Debug("session log failed", "error", err)
	}
}
