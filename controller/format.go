package controller

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Arliiii/WeatherMCP/models"
)

// FormatWeather renders a validated weather payload as a fixed-layout,
// human-readable report. Pure function; the units value only selects
// the displayed symbols, the numbers come through as delivered.
func FormatWeather(weather *models.CurrentWeatherResponse, units string) string {
	tempUnit := "K"
	windUnit := "m/s"
	switch units {
	case "metric":
		tempUnit = "°C"
	case "imperial":
		tempUnit = "°F"
		windUnit = "mph"
	}

	conditions := "Unknown"
	if len(weather.Weather) > 0 {
		conditions = capitalize(weather.Weather[0].Description)
	}

	formatted := models.FormattedWeatherResponse{
		Location:      weather.Name,
		Country:       weather.Sys.Country,
		Temperature:   weather.Main.Temp,
		FeelsLike:     weather.Main.FeelsLike,
		Conditions:    conditions,
		Humidity:      weather.Main.Humidity,
		WindSpeed:     weather.Wind.Speed,
		WindDirection: weather.Wind.Deg,
		Pressure:      weather.Main.Pressure,
		Visibility:    float64(weather.Visibility) / 1000, // meters to km
		Sunrise:       weather.Sys.Sunrise,
		Sunset:        weather.Sys.Sunset,
		Timezone:      weather.Timezone,
	}

	return strings.TrimSpace(fmt.Sprintf(`
Weather for %s, %s:
Temperature: %s%s (Feels like: %s%s)
Conditions: %s
Humidity: %d%%
Wind: %s %s at %d°
Pressure: %d hPa
Visibility: %.1f km
`,
		formatted.Location, formatted.Country,
		formatFloat(formatted.Temperature), tempUnit, formatFloat(formatted.FeelsLike), tempUnit,
		formatted.Conditions,
		formatted.Humidity,
		formatFloat(formatted.WindSpeed), windUnit, formatted.WindDirection,
		formatted.Pressure,
		formatted.Visibility,
	))
}

// formatFloat renders a float at full precision while keeping the
// decimal point on whole values, so 22.0 reads "22.0", not "22".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
