package models

import (
	"encoding/json"
	"fmt"
)

// Coordinates is the geographic location of a weather reading.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherCondition is one entry of the "weather" array. The first entry
// is the primary condition for display.
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// MainWeatherData holds the core temperature and atmosphere metrics.
// Sea-level and ground-level pressure are not reported by every station.
type MainWeatherData struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
	SeaLevel  *int    `json:"sea_level,omitempty"`
	GrndLevel *int    `json:"grnd_level,omitempty"`
}

type Wind struct {
	Speed float64  `json:"speed"`
	Deg   int      `json:"deg"`
	Gust  *float64 `json:"gust,omitempty"`
}

type Clouds struct {
	All int `json:"all"`
}

// Rain reports precipitation volume in mm. The upstream field names are
// "1h" and "3h"; a missing block or field means no precipitation was
// reported, not zero.
type Rain struct {
	OneHour    *float64 `json:"1h,omitempty"`
	ThreeHours *float64 `json:"3h,omitempty"`
}

// Snow mirrors Rain for snowfall volume.
type Snow struct {
	OneHour    *float64 `json:"1h,omitempty"`
	ThreeHours *float64 `json:"3h,omitempty"`
}

// SystemInfo carries the country code and sun times plus two opaque
// upstream-internal fields.
type SystemInfo struct {
	Type    *int   `json:"type,omitempty"`
	ID      *int   `json:"id,omitempty"`
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// CurrentWeatherResponse is the full success payload of the current
// weather endpoint.
type CurrentWeatherResponse struct {
	Coord      Coordinates        `json:"coord"`
	Weather    []WeatherCondition `json:"weather"`
	Base       string             `json:"base"`
	Main       MainWeatherData    `json:"main"`
	Visibility int                `json:"visibility"`
	Wind       Wind               `json:"wind"`
	Clouds     Clouds             `json:"clouds"`
	Rain       *Rain              `json:"rain,omitempty"`
	Snow       *Snow              `json:"snow,omitempty"`
	Dt         int64              `json:"dt"`
	Sys        SystemInfo         `json:"sys"`
	Timezone   int                `json:"timezone"`
	ID         int                `json:"id"`
	Name       string             `json:"name"`
	Cod        int                `json:"cod"`
}

// requiredWeatherMembers are the success-payload members that must be
// present; a 200 body missing any of them is invalid as a whole.
// Rain and snow are deliberately absent from this list.
var requiredWeatherMembers = []string{
	"coord", "weather", "base", "main", "visibility",
	"wind", "clouds", "dt", "sys", "timezone", "id", "name", "cod",
}

// UnmarshalJSON rejects payloads missing any required member before
// decoding the values. Zero is a legitimate reading for every numeric
// field, so absence has to be checked against the keys, not the
// decoded values.
func (w *CurrentWeatherResponse) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, member := range requiredWeatherMembers {
		if _, ok := raw[member]; !ok {
			return fmt.Errorf("weather response missing required field %q", member)
		}
	}
	type plain CurrentWeatherResponse
	return json.Unmarshal(b, (*plain)(w))
}

// Validate rejects payloads whose identifying fields decoded to empty
// values. Missing members and type mismatches already fail during
// decoding.
func (w *CurrentWeatherResponse) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("weather response missing city name")
	}
	if w.Sys.Country == "" {
		return fmt.Errorf("weather response missing country code")
	}
	if w.Cod == 0 {
		return fmt.Errorf("weather response missing status code")
	}
	return nil
}

// ErrorCode decodes the upstream "cod" field, which arrives as a bare
// number on some responses and a quoted string on others.
type ErrorCode string

func (c *ErrorCode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = ErrorCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("cod is neither string nor number: %w", err)
	}
	*c = ErrorCode(n.String())
	return nil
}

// WeatherError is the upstream error envelope, also synthesized locally
// for transport and decoding failures.
type WeatherError struct {
	Cod     ErrorCode `json:"cod"`
	Message string    `json:"message"`
}

// FormattedWeatherResponse is the display-only projection built by the
// formatter. Visibility is kilometers here, not meters.
type FormattedWeatherResponse struct {
	Location      string  `json:"location"`
	Country       string  `json:"country"`
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Conditions    string  `json:"conditions"`
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection int     `json:"wind_direction"`
	Pressure      int     `json:"pressure"`
	Visibility    float64 `json:"visibility"`
	Sunrise       int64   `json:"sunrise"`
	Sunset        int64   `json:"sunset"`
	Timezone      int     `json:"timezone"`
}
