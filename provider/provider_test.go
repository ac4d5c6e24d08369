package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arliiii/WeatherMCP/config"
)

const sampleBody = `{
	"coord": {"lon": 2.3488, "lat": 48.8534},
	"weather": [{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"}],
	"base": "stations",
	"main": {"temp": 22.5, "feels_like": 21.8, "temp_min": 20.0, "temp_max": 24.0, "pressure": 1015, "humidity": 60},
	"visibility": 10000,
	"wind": {"speed": 3.6, "deg": 180},
	"clouds": {"all": 0},
	"dt": 1718100000,
	"sys": {"country": "FR", "sunrise": 1718075000, "sunset": 1718133000},
	"timezone": 7200,
	"id": 2988507,
	"name": "Paris",
	"cod": 200
}`

// fakeUpstream records the query of the last request and replays a
// canned status/body.
type fakeUpstream struct {
	status    int
	body      string
	lastPath  string
	lastQuery url.Values
}

func (f *fakeUpstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.lastPath = r.URL.Path
		f.lastQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		w.Write([]byte(f.body))
	}
}

func newTestProvider(t *testing.T, upstream *fakeUpstream) *Provider {
	t.Helper()
	ts := httptest.NewServer(upstream.handler())
	t.Cleanup(ts.Close)

	p, err := New(config.Config{APIKey: "test-api-key", BaseURL: ts.URL})
	require.NoError(t, err)
	return p
}

func TestNew_MissingAPIKey(t *testing.T) {
	_, err := New(config.Config{APIKey: "   ", BaseURL: "https://api.openweathermap.org/data/2.5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENWEATHER_API_KEY")
}

func TestCurrentByCity_Success(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: sampleBody}
	p := newTestProvider(t, upstream)

	res := p.CurrentByCity(context.Background(), "Paris", "fr", "metric", "en")

	require.True(t, res.OK())
	require.NotNil(t, res.Weather)
	assert.Nil(t, res.Err)
	assert.Equal(t, "Paris", res.Weather.Name)
	assert.Equal(t, "FR", res.Weather.Sys.Country)

	assert.Equal(t, "/weather", upstream.lastPath)
	assert.Equal(t, "Paris,fr", upstream.lastQuery.Get("q"))
	assert.Equal(t, "test-api-key", upstream.lastQuery.Get("appid"))
	assert.Equal(t, "metric", upstream.lastQuery.Get("units"))
	assert.Equal(t, "en", upstream.lastQuery.Get("lang"))
}

func TestCurrentByCity_NoCountryCode(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: sampleBody}
	p := newTestProvider(t, upstream)

	res := p.CurrentByCity(context.Background(), "Paris", "", "metric", "en")

	require.True(t, res.OK())
	assert.Equal(t, "Paris", upstream.lastQuery.Get("q"))
}

func TestCurrentByCoordinates_Success(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: sampleBody}
	p := newTestProvider(t, upstream)

	res := p.CurrentByCoordinates(context.Background(), 48.8534, 2.3488, "imperial", "fr")

	require.True(t, res.OK())
	assert.Equal(t, "48.8534", upstream.lastQuery.Get("lat"))
	assert.Equal(t, "2.3488", upstream.lastQuery.Get("lon"))
	assert.Equal(t, "imperial", upstream.lastQuery.Get("units"))
	assert.Equal(t, "fr", upstream.lastQuery.Get("lang"))
}

func TestCurrentByZip_DefaultCountry(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: sampleBody}
	p := newTestProvider(t, upstream)

	res := p.CurrentByZip(context.Background(), "10001", "", "metric", "en")

	require.True(t, res.OK())
	assert.Equal(t, "10001,us", upstream.lastQuery.Get("zip"))
}

func TestCurrentByZip_ExplicitCountry(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: sampleBody}
	p := newTestProvider(t, upstream)

	res := p.CurrentByZip(context.Background(), "E14", "gb", "metric", "en")

	require.True(t, res.OK())
	assert.Equal(t, "E14,gb", upstream.lastQuery.Get("zip"))
}

func TestCurrent_UpstreamRejection(t *testing.T) {
	upstream := &fakeUpstream{status: 404, body: `{"cod": "404", "message": "city not found"}`}
	p := newTestProvider(t, upstream)

	res := p.CurrentByCity(context.Background(), "Nowhere", "", "metric", "en")

	require.False(t, res.OK())
	require.NotNil(t, res.Err)
	assert.Nil(t, res.Weather)
	assert.Equal(t, "404", string(res.Err.Cod))
	assert.Equal(t, "city not found", res.Err.Message)
}

func TestCurrent_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close() // connection refused from here on

	p, err := New(config.Config{APIKey: "test-api-key", BaseURL: ts.URL})
	require.NoError(t, err)

	res := p.CurrentByCity(context.Background(), "Paris", "fr", "metric", "en")

	require.False(t, res.OK())
	require.NotNil(t, res.Err)
	assert.Equal(t, "500", string(res.Err.Cod))
	assert.Contains(t, res.Err.Message, "Request error")
	assert.Contains(t, res.Err.Message, "connection refused")
}

func TestCurrent_MalformedSuccessBody(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: `{"name": 42`}
	p := newTestProvider(t, upstream)

	res := p.CurrentByCity(context.Background(), "Paris", "", "metric", "en")

	require.False(t, res.OK())
	assert.Equal(t, "500", string(res.Err.Cod))
	assert.Contains(t, res.Err.Message, "Unexpected error")
}

func TestCurrent_IncompleteSuccessBody(t *testing.T) {
	// Status 200 but required identifying fields are absent.
	upstream := &fakeUpstream{status: 200, body: `{"main": {"temp": 20.0}, "cod": 200}`}
	p := newTestProvider(t, upstream)

	res := p.CurrentByCity(context.Background(), "Paris", "", "metric", "en")

	require.False(t, res.OK())
	assert.Equal(t, "500", string(res.Err.Cod))
	assert.Contains(t, res.Err.Message, "Unexpected error")
}

func TestCurrent_MissingWeatherBlocks(t *testing.T) {
	// A 200 body carrying only identifying fields must not surface as a
	// zero-valued weather report.
	upstream := &fakeUpstream{status: 200, body: `{"name": "Lima", "sys": {"country": "PE", "sunrise": 1, "sunset": 2}, "cod": 200}`}
	p := newTestProvider(t, upstream)

	res := p.CurrentByCity(context.Background(), "Lima", "", "metric", "en")

	require.False(t, res.OK())
	require.NotNil(t, res.Err)
	assert.Nil(t, res.Weather)
	assert.Equal(t, "500", string(res.Err.Cod))
	assert.Contains(t, res.Err.Message, "Unexpected error")
}
