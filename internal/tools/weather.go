package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/genui/genui/internal/errorsx"
)

const (
	WeatherDataToolName      = "weather-data"
	DefaultGeocodeBaseURL    = "https://geocode.xyz"
	DefaultWeatherGovBaseURL = "https://api.weather.gov"
	DefaultWeatherUserAgent  = "genui-backend"
	defaultWeatherCountry    = "ua"
)

var errMissingGeocodeKey = errors.New("missing GEOCODE_API_KEY secret")

// WeatherInput is the weather-data argument schema.
type WeatherInput struct {
	City    string `json:"city" jsonschema_description:"The city name to get weather for"`
	State   string `json:"state" jsonschema_description:"The two letter state abbreviation to get weather for"`
	Country string `json:"country,omitempty" jsonschema:"default=ua" jsonschema_description:"The two letter country abbreviation to get weather for"`
}

// WeatherReport is the weather-data result.
type WeatherReport struct {
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
}

// WeatherConfig carries the credential and endpoints for WeatherDataTool.
type WeatherConfig struct {
	GeocodeAPIKey  string
	GeocodeBaseURL string
	WeatherBaseURL string
	UserAgent      string
	HTTPClient     *http.Client
}

// WeatherDataTool resolves a city to coordinates and reads the first
// forecast period: geocode, then forecast index, then forecast detail.
// A failure at any step stops the chain.
type WeatherDataTool struct {
	cfg    WeatherConfig
	client *http.Client
	schema *Schema
}

func NewWeatherDataTool(cfg WeatherConfig) *WeatherDataTool {
	if cfg.GeocodeBaseURL == "" {
		cfg.GeocodeBaseURL = DefaultGeocodeBaseURL
	}
	if cfg.WeatherBaseURL == "" {
		cfg.WeatherBaseURL = DefaultWeatherGovBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultWeatherUserAgent
	}
	cfg.GeocodeBaseURL = strings.TrimSuffix(cfg.GeocodeBaseURL, "/")
	cfg.WeatherBaseURL = strings.TrimSuffix(cfg.WeatherBaseURL, "/")
	return &WeatherDataTool{
		cfg:    cfg,
		client: defaultClient(cfg.HTTPClient),
		schema: MustSchemaFor(&WeatherInput{}),
	}
}

func (t *WeatherDataTool) Name() string        { return WeatherDataToolName }
func (t *WeatherDataTool) Description() string { return "Get the current temperature for a city." }
func (t *WeatherDataTool) Schema() *Schema     { return t.schema }

func (t *WeatherDataTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	var in WeatherInput
	if err := bindArgs(t.schema, t.Name(), args, &in); err != nil {
		return nil, err
	}
	report, err := t.Lookup(ctx, in)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (t *WeatherDataTool) Lookup(ctx context.Context, in WeatherInput) (*WeatherReport, error) {
	if in.Country == "" {
		in.Country = defaultWeatherCountry
	}
	if t.cfg.GeocodeAPIKey == "" {
		return nil, errorsx.Upstream(WeatherDataToolName, errMissingGeocodeKey)
	}

	lat, lon, err := t.geocode(ctx, in)
	if err != nil {
		return nil, errorsx.Upstream("geocode", err)
	}
	forecastURL, err := t.forecastURL(ctx, lat, lon)
	if err != nil {
		return nil, errorsx.Upstream("forecast index", err)
	}
	temperature, err := t.currentTemperature(ctx, forecastURL)
	if err != nil {
		return nil, errorsx.Upstream("forecast", err)
	}

	return &WeatherReport{
		City:        in.City,
		State:       in.State,
		Country:     in.Country,
		Temperature: temperature,
	}, nil
}

func (t *WeatherDataTool) geocode(ctx context.Context, in WeatherInput) (string, string, error) {
	location := strings.Join([]string{
		url.PathEscape(strings.ToLower(in.City)),
		url.PathEscape(strings.ToLower(in.State)),
		url.PathEscape(strings.ToLower(in.Country)),
	}, ",")
	endpoint := fmt.Sprintf("%s/%s?json=1&auth=%s", t.cfg.GeocodeBaseURL, location, url.QueryEscape(t.cfg.GeocodeAPIKey))

	var payload struct {
		Latt  any `json:"latt"`
		Longt any `json:"longt"`
	}
	if err := getJSON(ctx, t.client, endpoint, nil, &payload); err != nil {
		return "", "", err
	}
	lat, ok := coordinate(payload.Latt)
	if !ok {
		return "", "", errors.New("no geocode data found")
	}
	lon, ok := coordinate(payload.Longt)
	if !ok {
		return "", "", errors.New("no geocode data found")
	}
	return lat, lon, nil
}

func (t *WeatherDataTool) forecastURL(ctx context.Context, lat, lon string) (string, error) {
	endpoint := fmt.Sprintf("%s/points/%s,%s", t.cfg.WeatherBaseURL, lat, lon)

	var payload struct {
		Properties struct {
			Forecast string `json:"forecast"`
		} `json:"properties"`
	}
	if err := getJSON(ctx, t.client, endpoint, t.weatherHeaders(), &payload); err != nil {
		return "", err
	}
	if payload.Properties.Forecast == "" {
		return "", errors.New("no weather data found")
	}
	return payload.Properties.Forecast, nil
}

func (t *WeatherDataTool) currentTemperature(ctx context.Context, forecastURL string) (float64, error) {
	var payload struct {
		Properties struct {
			Periods []struct {
				Temperature float64 `json:"temperature"`
			} `json:"periods"`
		} `json:"properties"`
	}
	if err := getJSON(ctx, t.client, forecastURL, t.weatherHeaders(), &payload); err != nil {
		return 0, err
	}
	if len(payload.Properties.Periods) == 0 {
		return 0, errors.New("no forecast data found")
	}
	return payload.Properties.Periods[0].Temperature, nil
}

func (t *WeatherDataTool) weatherHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/geo+json",
		"User-Agent": t.cfg.UserAgent,
	}
}

// coordinate accepts geocode.xyz's string coordinates and plain numbers.
func coordinate(v any) (string, bool) {
	switch c := v.(type) {
	case string:
		c = strings.TrimSpace(c)
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			return "", false
		}
		return c, true
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64), true
	default:
		return "", false
	}
}
