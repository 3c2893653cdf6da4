package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const openMeteoEndpoint = "https://api.open-meteo.com/v1/forecast"

// Client fetches current conditions from Open-Meteo, satisfying
// tool.WeatherClient. Open-Meteo needs no API key.
type Client struct {
	http     *resty.Client
	endpoint string
	logger   zerolog.Logger
}

// NewClient wires the Open-Meteo HTTP client.
func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "seoan-server/1.0"),
		endpoint: openMeteoEndpoint,
		logger:   logger,
	}
}

type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		Time        string  `json:"time"`
	} `json:"current"`
	CurrentUnits struct {
		Temperature string `json:"temperature_2m"`
		WindSpeed   string `json:"wind_speed_10m"`
	} `json:"current_units"`
}

// CurrentWeather returns a short textual report for the coordinate.
func (c *Client) CurrentWeather(ctx context.Context, latitude, longitude float64) (string, error) {
	var payload openMeteoResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  fmt.Sprintf("%.4f", latitude),
			"longitude": fmt.Sprintf("%.4f", longitude),
			"current":   "temperature_2m,wind_speed_10m",
		}).
		SetResult(&payload).
		Get(c.endpoint)
	if err != nil {
		c.logger.Error().Err(err).Str("service", "open-meteo").Msg("failed to query weather API")
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("weather API returned status %d", resp.StatusCode())
	}

	return fmt.Sprintf("Current weather at %.4f,%.4f: temperature %.1f%s, wind speed %.1f%s (as of %s)",
		latitude, longitude,
		payload.Current.Temperature, payload.CurrentUnits.Temperature,
		payload.Current.WindSpeed, payload.CurrentUnits.WindSpeed,
		payload.Current.Time), nil
}
