package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/llm"
)

// WeatherClient fetches current conditions for a coordinate. The
// infrastructure weather package satisfies this.
type WeatherClient interface {
	CurrentWeather(ctx context.Context, latitude, longitude float64) (string, error)
}

// WeatherTool reports the current weather at a location.
type WeatherTool struct {
	client WeatherClient
}

// NewWeatherTool constructs the get_weather tool.
func NewWeatherTool(client WeatherClient) *WeatherTool {
	return &WeatherTool{client: client}
}

func (t *WeatherTool) Kind() Kind { return KindGetWeather }

func (t *WeatherTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolFunctionSchema{
			Name:        string(KindGetWeather),
			Description: "Get the current weather at a location",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"latitude":  map[string]interface{}{"type": "number"},
					"longitude": map[string]interface{}{"type": "number"},
				},
				"required": []string{"latitude", "longitude"},
			},
		},
	}
}

func (t *WeatherTool) Execute(ctx context.Context, _ domain.Owner, args json.RawMessage) (*Result, error) {
	var params struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return ErrorResult(fmt.Sprintf("invalid get_weather arguments: %v", err)), nil
	}

	report, err := t.client.CurrentWeather(ctx, params.Latitude, params.Longitude)
	if err != nil {
		return ErrorResult(fmt.Sprintf("weather lookup failed: %v", err)), nil
	}
	return &Result{Output: report}, nil
}
