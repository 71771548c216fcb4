package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// forecastHours is how far ahead the rain check looks.
const forecastHours = 12

// RainForecast is the worst precipitation probability over the next hours.
type RainForecast struct {
	MaxProbability int
}

// Forecaster answers rain questions.
type Forecaster interface {
	RainForecast(ctx context.Context) (*RainForecast, error)
}

// OpenMeteoClient reads hourly precipitation probability for a fixed point.
type OpenMeteoClient struct {
	baseURL   string
	latitude  float64
	longitude float64
	timezone  string
	client    *http.Client
}

func NewOpenMeteoClient(baseURL string, latitude, longitude float64, timezone string, timeout time.Duration) *OpenMeteoClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OpenMeteoClient{
		baseURL:   baseURL,
		latitude:  latitude,
		longitude: longitude,
		timezone:  timezone,
		client:    &http.Client{Timeout: timeout},
	}
}

type forecastResponse struct {
	Hourly struct {
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
	} `json:"hourly"`
}

func (c *OpenMeteoClient) RainForecast(ctx context.Context) (*RainForecast, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.longitude, 'f', -1, 64))
	q.Set("hourly", "precipitation_probability")
	q.Set("timezone", c.timezone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast returned status %d", resp.StatusCode)
	}

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	hours := body.Hourly.PrecipitationProbability
	if len(hours) > forecastHours {
		hours = hours[:forecastHours]
	}
	worst := 0.0
	for _, p := range hours {
		if p != nil && *p > worst {
			worst = *p
		}
	}
	return &RainForecast{MaxProbability: int(worst)}, nil
}

// Reply renders the rain answer shown to the user.
func (f RainForecast) Reply() string {
	if f.MaxProbability > 50 {
		return fmt.Sprintf("Rain risk is %d%% in the next 12 hours. Consider indoor options.", f.MaxProbability)
	}
	return fmt.Sprintf("Rain risk is low (max %d%% in the next 12 hours).", f.MaxProbability)
}
