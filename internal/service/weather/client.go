package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrMalformedPayload indicates the provider answered but the body is missing
// required fields or carries fewer hourly entries than callers render.
var ErrMalformedPayload = errors.New("malformed weather payload")

// HourlyRows is how many forecast entries every snapshot carries. Providers
// may return more; the snapshot is always truncated to exactly this many.
const HourlyRows = 5

// HourlyEntry is one row of the short-range forecast.
type HourlyEntry struct {
	TimeLabel   string  `json:"time"`
	TempC       float64 `json:"temperature"`
	WindKmh     float64 `json:"windSpeed"`
	HumidityPct float64 `json:"humidity"`
}

// Snapshot is a point-in-time weather reading. Fetched fresh per query and
// discarded once the reply is rendered; nothing caches it.
type Snapshot struct {
	CurrentTempC   float64       `json:"currentTemperature"`
	CurrentWindKmh float64       `json:"currentWindSpeed"`
	Hourly         []HourlyEntry `json:"hourly"`
}

// Client talks to the Open-Meteo forecast API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a weather client for the given forecast endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// openMeteoPayload mirrors the subset of the forecast response we consume.
// Pointers distinguish absent fields from zero readings.
type openMeteoPayload struct {
	Current *struct {
		Temperature2m *float64 `json:"temperature_2m"`
		WindSpeed10m  *float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Hourly *struct {
		Time             []string  `json:"time"`
		Temperature2m    []float64 `json:"temperature_2m"`
		RelativeHumidity []float64 `json:"relative_humidity_2m"`
		WindSpeed10m     []float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
}

// FetchCurrent retrieves the current reading plus the next five hours for the
// given coordinates.
func (c *Client) FetchCurrent(ctx context.Context, latitude, longitude float64) (Snapshot, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%g", latitude))
	query.Set("longitude", fmt.Sprintf("%g", longitude))
	query.Set("current", "temperature_2m,wind_speed_10m")
	query.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Snapshot{}, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read weather response: %w", err)
	}

	var payload openMeteoPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return buildSnapshot(payload)
}

func buildSnapshot(payload openMeteoPayload) (Snapshot, error) {
	if payload.Current == nil || payload.Current.Temperature2m == nil || payload.Current.WindSpeed10m == nil {
		return Snapshot{}, fmt.Errorf("%w: missing current readings", ErrMalformedPayload)
	}
	hourly := payload.Hourly
	if hourly == nil {
		return Snapshot{}, fmt.Errorf("%w: missing hourly block", ErrMalformedPayload)
	}
	if len(hourly.Time) < HourlyRows || len(hourly.Temperature2m) < HourlyRows ||
		len(hourly.RelativeHumidity) < HourlyRows || len(hourly.WindSpeed10m) < HourlyRows {
		return Snapshot{}, fmt.Errorf("%w: fewer than %d hourly entries", ErrMalformedPayload, HourlyRows)
	}

	snapshot := Snapshot{
		CurrentTempC:   *payload.Current.Temperature2m,
		CurrentWindKmh: *payload.Current.WindSpeed10m,
		Hourly:         make([]HourlyEntry, 0, HourlyRows),
	}
	for i := 0; i < HourlyRows; i++ {
		snapshot.Hourly = append(snapshot.Hourly, HourlyEntry{
			TimeLabel:   hourLabel(hourly.Time[i]),
			TempC:       hourly.Temperature2m[i],
			WindKmh:     hourly.WindSpeed10m[i],
			HumidityPct: hourly.RelativeHumidity[i],
		})
	}
	return snapshot, nil
}

// hourLabel trims an ISO-8601 timestamp like "2024-06-01T14:00" down to "14:00".
func hourLabel(iso string) string {
	if len(iso) >= 16 {
		return iso[11:16]
	}
	return iso
}
