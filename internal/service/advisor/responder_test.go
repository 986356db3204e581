package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kisanmitra/backend/internal/service/weather"
)

type stubWeather struct {
	snapshot weather.Snapshot
	err      error
	calls    int
}

func (s *stubWeather) FetchCurrent(context.Context, float64, float64) (weather.Snapshot, error) {
	s.calls++
	return s.snapshot, s.err
}

func goodSnapshot() weather.Snapshot {
	hourly := make([]weather.HourlyEntry, 0, weather.HourlyRows)
	for i := 0; i < weather.HourlyRows; i++ {
		hourly = append(hourly, weather.HourlyEntry{
			TimeLabel:   fmt.Sprintf("1%d:00", i),
			TempC:       22.5,
			WindKmh:     9,
			HumidityPct: 48,
		})
	}
	return weather.Snapshot{CurrentTempC: 22.5, CurrentWindKmh: 9, Hourly: hourly}
}

func TestReplyCategories(t *testing.T) {
	responder := NewResponder(&stubWeather{snapshot: goodSnapshot()}, 52.52, 13.41)
	ctx := context.Background()

	tests := []struct {
		query string
		want  string
	}{
		{"how do I plant tomato", "Tomato grows best"},
		{"my crop has a pest problem", "Tomato grows best"}, // crop outranks pest
		{"pest problem in my field", "control crop diseases"},
		{"MARKET rates please", "Market prices change daily"},
		{"any government scheme for me", "government schemes"},
		{"namaste", "How can I help you"},
		{"tell me a joke", "farming, crop, and agriculture"},
	}

	for _, tc := range tests {
		got := responder.Reply(ctx, tc.query)
		if !strings.Contains(got, tc.want) {
			t.Errorf("Reply(%q) = %q, want mention of %q", tc.query, got, tc.want)
		}
	}
}

func TestReplyWeatherBeatsGreeting(t *testing.T) {
	stub := &stubWeather{snapshot: goodSnapshot()}
	responder := NewResponder(stub, 52.52, 13.41)

	got := responder.Reply(context.Background(), "hello, what about the weather today?")
	if !strings.Contains(got, "Current temperature") {
		t.Fatalf("weather category should win over greeting, got %q", got)
	}
	if stub.calls != 1 {
		t.Fatalf("expected exactly one weather fetch, got %d", stub.calls)
	}
}

func TestWeatherReplyContents(t *testing.T) {
	responder := NewResponder(&stubWeather{snapshot: goodSnapshot()}, 52.52, 13.41)
	got := responder.Reply(context.Background(), "weather")

	if !strings.Contains(got, "Current temperature: 22.5°C") {
		t.Errorf("missing current temperature line: %q", got)
	}
	if !strings.Contains(got, "Wind speed: 9 km/h.") {
		t.Errorf("missing wind line: %q", got)
	}
	if rows := strings.Count(got, " km/h, "); rows != weather.HourlyRows {
		t.Errorf("hourly rows rendered = %d, want %d", rows, weather.HourlyRows)
	}
	if !strings.Contains(got, "Suitable crops for current weather:") {
		t.Errorf("missing crop suggestion line: %q", got)
	}
	if !strings.Contains(got, "Wheat") {
		t.Errorf("22.5°C should suggest the wheat band: %q", got)
	}
	if !strings.Contains(got, "(Data from open-meteo.com)") {
		t.Errorf("missing attribution line: %q", got)
	}
}

func TestWeatherReplyFetchFailure(t *testing.T) {
	responder := NewResponder(&stubWeather{err: errors.New("dns failure")}, 52.52, 13.41)
	got := responder.Reply(context.Background(), "weather please")
	if got != weatherUnavailableReply {
		t.Fatalf("Reply = %q, want the fixed unavailable-weather message", got)
	}
}

func TestReplyNeverEmpty(t *testing.T) {
	responder := NewResponder(&stubWeather{err: errors.New("down")}, 0, 0)
	for _, query := range []string{"", "weather", "???", "price", "hi"} {
		if responder.Reply(context.Background(), query) == "" {
			t.Fatalf("Reply(%q) returned empty string", query)
		}
	}
}
