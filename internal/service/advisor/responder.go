package advisor

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/kisanmitra/backend/internal/analysis/agronomy"
	"github.com/kisanmitra/backend/internal/service/weather"
)

const (
	weatherUnavailableReply = "Unable to fetch weather data right now. Please try again later."
	fallbackReply           = "I'm here to help with farming, crop, and agriculture questions. Please ask about crops, weather, diseases, market, or schemes!"
)

// WeatherReader is the slice of the weather client the responder needs.
type WeatherReader interface {
	FetchCurrent(ctx context.Context, latitude, longitude float64) (weather.Snapshot, error)
}

// Responder answers farmer queries offline with canned guidance. It is the
// last tier of reply resolution, used when no upstream model is reachable
// or configured.
type Responder struct {
	weather   WeatherReader
	latitude  float64
	longitude float64
	rules     []rule
}

// rule pairs a keyword predicate with its reply. Rules are evaluated in
// declaration order and the first match wins, so overlapping keywords in a
// query always resolve to the earlier category.
type rule struct {
	keywords []string
	respond  func(ctx context.Context, userText string) string
}

// NewResponder builds the offline responder. Weather-intent replies are
// composed live from the given reader at the configured coordinates.
func NewResponder(reader WeatherReader, latitude, longitude float64) *Responder {
	r := &Responder{
		weather:   reader,
		latitude:  latitude,
		longitude: longitude,
	}

	r.rules = []rule{
		{
			keywords: []string{"crop", "tomato", "plant"},
			respond: func(context.Context, string) string {
				return "Tomato grows best in well-drained soils with plenty of sunlight. Would you like info on disease, irrigation, or market price?"
			},
		},
		{
			keywords: []string{"disease", "pest"},
			respond: func(context.Context, string) string {
				return "To detect and control crop diseases, regularly inspect your plants and use recommended pesticides only if necessary. Would you like tips for a specific crop?"
			},
		},
		{
			keywords: []string{"weather"},
			respond:  r.weatherReply,
		},
		{
			keywords: []string{"market", "price"},
			respond: func(context.Context, string) string {
				return "Market prices change daily. For tomato, the current rate is ₹35/kg in your local mandi. Want prices for another crop?"
			},
		},
		{
			keywords: []string{"scheme", "government"},
			respond: func(context.Context, string) string {
				return "There are several government schemes for farmers. Let me know your state or crop to suggest relevant ones."
			},
		},
		{
			keywords: []string{"hello", "hi", "namaste", "hey"},
			respond: func(context.Context, string) string {
				return "Hello! How can I help you with your farming needs today?"
			},
		},
	}

	return r
}

// Reply classifies the query against the ordered rule list and renders the
// first matching category's answer. Unmatched queries get the generic help
// message, so the result is never empty.
func (r *Responder) Reply(ctx context.Context, userText string) string {
	normalized := strings.ToLower(userText)
	for _, rule := range r.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.respond(ctx, userText)
			}
		}
	}
	return fallbackReply
}

// weatherReply fetches a fresh snapshot and renders current conditions, the
// five-hour outlook and a crop suggestion. A failed or malformed fetch turns
// into the fixed unavailable-weather message rather than a partial table.
func (r *Responder) weatherReply(ctx context.Context, _ string) string {
	snapshot, err := r.weather.FetchCurrent(ctx, r.latitude, r.longitude)
	if err != nil {
		log.Printf("[advisor] weather fetch failed: %v", err)
		return weatherUnavailableReply
	}

	var b strings.Builder
	b.WriteString("Current temperature: " + formatNum(snapshot.CurrentTempC) + "°C\n")
	b.WriteString("Wind speed: " + formatNum(snapshot.CurrentWindKmh) + " km/h.\n")
	b.WriteString("Hourly forecast (temp °C / wind km/h / humidity %):\n")
	for _, hour := range snapshot.Hourly {
		b.WriteString(hour.TimeLabel + ": " + formatNum(hour.TempC) + "°C, " +
			formatNum(hour.WindKmh) + " km/h, " + formatNum(hour.HumidityPct) + "%\n")
	}
	b.WriteString("\n" + agronomy.SuggestCrops(snapshot.CurrentTempC, snapshot.CurrentWindKmh))
	b.WriteString("\n(Data from open-meteo.com)")
	return b.String()
}

// formatNum prints a reading without trailing zeros, matching how the
// provider's own numbers read (21.4, not 21.40).
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
