package agronomy

import (
	"math"
	"strings"
)

// Band identifies one contiguous temperature interval of the suggestion table.
type Band string

const (
	Warm      Band = "warm"      // [25, 35]
	Mild      Band = "mild"      // [20, 25)
	Cool      Band = "cool"      // [15, 20)
	Cold      Band = "cold"      // [10, 15)
	Frigid    Band = "frigid"    // (-inf, 10)
	Scorching Band = "scorching" // (35, +inf)
	Unknown   Band = "unknown"   // non-finite input only
)

var bandCrops = map[Band][]string{
	Warm:      {"Rice", "Maize", "Cotton", "Sugarcane", "Soybean"},
	Mild:      {"Wheat", "Barley", "Mustard", "Chickpea", "Pea"},
	Cool:      {"Potato", "Cabbage", "Cauliflower", "Carrot", "Spinach"},
	Cold:      {"Peas", "Garlic", "Onion", "Lettuce"},
	Frigid:    {"Some root vegetables (radish, turnip)", "Cabbage"},
	Scorching: {"Millet", "Sorghum", "Groundnut (heat-tolerant crops)"},
}

// ClassifyTemp maps a temperature in Celsius onto its band. Boundaries belong
// to the lower band inclusively; the partition is exhaustive for every finite
// input, so Unknown only comes back for NaN or infinities.
func ClassifyTemp(tempC float64) Band {
	if math.IsNaN(tempC) || math.IsInf(tempC, 0) {
		return Unknown
	}

	switch {
	case tempC >= 25 && tempC <= 35:
		return Warm
	case tempC >= 20 && tempC < 25:
		return Mild
	case tempC >= 15 && tempC < 20:
		return Cool
	case tempC >= 10 && tempC < 15:
		return Cold
	case tempC < 10:
		return Frigid
	default:
		// only tempC > 35 remains
		return Scorching
	}
}

// SuggestCrops renders the crop-suitability line for the current reading.
// Wind is accepted for future rules but does not change band selection yet.
func SuggestCrops(tempC, windKmh float64) string {
	band := ClassifyTemp(tempC)
	crops, ok := bandCrops[band]
	if !ok {
		return "Suitable crops for current weather: Please consult local agri experts for best options."
	}
	return "Suitable crops for current weather: " + strings.Join(crops, ", ")
}
