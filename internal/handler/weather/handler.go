package weather

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kisanmitra/backend/internal/config"
	"github.com/kisanmitra/backend/internal/service/weather"
	"github.com/kisanmitra/backend/pkg/utils"
)

// Reader is the slice of the weather client the handler needs.
type Reader interface {
	FetchCurrent(ctx context.Context, latitude, longitude float64) (weather.Snapshot, error)
}

// Handler serves the weather info box with a fresh snapshot per request.
type Handler struct {
	reader Reader
	cfg    config.WeatherConfig
}

// New creates the weather handler.
func New(reader Reader, cfg config.WeatherConfig) *Handler {
	return &Handler{reader: reader, cfg: cfg}
}

// RegisterRoutes registers weather routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/weather", h.handleCurrent)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.reader.FetchCurrent(r.Context(), h.cfg.Latitude, h.cfg.Longitude)
	if err != nil {
		log.Printf("[weather] fetch failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "unable to load weather data")
		return
	}

	utils.RespondJSON(w, http.StatusOK, snapshot)
}
