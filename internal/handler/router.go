package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kisanmitra/backend/internal/config"
	chatHandler "github.com/kisanmitra/backend/internal/handler/chat"
	proxyHandler "github.com/kisanmitra/backend/internal/handler/proxy"
	weatherHandler "github.com/kisanmitra/backend/internal/handler/weather"
	middlewarePkg "github.com/kisanmitra/backend/internal/middleware"
	chatService "github.com/kisanmitra/backend/internal/service/chat"
	"github.com/kisanmitra/backend/internal/service/weather"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg *config.Config, chatSvc *chatService.Service, resolver chatHandler.ReplyResolver, weatherClient *weather.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	// Health route
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("KisanMitra backend running."))
	})

	// Server-side OpenRouter proxy lives at the root, matching the widget's
	// hardcoded /openrouter-proxy path.
	proxyHandler.New(cfg.OpenRouter).RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(chatSvc, resolver).RegisterRoutes(api)
		chatHandler.NewWebSocketHandler(chatSvc, resolver).RegisterWebSocketRoutes(api)
		weatherHandler.New(weatherClient, cfg.Weather).RegisterRoutes(api)
	})

	// Widget assets
	if cfg.Server.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(cfg.Server.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	return r
}
