package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kisanmitra/backend/internal/config"
	"github.com/kisanmitra/backend/internal/handler"
	"github.com/kisanmitra/backend/internal/service/advisor"
	chatService "github.com/kisanmitra/backend/internal/service/chat"
	"github.com/kisanmitra/backend/internal/service/llm"
	"github.com/kisanmitra/backend/internal/service/reply"
	"github.com/kisanmitra/backend/internal/service/weather"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	chatSvc := chatService.NewService()
	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout)
	responder := advisor.NewResponder(weatherClient, cfg.Weather.Latitude, cfg.Weather.Longitude)

	llmClient := llm.NewClient(cfg.OpenRouter.ProxyURL, cfg.OpenRouter.BaseURL,
		cfg.OpenRouter.Referer, cfg.OpenRouter.Title, cfg.OpenRouter.Timeout)
	resolver := reply.NewResolver(cfg.OpenRouter, llmClient, responder)

	if cfg.OpenRouter.HasCredential() {
		log.Println("OpenRouter credential configured, direct tier enabled")
	} else {
		log.Println("no OpenRouter credential, replies fall back to the offline responder")
	}
	if cfg.OpenRouter.ProxyURL != "" {
		log.Printf("proxy tier enabled via %s", cfg.OpenRouter.ProxyURL)
	}

	router := handler.NewRouter(cfg, chatSvc, resolver, weatherClient)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("KisanMitra backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
