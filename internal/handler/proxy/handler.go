package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kisanmitra/backend/internal/config"
	"github.com/kisanmitra/backend/pkg/utils"
)

// Handler is the trusted intermediary for OpenRouter calls. It attaches the
// server-held credential and forwards the client body untouched; the upstream
// status and raw body come back verbatim, with no normalization here.
type Handler struct {
	cfg  config.OpenRouterConfig
	http *http.Client
}

// New creates the proxy handler.
func New(cfg config.OpenRouterConfig) *Handler {
	return &Handler{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// RegisterRoutes registers the proxy route at the server root.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/openrouter-proxy", h.handleForward)
}

func (h *Handler) handleForward(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.HasCredential() {
		utils.RespondError(w, http.StatusInternalServerError, "OPENROUTER_API_KEY not configured on server")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	forward, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	forward.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	forward.Header.Set("Content-Type", "application/json")
	forward.Header.Set("HTTP-Referer", refererFor(r, body))
	forward.Header.Set("X-Title", titleFor(r, body))

	resp, err := h.http.Do(forward)
	if err != nil {
		log.Printf("[proxy] forward failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer resp.Body.Close()

	upstream, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[proxy] failed to read upstream body: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Pass status and body through as-is.
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(upstream); err != nil {
		log.Printf("[proxy] failed to write response: %v", err)
	}
}

// bodyHints are the optional metadata fields clients may tuck into the
// request body instead of headers.
type bodyHints struct {
	Referer string `json:"_referer"`
	Title   string `json:"_title"`
}

func refererFor(r *http.Request, body []byte) string {
	if header := r.Header.Get("HTTP-Referer"); header != "" {
		return header
	}
	var hints bodyHints
	_ = json.Unmarshal(body, &hints)
	return hints.Referer
}

func titleFor(r *http.Request, body []byte) string {
	if header := r.Header.Get("X-Title"); header != "" {
		return header
	}
	var hints bodyHints
	_ = json.Unmarshal(body, &hints)
	return hints.Title
}
