package proxy

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kisanmitra/backend/internal/config"
)

func proxyRouter(cfg config.OpenRouterConfig) *chi.Mux {
	r := chi.NewRouter()
	New(cfg).RegisterRoutes(r)
	return r
}

func TestForwardPassthrough(t *testing.T) {
	var gotAuth, gotReferer, gotTitle, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"choices": [{"text": "ok"}]}`)
	}))
	defer upstream.Close()

	cfg := config.OpenRouterConfig{APIKey: "sk-or-server", BaseURL: upstream.URL, Timeout: 5 * time.Second}
	r := proxyRouter(cfg)

	body := `{"model": "m", "messages": [], "_referer": "https://widget.example", "_title": "KisanMitra"}`
	req := httptest.NewRequest(http.MethodPost, "/openrouter-proxy", strings.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if resp.Body.String() != `{"choices": [{"text": "ok"}]}` {
		t.Errorf("body not passed through verbatim: %q", resp.Body.String())
	}
	if gotAuth != "Bearer sk-or-server" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	// Hints from the body are lifted into headers.
	if gotReferer != "https://widget.example" {
		t.Errorf("HTTP-Referer = %q", gotReferer)
	}
	if gotTitle != "KisanMitra" {
		t.Errorf("X-Title = %q", gotTitle)
	}
	if gotBody != body {
		t.Errorf("forwarded body modified: %q", gotBody)
	}
}

func TestForwardHeaderHintsWin(t *testing.T) {
	var gotReferer, gotTitle string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
	}))
	defer upstream.Close()

	cfg := config.OpenRouterConfig{APIKey: "sk-or-server", BaseURL: upstream.URL, Timeout: 5 * time.Second}
	r := proxyRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/openrouter-proxy",
		strings.NewReader(`{"_referer": "https://body.example", "_title": "BodyTitle"}`))
	req.Header.Set("HTTP-Referer", "https://header.example")
	req.Header.Set("X-Title", "HeaderTitle")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if gotReferer != "https://header.example" {
		t.Errorf("HTTP-Referer = %q, header should win", gotReferer)
	}
	if gotTitle != "HeaderTitle" {
		t.Errorf("X-Title = %q, header should win", gotTitle)
	}
}

func TestForwardPropagatesUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "rate limited")
	}))
	defer upstream.Close()

	cfg := config.OpenRouterConfig{APIKey: "sk-or-server", BaseURL: upstream.URL, Timeout: 5 * time.Second}
	r := proxyRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/openrouter-proxy", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 passed through", resp.Code)
	}
	if resp.Body.String() != "rate limited" {
		t.Errorf("body = %q", resp.Body.String())
	}
}

func TestForwardWithoutServerCredential(t *testing.T) {
	cfg := config.OpenRouterConfig{APIKey: "", BaseURL: "http://unused", Timeout: time.Second}
	r := proxyRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/openrouter-proxy", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "OPENROUTER_API_KEY not configured") {
		t.Errorf("body = %q", resp.Body.String())
	}
}
