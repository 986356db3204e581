package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChatMessage is one turn in the upstream conversation body.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest mirrors the OpenAI-style chat completion request OpenRouter
// accepts. Referer rides inside the body only on the proxy path, where the
// intermediary lifts it into the HTTP-Referer header it sends upstream.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Referer     string        `json:"_referer,omitempty"`
}

// StatusError reports a non-2xx upstream answer together with the raw body,
// which OpenRouter uses for diagnostic detail.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d - %s", e.StatusCode, e.Body)
}

// Client issues completion requests to OpenRouter, either through a trusted
// proxy that holds the credential server-side or directly with a bearer key.
type Client struct {
	proxyURL string
	baseURL  string
	referer  string
	title    string
	http     *http.Client
}

// NewClient builds an OpenRouter client. proxyURL may be empty when no
// intermediary is deployed; baseURL is the chat completions endpoint.
func NewClient(proxyURL, baseURL, referer, title string, timeout time.Duration) *Client {
	return &Client{
		proxyURL: proxyURL,
		baseURL:  baseURL,
		referer:  referer,
		title:    title,
		http:     &http.Client{Timeout: timeout},
	}
}

// ProxyConfigured reports whether an intermediary endpoint is set.
func (c *Client) ProxyConfigured() bool {
	return c.proxyURL != ""
}

// CompleteViaProxy sends the request through the trusted intermediary and
// returns the raw passthrough body. A non-2xx intermediary status is an error
// here; callers treat any failure on this path as a soft miss.
func (c *Client) CompleteViaProxy(ctx context.Context, req ChatRequest) (string, error) {
	if c.proxyURL == "" {
		return "", fmt.Errorf("proxy endpoint not configured")
	}

	req.Referer = c.referer
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode proxy request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build proxy request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Title", c.title)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read proxy response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return string(raw), nil
}

// CompleteDirect sends an authenticated request straight to OpenRouter and
// returns the raw body. Non-2xx answers come back as *StatusError so the
// caller can surface the upstream's own message.
func (c *Client) CompleteDirect(ctx context.Context, apiKey string, req ChatRequest) (string, error) {
	req.Referer = ""
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", c.referer)
	httpReq.Header.Set("X-Title", c.title)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return string(raw), nil
}
