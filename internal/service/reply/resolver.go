package reply

import (
	"context"
	"log"

	"github.com/kisanmitra/backend/internal/config"
	"github.com/kisanmitra/backend/internal/service/llm"
)

// directErrorPrefix marks replies produced by a failed direct call. Direct
// failures are deliberately user-visible: the direct tier is an explicit
// opt-in and its problems should be diagnosable, not masked.
const directErrorPrefix = "(OpenRouter error) "

// MockResponder is the offline tier consulted when no credential is set.
type MockResponder interface {
	Reply(ctx context.Context, userText string) string
}

// Resolver turns a user query into a reply string by trying, in order: the
// trusted proxy, a direct authenticated OpenRouter call, and the offline
// responder. It never returns an error; every failure mode ends in a string.
type Resolver struct {
	cfg    config.OpenRouterConfig
	client *llm.Client
	mock   MockResponder
}

// NewResolver wires the pipeline. cfg decides which tiers are reachable:
// an empty proxy URL skips straight past the proxy tier, and a missing or
// placeholder credential routes to the mock tier instead of the direct one.
func NewResolver(cfg config.OpenRouterConfig, client *llm.Client, mock MockResponder) *Resolver {
	return &Resolver{cfg: cfg, client: client, mock: mock}
}

// Resolve produces the bot reply for one user turn.
//
// The proxy tier fails soft: any transport error or non-success status is
// logged and the pipeline moves on. The direct tier fails hard: once a
// credential is configured, its errors become the reply. The mock tier is
// only reached when the direct tier was skipped, never when it failed.
func (r *Resolver) Resolve(ctx context.Context, userText string) string {
	if r.client.ProxyConfigured() {
		raw, err := r.client.CompleteViaProxy(ctx, r.buildRequest(r.cfg.ProxyModel, userText))
		if err == nil {
			return llm.Normalize(raw)
		}
		log.Printf("[reply] proxy tier failed, falling back: %v", err)
	}

	if !r.cfg.HasCredential() {
		return r.mock.Reply(ctx, userText)
	}

	raw, err := r.client.CompleteDirect(ctx, r.cfg.APIKey, r.buildRequest(r.cfg.DirectModel, userText))
	if err != nil {
		log.Printf("[reply] direct tier failed: %v", err)
		return directErrorPrefix + err.Error()
	}
	return llm.Normalize(raw)
}

func (r *Resolver) buildRequest(model, userText string) llm.ChatRequest {
	return llm.ChatRequest{
		Model:       model,
		Messages:    []llm.ChatMessage{{Role: "user", Content: userText}},
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
	}
}
