package ai

import (
	"context"
	"fmt"
	"strings"
)

// Provider is implemented by every language-model backend.
type Provider interface {
	// CompleteJSON sends a system instruction and a user prompt and returns
	// the model's reply, asking the backend to answer with a JSON object.
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ProviderConfig holds the configuration needed to create a Provider.
type ProviderConfig struct {
	Provider string // "openai" | "gemini" | "anthropic"
	APIKey   string
	Model    string
	BaseURL  string // optional endpoint override
}

// NewProvider creates the provider named by cfg.Provider.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "gemini":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", cfg.Provider)
	}
}

// extractJSON strips markdown code fences a model may wrap its JSON in.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	for _, fence := range []string{"```json", "```"} {
		if after, found := strings.CutPrefix(s, fence); found {
			if idx := strings.LastIndex(after, "```"); idx >= 0 {
				after = after[:idx]
			}
			return strings.TrimSpace(after)
		}
	}

	return s
}
