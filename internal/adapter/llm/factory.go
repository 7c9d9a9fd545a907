package llm

import (
	"fmt"
	"net/http"

	"eduassist/internal/config"
	"eduassist/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// NewModel builds the configured backend. A nil model with a nil error means
// the provider is not configured.
func NewModel(cfg config.LLMConfig) (llms.Model, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "", "gemini":
		// Kept even without a key so callers get CONFIGURATION_MISSING.
		return NewGeminiFallback(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Models, httpClient), nil
	case "ollama":
		model, err := ollama.New(
			ollama.WithServerURL(cfg.Ollama.ServerURL),
			ollama.WithModel(cfg.Ollama.Model),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return model, nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			logger.Get().Warn("OpenAI provider selected without an API key; language model disabled")
			return nil, nil
		}
		model, err := openai.New(
			openai.WithToken(cfg.OpenAI.APIKey),
			openai.WithModel(cfg.OpenAI.Model),
			openai.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return model, nil
	case "none":
		return nil, nil
	default:
		logger.Get().Warn("Unknown language model provider", zap.String("provider", cfg.Provider))
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
