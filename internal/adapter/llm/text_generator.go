package llm

import (
	"context"
	"errors"
	"strings"

	"eduassist/internal/domain"

	"github.com/tmc/langchaingo/llms"
)

// TextGenerator adapts an llms.Model to domain.TextGenerator.
type TextGenerator struct {
	model       llms.Model
	temperature float64
}

func NewTextGenerator(model llms.Model, temperature float64) *TextGenerator {
	return &TextGenerator{model: model, temperature: temperature}
}

func (t *TextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if t.model == nil {
		return "", domain.NewConfigurationMissingError("No language model is configured")
	}
	text, err := llms.GenerateFromSinglePrompt(ctx, t.model, prompt, llms.WithTemperature(t.temperature))
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return "", err
		}
		return "", domain.NewTransportFailureError("The language model request failed", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewNoResponseTextError("")
	}
	return text, nil
}

var _ domain.TextGenerator = (*TextGenerator)(nil)
