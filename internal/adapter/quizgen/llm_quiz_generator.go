package quizgen

import (
	"context"
	"errors"
	"strings"

	"eduassist/internal/domain"
	"eduassist/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LLMQuizGenerator implements domain.QuestionGenerator on top of any
// langchaingo model.
type LLMQuizGenerator struct {
	model       llms.Model
	language    string
	temperature float64
}

// NewLLMQuizGenerator creates a generator. A nil model yields
// CONFIGURATION_MISSING on every call.
func NewLLMQuizGenerator(model llms.Model, language string, temperature float64) *LLMQuizGenerator {
	return &LLMQuizGenerator{
		model:       model,
		language:    language,
		temperature: temperature,
	}
}

func (g *LLMQuizGenerator) GenerateQuestions(ctx context.Context, spec domain.QuizSpec) ([]domain.Question, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if g.model == nil {
		return nil, domain.NewConfigurationMissingError("No language model is configured")
	}

	prompt := withLanguage(BuildQuizPrompt(spec.Grade, spec.Topic, spec.Difficulty, spec.Count), g.language)

	l := logger.Get()
	l.Info("Generating quiz questions",
		zap.String("grade", string(spec.Grade)),
		zap.String("topic", spec.Topic),
		zap.String("difficulty", string(spec.Difficulty)),
		zap.Int("count", spec.Count))

	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		l.Error("Language model call failed", zap.Error(err))
		return nil, domain.NewTransportFailureError("The language model request failed", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewNoResponseTextError("")
	}

	questions, err := ParseQuestions(text)
	if err != nil {
		l.Warn("Discarding malformed question batch",
			zap.Error(err),
			zap.String("raw_prefix", text[:min(200, len(text))]))
		return nil, err
	}

	if len(questions) != spec.Count {
		l.Info("Model returned a different number of questions than requested",
			zap.Int("requested", spec.Count),
			zap.Int("received", len(questions)))
	}
	return questions, nil
}

var _ domain.QuestionGenerator = (*LLMQuizGenerator)(nil)
