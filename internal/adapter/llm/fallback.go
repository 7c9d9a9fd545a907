package llm

import (
	"context"
	"errors"
	"net/http"

	"eduassist/internal/domain"
	"eduassist/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// NamedModel is a model that can report its id for logging.
type NamedModel interface {
	llms.Model
	Name() string
}

// FallbackModel tries each model in order and returns the first success.
type FallbackModel struct {
	models []NamedModel
}

func NewFallbackModel(models ...NamedModel) *FallbackModel {
	return &FallbackModel{models: models}
}

// NewGeminiFallback builds a FallbackModel over the given Gemini model ids.
func NewGeminiFallback(apiKey, baseURL string, modelIDs []string, client *http.Client) *FallbackModel {
	models := make([]NamedModel, 0, len(modelIDs))
	for _, id := range modelIDs {
		models = append(models, NewGeminiModel(apiKey, baseURL, id, client))
	}
	return NewFallbackModel(models...)
}

func (f *FallbackModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func (f *FallbackModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(f.models) == 0 {
		return nil, domain.NewConfigurationMissingError("No language model ids are configured")
	}

	l := logger.Get()
	var lastErr error
	quotaExceeded := false

	for _, model := range f.models {
		resp, err := model.GenerateContent(ctx, messages, options...)
		if err == nil {
			l.Debug("Language model call succeeded", zap.String("model", model.Name()))
			return resp, nil
		}
		// Missing configuration applies to every model.
		if domain.IsCode(err, domain.CodeConfigurationMissing) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, domain.NewTransportFailureError("The language model request was cancelled", ctx.Err())
		}

		l.Warn("Language model failed, trying next", zap.String("model", model.Name()), zap.Error(err))
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
			quotaExceeded = true
		}
	}

	if quotaExceeded {
		return nil, domain.NewTransportFailureError(
			"Gemini API đã hết quota. Vui lòng tạo API key mới hoặc chờ reset quota.", lastErr).
			WithContext("status", http.StatusTooManyRequests).
			WithContext("quota_exhausted", true)
	}
	return nil, lastErr
}

var _ llms.Model = (*FallbackModel)(nil)
