package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"eduassist/internal/domain"
	"eduassist/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// StatusError is the cause attached to TRANSPORT_FAILURE when the API
// answers with a non-2xx status.
type StatusError struct {
	Model      string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", e.Model, e.StatusCode)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// GeminiModel calls the generateContent REST endpoint for one model id.
type GeminiModel struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewGeminiModel(apiKey, baseURL, model string, client *http.Client) *GeminiModel {
	if client == nil {
		client = http.DefaultClient
	}
	return &GeminiModel{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  client,
	}
}

func (g *GeminiModel) Name() string {
	return g.model
}

// Call implements llms.Model.
func (g *GeminiModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g, prompt, options...)
}

// GenerateContent implements llms.Model.
func (g *GeminiModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if g.apiKey == "" {
		return nil, domain.NewConfigurationMissingError("Gemini API key is not configured")
	}

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	reqBody := generateRequest{Contents: toGeminiContents(messages)}
	if opts.Temperature > 0 || opts.MaxTokens > 0 {
		cfg := &generationConfig{MaxOutputTokens: opts.MaxTokens}
		if opts.Temperature > 0 {
			t := opts.Temperature
			cfg.Temperature = &t
		}
		reqBody.GenerationConfig = cfg
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, domain.NewInternalError("failed to encode Gemini request", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewTransportFailureError("failed to build Gemini request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, domain.NewTransportFailureError("Gemini request failed", err).
			WithContext("model", g.model)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewTransportFailureError("failed to read Gemini response", err).
			WithContext("model", g.model)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Get().Warn("Gemini returned an error status",
			zap.String("model", g.model),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body[:min(200, len(body))])))
		statusErr := &StatusError{Model: g.model, StatusCode: resp.StatusCode, Body: string(body)}
		return nil, domain.NewTransportFailureError("Gemini returned an error status", statusErr).
			WithContext("model", g.model).
			WithContext("status", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, domain.NewNoResponseTextError(g.model)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == "" {
		return nil, domain.NewNoResponseTextError(g.model)
	}

	candidate := parsed.Candidates[0]
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:    candidate.Content.Parts[0].Text,
			StopReason: candidate.FinishReason,
			GenerationInfo: map[string]any{
				"model": g.model,
			},
		}},
	}, nil
}

func toGeminiContents(messages []llms.MessageContent) []geminiContent {
	contents := make([]geminiContent, 0, len(messages))
	for _, msg := range messages {
		var parts []geminiPart
		for _, part := range msg.Parts {
			if tp, ok := part.(llms.TextContent); ok {
				parts = append(parts, geminiPart{Text: tp.Text})
			}
		}
		if len(parts) == 0 {
			continue
		}
		role := "user"
		if msg.Role == llms.ChatMessageTypeAI {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: parts})
	}
	return contents
}

var _ llms.Model = (*GeminiModel)(nil)
