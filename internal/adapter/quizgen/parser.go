package quizgen

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"eduassist/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

// questionListSchema describes the only accepted model output.
const questionListSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"properties": {
			"text": {"type": "string", "minLength": 1, "pattern": "\\S"},
			"options": {"type": "array", "items": {"type": "string"}, "minItems": 4, "maxItems": 4},
			"correctIndex": {"type": "integer", "minimum": 0, "maximum": 3}
		},
		"required": ["text", "options", "correctIndex"]
	}
}`

var (
	schemaLoader = gojsonschema.NewStringLoader(questionListSchema)
	fencePattern = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
)

// rawQuestion mirrors the wire shape; correctIndex decodes through float64
// since the schema accepts integral values written as 1.0.
type rawQuestion struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex float64  `json:"correctIndex"`
}

// CleanResponse removes reasoning preambles and markdown code fences that
// models wrap around JSON.
func CleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
		}
	}

	cleaned = fencePattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ParseQuestions turns model output into questions. Any invalid element
// rejects the whole batch with MALFORMED_RESPONSE.
func ParseQuestions(raw string) ([]domain.Question, error) {
	cleaned := CleanResponse(raw)
	if cleaned == "" {
		return nil, domain.NewMalformedResponseError("empty response", nil)
	}
	if !json.Valid([]byte(cleaned)) {
		return nil, domain.NewMalformedResponseError("response is not valid JSON", nil)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, domain.NewMalformedResponseError("schema validation failed", err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			messages = append(messages, e.String())
		}
		return nil, domain.NewMalformedResponseError(strings.Join(messages, "; "), errors.New("question list failed schema validation"))
	}

	var items []rawQuestion
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, domain.NewMalformedResponseError("response could not be decoded", err)
	}

	questions := make([]domain.Question, 0, len(items))
	for _, item := range items {
		q := domain.Question{
			Text:         item.Text,
			Options:      item.Options,
			CorrectIndex: int(item.CorrectIndex),
		}
		if err := q.Validate(); err != nil {
			return nil, domain.NewMalformedResponseError(err.Error(), err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
