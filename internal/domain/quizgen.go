package domain

import "context"

// QuestionGenerator produces validated questions for a quiz spec.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, spec QuizSpec) ([]Question, error)
}

// TextGenerator asks a language model for free text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
