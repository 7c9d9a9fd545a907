package domain

import (
	"strings"
	"time"
)

// Grade is the school grade a quiz targets.
type Grade string

const (
	Grade8 Grade = "8"
	Grade9 Grade = "9"
)

func (g Grade) Valid() bool {
	return g == Grade8 || g == Grade9
}

// Difficulty of the generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Label is the Vietnamese label shown to teachers.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Dễ"
	case DifficultyMedium:
		return "Trung bình"
	case DifficultyHard:
		return "Khó"
	}
	return string(d)
}

const (
	OptionCount      = 4
	MinQuestionCount = 1
	MaxQuestionCount = 50
)

// Question is one multiple-choice item.
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// Validate checks the question invariants.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Options) != OptionCount {
		return NewInvalidInputError("a question must have exactly 4 options")
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return NewInvalidInputError("correct index must be between 0 and 3")
	}
	return nil
}

// QuizSpec holds the generation parameters chosen by the teacher.
type QuizSpec struct {
	Grade      Grade      `json:"grade"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"count"`
}

// Validate is run before any language model call.
func (s QuizSpec) Validate() error {
	var errs ValidationErrors
	if !s.Grade.Valid() {
		errs = append(errs, NewInvalidFormatError("grade", s.Grade))
	}
	if strings.TrimSpace(s.Topic) == "" {
		errs = append(errs, NewMissingFieldError("topic"))
	}
	if !s.Difficulty.Valid() {
		errs = append(errs, NewInvalidFormatError("difficulty", s.Difficulty))
	}
	if s.Count < MinQuestionCount || s.Count > MaxQuestionCount {
		errs = append(errs, NewOutOfRangeError("count", s.Count, MinQuestionCount, MaxQuestionCount))
	}
	if len(errs) > 0 {
		return NewError(CodeInvalidInput, errs.Error(), errs)
	}
	return nil
}

// Quiz is a saved, immutable set of questions.
type Quiz struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"ownerId"`
	Name       string     `json:"name"`
	Grade      Grade      `json:"grade"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`
	Count      int        `json:"count"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NewQuiz builds an unsaved quiz; the store assigns ID and CreatedAt.
func NewQuiz(ownerID, name string, spec QuizSpec, questions []Question) *Quiz {
	return &Quiz{
		OwnerID:    ownerID,
		Name:       name,
		Grade:      spec.Grade,
		Topic:      spec.Topic,
		Difficulty: spec.Difficulty,
		Questions:  questions,
		Count:      len(questions),
	}
}

// Validate checks every question; one bad question rejects the quiz.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return NewInvalidInputError("a quiz needs at least one question")
	}
	for _, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Attempt is a graded submission of a quiz.
type Attempt struct {
	ID             string      `json:"id"`
	QuizID         string      `json:"quizId"`
	RespondentName string      `json:"respondentName"`
	Answers        map[int]int `json:"answers"`
	Score          int         `json:"score"`
	Total          int         `json:"total"`
	Percentage     int         `json:"percentage"`
	Passed         bool        `json:"passed"`
	SubmittedAt    time.Time   `json:"submittedAt"`
}
